/*
Package runner implements the question loop and I/O orchestration for the autodiag engine.

It acts as the bridge between the inference core (Engine) and the outside world.
The runner asks questions one at a time through a pluggable handler, retries
unreadable answers, renders the final report and optionally loops for a new session.

# Key Components

  - Runner: The orchestrator of one or more diagnostic sessions.
  - IOHandler: Decouples how questions are shown and answers are read (text, JSON).
  - TextHandler: The interactive console implementation.
  - JSONHandler: A JSON-Lines implementation for scripting and pipes.

# Usage

	r := runner.New(
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
		runner.WithLogger(logger),
	)

	if err := r.Loop(ctx, engine); err != nil {
		log.Fatal(err)
	}
*/
package runner
