/*
Package domain contains the core domain models of the autodiag inference engine.

It defines the static knowledge (Rules and Questions), the explicit applicability
predicates that gate questions, and the per-session AnswerSet. This package is kept
pure and free of external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Rule: A condition set mapped to a probable cause, its severity and remediation steps.
  - KnowledgeBase: The ordered rule collection. Declaration order is the priority order.
  - Question: A promptable yes/no unit of input, optionally gated by a Predicate.
  - QuestionGraph: The ordered question collection with id lookup.
  - Predicate: A tagged, inspectable expression over an AnswerSet snapshot.
  - AnswerSet: The per-session mapping from question id to boolean answer.
  - Report: The outcome of a completed session (symptoms + matched rule, if any).
*/
package domain
