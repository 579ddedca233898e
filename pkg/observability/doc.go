/*
Package observability turns engine lifecycle events into Prometheus metrics and structured logs.

Both are exposed as domain.LifecycleHooks so they can be combined with Merge and passed to
the engine through WithLifecycleHooks.
*/
package observability
