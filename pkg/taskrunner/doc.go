// Package taskrunner hosts the shared abstractions for building and executing pyx
// taskfile targets. It exposes the `Executor` interface plus helpers (`Factory`,
// `Resolve`) so CLI packages can inject runner dependencies once and obtain a
// runner, while unit tests can swap in fakes. This keeps orchestration logic in
// `internal/runner` reusable without wiring duplication.
package taskrunner
