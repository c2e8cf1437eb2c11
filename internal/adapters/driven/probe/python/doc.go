// Package python runs short-lived interpreter subprocesses on behalf of
// the validator and the execution tracker.
//
// Each call starts a fresh interpreter with a deadline, feeds it JSON on
// stdin and decodes one JSON document from stdout. A crash, hang or
// malformed answer in the child is reported as an error and never
// affects the calling process.
package python
