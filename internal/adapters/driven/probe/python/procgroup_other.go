//go:build !unix

package python

import "os/exec"

// killGroupOnCancel keeps the default cancel, which kills only the
// interpreter. WaitDelay still bounds the wait for its children.
func killGroupOnCancel(*exec.Cmd) {}
