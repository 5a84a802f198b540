// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build windows

package sweep

import (
	"os"
	"os/exec"
	"time"
)

// setProcessGroup is a no-op on Windows; descendant processes are not
// grouped and only the immediate child is terminated on timeout.
func setProcessGroup(_ *exec.Cmd) {}

// terminateGroup kills the child process and waits for the wait goroutine
// to drain. Windows has no graceful TERM equivalent, so the grace period
// only bounds how long we wait before reporting.
func terminateGroup(cmd *exec.Cmd, grace time.Duration, done <-chan error) error {
	_ = cmd.Process.Kill()

	select {
	case err := <-done:
		return err
	case <-time.After(grace):
		return <-done
	}
}

// memoutSignal always reports false on Windows.
func memoutSignal(_ *os.ProcessState) bool {
	return false
}
