// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

//go:build unix

package sweep

import (
	"os"
	"os/exec"
	"syscall"
	"time"
)

// setProcessGroup places the child in its own process group so that a
// timeout can terminate the whole tree it spawns, not just the immediate
// child.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// terminateGroup sends SIGTERM to the child's process group, waits up to
// grace for the process to exit, then sends SIGKILL and waits for the wait
// goroutine to drain. It returns the error from Wait.
func terminateGroup(cmd *exec.Cmd, grace time.Duration, done <-chan error) error {
	pgid := cmd.Process.Pid

	_ = syscall.Kill(-pgid, syscall.SIGTERM)

	select {
	case err := <-done:
		return err
	case <-time.After(grace):
	}

	_ = syscall.Kill(-pgid, syscall.SIGKILL)

	return <-done
}

// memoutSignal reports whether the process died on SIGABRT, which the
// external model counters raise on memory exhaustion.
func memoutSignal(state *os.ProcessState) bool {
	ws, ok := state.Sys().(syscall.WaitStatus)

	return ok && ws.Signaled() && ws.Signal() == syscall.SIGABRT
}
