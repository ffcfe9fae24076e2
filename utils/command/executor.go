// Package command runs external processes behind an interface so commands
// that spawn subprocesses can be tested without executing anything.
package command

import (
	"context"
	"os"
	"os/exec"
)

// Executor runs a program interactively, attached to the caller's terminal.
type Executor interface {
	RunInteractive(ctx context.Context, env []string, name string, args ...string) error
}

type RealExecutor struct{}

func NewRealExecutor() *RealExecutor {
	return &RealExecutor{}
}

// RunInteractive executes name with args, appending env (KEY=VALUE pairs) to
// the inherited environment. Stdin, stdout, and stderr pass through.
func (e *RealExecutor) RunInteractive(ctx context.Context, env []string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
