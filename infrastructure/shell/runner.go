// Package shell provides the single production implementation of
// domain.CommandRunner, backed by os/exec.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	logger "github.com/sirupsen/logrus"

	"github.com/tsbench/corpusctl/domain"
)

// Runner executes external commands with separate stdout/stderr capture.
type Runner struct{}

// NewRunner creates the exec-backed command runner.
func NewRunner() *Runner {
	return &Runner{}
}

var _ domain.CommandRunner = (*Runner)(nil)

// Run executes name with args in dir and returns the captured output.
// On a non-zero exit the result still carries whatever the process wrote,
// so callers can classify the failure from its diagnostics.
func (r *Runner) Run(
	ctx context.Context,
	dir, name string,
	args ...string,
) (domain.CommandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debugf("Running %s %v (dir=%q)", name, args, dir)

	err := cmd.Run()
	result := domain.CommandResult{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}
	if err != nil {
		return result, fmt.Errorf("%s %v: %w", name, args, err)
	}
	return result, nil
}
