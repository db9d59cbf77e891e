// Package ffmpeg builds structured Media Tool argument lists and supervises
// the resulting child processes. No call ever composes a shell string; every
// invocation is an explicit []string passed straight to the process spawner.
package ffmpeg

import (
	"bytes"
	"context"
	"os/exec"

	"github.com/contentplatform/mediaworker/internal/domain"
)

// Executor is the Transcode Executor (C4): it spawns one Media Tool
// invocation, waits for it, and reports a tri-valued result. It never reads
// the child's stdout and never retries; the caller decides what to do with
// a failure.
type Executor struct {
	binary string
}

func NewExecutor(binary string) *Executor {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Executor{binary: binary}
}

// baseArgs are prepended to every invocation: non-interactive, quiet, and
// always-overwrite so a crash-retry never blocks on a stdin prompt.
func baseArgs() []string {
	return []string{"-y", "-nostdin", "-hide_banner", "-loglevel", "warning"}
}

// Run spawns the Media Tool with args appended after the standard prefix
// and waits for it to exit.
func (e *Executor) Run(ctx context.Context, args []string) domain.ExecResult {
	full := append(baseArgs(), args...)

	cmd := exec.CommandContext(ctx, e.binary, full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return domain.ExecResult{
				Outcome:  domain.ExecNonZeroExit,
				ExitCode: exitErr.ExitCode(),
				Err:      err,
				Stderr:   stderr.String(),
			}
		}
		return domain.ExecResult{Outcome: domain.ExecSpawnError, Err: err, Stderr: stderr.String()}
	}

	return domain.ExecResult{Outcome: domain.ExecOK, Stderr: stderr.String()}
}
