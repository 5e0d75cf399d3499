package forecast

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
)

// ProcessRunner runs the script with a local Python interpreter.
type ProcessRunner struct {
	Python string
}

func (p ProcessRunner) Run(ctx context.Context, job Job) error {
	python := p.Python
	if python == "" {
		python = "python3"
	}
	cmd := exec.CommandContext(ctx, python, "-u", job.Script, job.Input, job.Output, strconv.Itoa(job.Periods), job.Freq)
	cmd.Dir = job.Dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w", python, ctx.Err())
		}
		return fmt.Errorf("%s: %w: %s", python, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}
