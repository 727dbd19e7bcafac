package tiles

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// Runner executes one external pipeline stage. The production implementation
// shells out; tests inject a recording fake to assert stage sequencing and
// argument construction without GDAL installed.
type Runner interface {
	Run(ctx context.Context, stage, name string, args ...string) error
}

// ExecRunner runs stages as external processes. Context cancellation kills
// the running process.
type ExecRunner struct {
	logger *slog.Logger
}

// NewExecRunner creates the os/exec-backed Runner.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

func (r *ExecRunner) Run(ctx context.Context, stage, name string, args ...string) error {
	r.logger.Debug("running pipeline stage", "stage", stage, "cmd", name, "args", args)

	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}
