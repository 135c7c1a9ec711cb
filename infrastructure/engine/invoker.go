package engine

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	"github.com/darcovia/music-forge/domain/ports"
	pkgerrors "github.com/darcovia/music-forge/pkg/errors"
	"github.com/darcovia/music-forge/pkg/logger"
	"go.uber.org/zap"
)

// Invoker implements ports.EngineInvoker by spawning the engine binary and
// capturing both output streams. No timeout is applied: long transcodes are
// expected, and cancellation is the caller's job via ctx.
type Invoker struct {
	log *logger.Logger
}

// NewInvoker creates an Invoker.
func NewInvoker(log *logger.Logger) *Invoker {
	if log == nil {
		log = logger.Nop()
	}
	return &Invoker{log: log}
}

// Run executes args[0] with the remaining arguments. A non-zero exit is
// returned in the result, never as an error; an error means the process
// could not be run at all (missing binary, cancelled context).
func (i *Invoker) Run(ctx context.Context, args []string) (ports.InvokeResult, error) {
	if len(args) == 0 {
		return ports.InvokeResult{}, pkgerrors.NewValidationError("args", args, "argument list must not be empty")
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	i.log.Debug("running engine", zap.String("binary", args[0]))

	err := cmd.Run()
	res := ports.InvokeResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// Normal, reportable outcome: the engine ran and exited non-zero.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, pkgerrors.NewEngineError("engine could not be started", args, -1, res.Stderr, err)
	}

	return res, nil
}
