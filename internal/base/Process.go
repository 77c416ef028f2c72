package base

import (
	"context"
	"fmt"
	"os/exec"
)

var LogProcess = NewLogCategory("Process")

// ProcessOptions configures a spawned child process, grounded on the teacher's
// utils/Process.go ProcessOptions (trimmed to what the core's generic, opaque
// "DoBuild" node variant needs: arguments, working directory, captured output).
type ProcessOptions struct {
	WorkingDir    string
	Environment   []string
	CaptureOutput bool
}

type ProcessResult struct {
	ExitCode int
	Output   string
}

// RunProcess spawns executable with args under ctx, killing the child if ctx is
// canceled. This is what lets a raced local build be torn down when the remote
// copy wins (spec.md §4.4 "Race cancellation"; §5 "a spawned child process is
// killed on race-loss").
func RunProcess(ctx context.Context, executable string, args []string, opts ProcessOptions) (ProcessResult, error) {
	cmd := exec.CommandContext(ctx, executable, args...)
	if opts.WorkingDir != "" {
		cmd.Dir = opts.WorkingDir
	}
	if len(opts.Environment) > 0 {
		cmd.Env = opts.Environment
	}

	var result ProcessResult
	if opts.CaptureOutput {
		out, err := cmd.CombinedOutput()
		result.Output = string(out)
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if err != nil {
			return result, fmt.Errorf("process %q failed to start: %w", executable, err)
		}
		return result, nil
	}

	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("process %q failed to start: %w", executable, err)
	}
	return result, nil
}
