// Package media wraps the external ffprobe and ffmpeg processes used to
// classify and repackage uploaded videos.
package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/princekumarofficial/tubely-service/internal/metrics"
)

// Geometry is the frame size of a video stream.
type Geometry struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type Prober interface {
	Probe(ctx context.Context, path string) (Geometry, error)
}

// Repackager rewrites a file for progressive playback and returns the path
// of the new file. The caller owns (and must remove) the returned file.
type Repackager interface {
	Repackage(ctx context.Context, path string) (string, error)
}

// ProcessError reports a tool that failed, with its diagnostic output.
type ProcessError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Tool)
	if e.ExitCode > 0 {
		msg = fmt.Sprintf("%s failed with exit code %d", e.Tool, e.ExitCode)
	} else if e.Err != nil {
		msg = fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// run executes name with args under timeout and returns stdout. A non-zero
// exit, start failure or timeout becomes a *ProcessError.
func run(ctx context.Context, tool, name string, timeout time.Duration, args ...string) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	metrics.MediaProcessDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.MediaProcessFailures.WithLabelValues(tool).Inc()

		perr := &ProcessError{Tool: tool, Stderr: strings.TrimSpace(stderr.String()), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			perr.ExitCode = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			perr.Err = ctxErr
			perr.ExitCode = 0
		}
		return nil, perr
	}

	return stdout.Bytes(), nil
}
