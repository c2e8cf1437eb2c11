package python

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/krlabs/kra/internal/core/domain"
	"github.com/krlabs/kra/internal/logger"
)

//go:embed scripts/*.py
var scripts embed.FS

// maxStderr bounds the stderr excerpt carried in errors.
const maxStderr = 512

// waitDelay bounds how long Run waits for inherited pipes to close after
// the interpreter has been killed.
const waitDelay = time.Second

// Config configures interpreter subprocesses.
type Config struct {
	// Interpreter is the executable to run, e.g. "python3".
	Interpreter string

	// Root is the workspace root. It is the working directory and is
	// placed on sys.path together with <Root>/src.
	Root string

	// Timeout bounds one subprocess run.
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	defaults := domain.DefaultAppSettings().Probe
	if c.Interpreter == "" {
		c.Interpreter = defaults.Interpreter
	}
	if c.Timeout <= 0 {
		c.Timeout = defaults.Timeout
	}
	if c.Root == "" {
		c.Root = "."
	}
	if abs, err := filepath.Abs(c.Root); err == nil {
		c.Root = abs
	}
	return c
}

// run executes an embedded script with input as JSON on stdin and
// decodes stdout into out. Every failure wraps domain.ErrProbe.
func (c Config) run(ctx context.Context, script string, input, out any) error {
	src, err := scripts.ReadFile("scripts/" + script)
	if err != nil {
		return fmt.Errorf("%w: load %s: %v", domain.ErrProbe, script, err)
	}
	stdin, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("%w: encode input: %v", domain.ErrProbe, err)
	}

	runCtx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.Interpreter, "-c", string(src), c.Root)
	cmd.Dir = c.Root
	cmd.Stdin = bytes.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	killGroupOnCancel(cmd)

	logger.Debug("running %s %s in %s", c.Interpreter, script, c.Root)
	err = cmd.Run()

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: timed out after %s", domain.ErrProbe, c.Timeout)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s: %v%s", domain.ErrProbe, c.Interpreter, err, excerpt(stderr.String()))
	}
	if err := json.Unmarshal(bytes.TrimSpace(stdout.Bytes()), out); err != nil {
		return fmt.Errorf("%w: unparseable output: %v%s", domain.ErrProbe, err, excerpt(stderr.String()))
	}
	return nil
}

func excerpt(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	if len(stderr) > maxStderr {
		stderr = stderr[len(stderr)-maxStderr:]
	}
	return ": " + stderr
}
