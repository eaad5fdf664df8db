// Package shell provides the subprocess runner adapter.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/isolate/internal/core/domain"
	"go.trai.ch/isolate/internal/core/ports"
	"go.trai.ch/zerr"
)

// stderrTailLines bounds the stderr lines attached to a failure.
const stderrTailLines = 20

// Runner implements ports.CommandRunner using os/exec.
type Runner struct {
	logger ports.Logger
}

// NewRunner creates a new Runner.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger: logger,
	}
}

// Run executes cmd. Output is logged line by line at debug level and copied
// to the telemetry vertex carried by ctx.
func (r *Runner) Run(ctx context.Context, cmd domain.Command) error {
	stdout := &logWriter{logger: r.logger}
	stderr := &logWriter{logger: r.logger, keep: stderrTailLines}

	var outW, errW io.Writer = stdout, stderr
	if v, ok := ports.VertexFromContext(ctx); ok {
		outW = io.MultiWriter(stdout, v.Stdout())
		errW = io.MultiWriter(stderr, v.Stderr())
	}

	err := r.exec(ctx, cmd, outW, errW)
	stdout.Flush()
	stderr.Flush()
	if err != nil {
		return zerr.With(err, "stderr", strings.Join(stderr.Tail(), "\n"))
	}
	return nil
}

// Output executes cmd and returns its trimmed standard output.
func (r *Runner) Output(ctx context.Context, cmd domain.Command) ([]byte, error) {
	var out bytes.Buffer
	stderr := &logWriter{logger: r.logger, keep: stderrTailLines}

	err := r.exec(ctx, cmd, &out, stderr)
	stderr.Flush()
	if err != nil {
		return nil, zerr.With(err, "stderr", strings.Join(stderr.Tail(), "\n"))
	}
	return bytes.TrimSpace(out.Bytes()), nil
}

func (r *Runner) exec(ctx context.Context, c domain.Command, stdout, stderr io.Writer) error {
	env := resolveEnvironment(os.Environ(), c.Env)

	executable := c.Name
	if !filepath.IsAbs(c.Name) {
		if lp, err := lookPath(c.Name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, c.Args...) //nolint:gosec // package manager invocation
	if len(cmd.Args) > 0 {
		cmd.Args[0] = c.Name
	}
	cmd.Dir = c.Dir
	cmd.Env = env
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	r.logger.Debug("running " + c.String())

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return zerr.With(zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()),
			"command", c.String()), "exit_code", exitCode)
	}
	return nil
}

// logWriter forwards complete lines to the logger and optionally keeps the
// last lines it saw.
type logWriter struct {
	logger ports.Logger
	keep   int

	mu   sync.Mutex
	buf  []byte
	tail []string
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		idx := bytes.IndexByte(w.buf, '\n')
		if idx < 0 {
			break
		}
		w.emit(string(w.buf[:idx]))
		w.buf = w.buf[idx+1:]
	}
	return len(p), nil
}

// Flush emits a trailing partial line.
func (w *logWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.buf) > 0 {
		w.emit(string(w.buf))
		w.buf = nil
	}
}

// Tail returns the kept lines, oldest first.
func (w *logWriter) Tail() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.tail)
}

func (w *logWriter) emit(line string) {
	line = strings.TrimRight(line, "\r")
	if line == "" {
		return
	}
	w.logger.Debug(line)
	if w.keep > 0 {
		w.tail = append(w.tail, line)
		if len(w.tail) > w.keep {
			w.tail = w.tail[len(w.tail)-w.keep:]
		}
	}
}

// resolveEnvironment applies overrides on top of the system environment.
// The result is sorted by key.
func resolveEnvironment(sysEnv, overrides []string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entries := range [][]string{sysEnv, overrides} {
		for _, entry := range entries {
			if k, v, ok := strings.Cut(entry, "="); ok {
				envMap[k] = v
			}
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// lookPath searches for an executable in the directories named by the PATH
// entry of env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
