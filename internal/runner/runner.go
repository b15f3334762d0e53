// Package runner executes learner code against a pack's tests inside an
// ephemeral container.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// DefaultTimeout bounds a test run when the request sets none.
	DefaultTimeout = 30 * time.Second

	defaultSolutionFile = "solution.py"
	defaultTestFile     = "test_solution.py"

	inspectTimeout = 10 * time.Second
	pullTimeout    = 5 * time.Minute
	cleanupTimeout = 10 * time.Second
)

// ErrNoEngine is returned when neither podman nor docker is installed.
var ErrNoEngine = errors.New("no container engine found; install docker or podman")

// Request describes one test run.
type Request struct {
	Image        string
	TestCommand  string
	SolutionFile string
	TestFile     string
	Code         string
	TestCode     string
	Timeout      time.Duration
}

// Result is the outcome of a test run.
type Result struct {
	Passed bool
	Output string
}

// Runner runs tests with a container engine.
type Runner struct {
	engine string
	exec   Executor
	logger *zap.Logger
}

// New creates a runner for the given engine binary (docker or podman).
func New(engine string, executor Executor, logger *zap.Logger) *Runner {
	if executor == nil {
		executor = ExecExecutor{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{engine: engine, exec: executor, logger: logger}
}

// Engine returns the container engine binary.
func (r *Runner) Engine() string {
	return r.engine
}

// DetectEngine returns the first available engine, preferring podman.
func DetectEngine() (string, error) {
	for _, engine := range []string{"podman", "docker"} {
		if _, err := exec.LookPath(engine); err == nil {
			return engine, nil
		}
	}
	return "", ErrNoEngine
}

// Run writes the code and tests to a scratch directory and runs the test
// command in a throwaway container. Test failures and timeouts are reported
// in the Result; an error means the engine itself could not be run.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	workDir, err := os.MkdirTemp("", "drb-run-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	if err := writeWorkFiles(workDir, req); err != nil {
		return nil, err
	}

	name := "drb-" + uuid.NewString()
	args := containerArgs(name, workDir, req.Image, req.TestCommand)

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	r.logger.Debug("running tests", zap.String("container", name), zap.String("image", req.Image))
	out, err := r.exec.Run(runCtx, r.engine, args...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			r.removeContainer(name)
			return &Result{
				Passed: false,
				Output: fmt.Sprintf("Timeout: tests did not complete within %d seconds.", int(timeout.Seconds())),
			}, nil
		}
		if ctx.Err() != nil {
			r.removeContainer(name)
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to run %s: %w", r.engine, err)
	}

	return &Result{
		Passed: out.ExitCode == 0,
		Output: strings.TrimSpace(string(out.Combined)),
	}, nil
}

// EnsureImage pulls image unless it is already present locally.
func (r *Runner) EnsureImage(ctx context.Context, image string) error {
	inspectCtx, cancel := context.WithTimeout(ctx, inspectTimeout)
	out, err := r.exec.Run(inspectCtx, r.engine, "image", "inspect", image)
	cancel()
	if err == nil && out.ExitCode == 0 {
		return nil
	}

	r.logger.Info("pulling image", zap.String("image", image))
	pullCtx, cancel := context.WithTimeout(ctx, pullTimeout)
	defer cancel()
	out, err = r.exec.Run(pullCtx, r.engine, "pull", image)
	if err != nil {
		return fmt.Errorf("failed to pull %s: %w", image, err)
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("failed to pull %s: %s", image, strings.TrimSpace(string(out.Combined)))
	}
	return nil
}

// removeContainer stops a container the engine client was killed before
// it could clean up.
func (r *Runner) removeContainer(name string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	if _, err := r.exec.Run(ctx, r.engine, "rm", "-f", name); err != nil {
		r.logger.Warn("failed to remove container", zap.String("container", name), zap.Error(err))
	}
}

func containerArgs(name, workDir, image, testCommand string) []string {
	return []string{
		"run", "--rm", "--name", name, "--network=none",
		"-v", workDir + ":/work", "-w", "/work",
		"--memory=256m", "--cpus=1",
		image, "sh", "-c", testCommand,
	}
}

func writeWorkFiles(dir string, req Request) error {
	solution := req.SolutionFile
	if solution == "" {
		solution = defaultSolutionFile
	}
	test := req.TestFile
	if test == "" {
		test = defaultTestFile
	}

	if err := os.WriteFile(filepath.Join(dir, solution), []byte(req.Code), 0o644); err != nil {
		return fmt.Errorf("failed to write solution: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, test), []byte(req.TestCode), 0o644); err != nil {
		return fmt.Errorf("failed to write tests: %w", err)
	}
	return nil
}
