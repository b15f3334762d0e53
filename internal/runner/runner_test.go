package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	name string
	args []string
}

// fakeExecutor answers by subcommand and records every call.
type fakeExecutor struct {
	mu      sync.Mutex
	calls   []call
	files   map[string]string
	answers map[string]Output
	block   bool
	failRun error
}

func (f *fakeExecutor) Run(ctx context.Context, name string, args ...string) (Output, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{name: name, args: args})
	f.mu.Unlock()

	sub := args[0]
	if sub == "image" {
		sub = "inspect"
	}
	if sub == "run" {
		if f.failRun != nil {
			return Output{}, f.failRun
		}
		f.captureWorkDir(args)
		if f.block {
			<-ctx.Done()
			return Output{ExitCode: -1}, ctx.Err()
		}
	}
	return f.answers[sub], nil
}

func (f *fakeExecutor) captureWorkDir(args []string) {
	for i, a := range args {
		if a != "-v" {
			continue
		}
		dir := strings.TrimSuffix(args[i+1], ":/work")
		entries, _ := os.ReadDir(dir)
		f.mu.Lock()
		f.files = map[string]string{}
		for _, e := range entries {
			data, _ := os.ReadFile(filepath.Join(dir, e.Name()))
			f.files[e.Name()] = string(data)
		}
		f.mu.Unlock()
	}
}

func (f *fakeExecutor) subcommands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var subs []string
	for _, c := range f.calls {
		subs = append(subs, strings.Join(c.args[:2], " "))
	}
	return subs
}

func TestRunPassing(t *testing.T) {
	fake := &fakeExecutor{answers: map[string]Output{
		"run": {Combined: []byte("3 passed\n\n"), ExitCode: 0},
	}}
	r := New("podman", fake, nil)

	res, err := r.Run(context.Background(), Request{
		Image:        "python:3.12-slim",
		TestCommand:  "pytest -q",
		SolutionFile: "solution.py",
		TestFile:     "test_solution.py",
		Code:         "def f(): return 1\n",
		TestCode:     "def test_f(): assert f() == 1\n",
	})
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, "3 passed", res.Output)

	assert.Equal(t, "def f(): return 1\n", fake.files["solution.py"])
	assert.Equal(t, "def test_f(): assert f() == 1\n", fake.files["test_solution.py"])

	require.Len(t, fake.calls, 1)
	c := fake.calls[0]
	assert.Equal(t, "podman", c.name)
	assert.Equal(t, []string{"run", "--rm"}, c.args[:2])
	assert.Contains(t, c.args, "--network=none")
	assert.Contains(t, c.args, "--memory=256m")
	assert.Contains(t, c.args, "--cpus=1")
	assert.Equal(t, []string{"python:3.12-slim", "sh", "-c", "pytest -q"}, c.args[len(c.args)-4:])
}

func TestRunFailing(t *testing.T) {
	fake := &fakeExecutor{answers: map[string]Output{
		"run": {Combined: []byte("1 failed"), ExitCode: 1},
	}}
	res, err := New("docker", fake, nil).Run(context.Background(), Request{Image: "img", TestCommand: "true"})
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Equal(t, "1 failed", res.Output)

	assert.Contains(t, fake.files, defaultSolutionFile)
	assert.Contains(t, fake.files, defaultTestFile)
}

func TestRunTimeout(t *testing.T) {
	fake := &fakeExecutor{block: true}
	r := New("docker", fake, nil)

	start := time.Now()
	res, err := r.Run(context.Background(), Request{Image: "img", TestCommand: "sleep 100", Timeout: 1 * time.Second})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
	assert.False(t, res.Passed)
	assert.Equal(t, "Timeout: tests did not complete within 1 seconds.", res.Output)

	assert.Equal(t, "rm -f", fake.subcommands()[1], "the abandoned container is removed")
}

func TestRunCancelled(t *testing.T) {
	fake := &fakeExecutor{block: true}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := New("docker", fake, nil).Run(ctx, Request{Image: "img", TestCommand: "x", Timeout: 10 * time.Second})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunEngineMissing(t *testing.T) {
	fake := &fakeExecutor{failRun: errors.New("executable file not found")}
	_, err := New("docker", fake, nil).Run(context.Background(), Request{Image: "img"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run docker")
}

func TestEnsureImagePresent(t *testing.T) {
	fake := &fakeExecutor{answers: map[string]Output{"inspect": {ExitCode: 0}}}
	require.NoError(t, New("docker", fake, nil).EnsureImage(context.Background(), "img"))
	assert.Equal(t, []string{"image inspect"}, fake.subcommands())
}

func TestEnsureImagePulls(t *testing.T) {
	fake := &fakeExecutor{answers: map[string]Output{
		"inspect": {ExitCode: 1},
		"pull":    {ExitCode: 0},
	}}
	require.NoError(t, New("docker", fake, nil).EnsureImage(context.Background(), "img"))
	assert.Equal(t, []string{"image inspect", "pull img"}, fake.subcommands())
}

func TestEnsureImagePullFails(t *testing.T) {
	fake := &fakeExecutor{answers: map[string]Output{
		"inspect": {ExitCode: 1},
		"pull":    {ExitCode: 1, Combined: []byte("manifest unknown\n")},
	}}
	err := New("docker", fake, nil).EnsureImage(context.Background(), "img")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest unknown")
}

func TestExecExecutor(t *testing.T) {
	out, err := ExecExecutor{}.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, out.ExitCode)
	assert.Contains(t, string(out.Combined), "out")
	assert.Contains(t, string(out.Combined), "err")

	_, err = ExecExecutor{}.Run(context.Background(), "definitely-not-installed-drb")
	assert.Error(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = ExecExecutor{}.Run(ctx, "sleep", "5")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
