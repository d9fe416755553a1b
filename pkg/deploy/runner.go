package deploy

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Runner executes an external command and waits for it to finish
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) error
}

// ShellRunner runs commands through mvdan.cc/sh. mv is handled in-process by MoveFile so that it
// behaves the same on every platform.
type ShellRunner struct {
	Fs     afero.Fs
	Env    []string
	Stdout io.Writer
	Stderr io.Writer
}

// NewShellRunner returns a runner that inherits the process environment and standard streams
func NewShellRunner(fs afero.Fs) *ShellRunner {
	return &ShellRunner{
		Fs:     fs,
		Env:    os.Environ(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

var defaultExecHandler = interp.DefaultExecHandler(2 * time.Second)

func (r *ShellRunner) execHandler(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "mv" {
		hc := interp.HandlerCtx(ctx)
		return r.move(hc.Dir, args[1:])
	}

	return defaultExecHandler(ctx, args)
}

func (r *ShellRunner) move(dir string, args []string) error {
	if len(args) < 2 {
		return eris.New("mv: not enough parameters")
	}

	items := make([]string, len(args))
	for idx, item := range args {
		if !filepath.IsAbs(item) {
			item = filepath.Join(dir, item)
		}
		items[idx] = item
	}

	return MoveItems(r.Fs, items[:len(items)-1], items[len(items)-1])
}

var defaultOpenHandler = interp.DefaultOpenHandler()

func openHandler(ctx context.Context, path string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	if path == "/dev/null" {
		path = os.DevNull
	}

	return defaultOpenHandler(ctx, path, flag, perm)
}

func quoteArgs(args []string) (string, error) {
	words := make([]string, len(args))
	for idx, arg := range args {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			return "", eris.Wrapf(err, "failed to quote argument %q", arg)
		}
		words[idx] = quoted
	}

	return strings.Join(words, " "), nil
}

// FormatCommand renders args as a single shell command line
func FormatCommand(args []string) string {
	line, err := quoteArgs(args)
	if err != nil {
		return strings.Join(args, " ")
	}

	return line
}

// Run executes args in dir. A non-zero exit status is returned as an error.
func (r *ShellRunner) Run(ctx context.Context, dir string, args ...string) error {
	if len(args) == 0 {
		return eris.New("no command given")
	}

	line, err := quoteArgs(args)
	if err != nil {
		return err
	}

	script, err := syntax.NewParser().Parse(strings.NewReader(line), args[0])
	if err != nil {
		return eris.Wrapf(err, "failed to parse command %s", line)
	}

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(r.Env...)),
		interp.ExecHandler(r.execHandler),
		interp.OpenHandler(openHandler),
		interp.StdIO(nil, r.Stdout, r.Stderr),
		interp.Params("-e"),
	}
	if dir != "" {
		opts = append(opts, interp.Dir(dir))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return eris.Wrap(err, "Failed to initialize runner")
	}

	err = runner.Run(ctx, script)
	if err != nil {
		return eris.Wrapf(err, "%s failed", line)
	}

	return nil
}
