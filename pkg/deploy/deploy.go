package deploy

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"

	"github.com/torusgame/sgbuild/pkg/profile"
)

var (
	// ErrBuildFailed is returned when the build command exits with an error
	ErrBuildFailed = eris.New("build failed")
	// ErrArtifactMissing is returned when the build didn't produce the expected library
	ErrArtifactMissing = eris.New("build artifact missing")
	// ErrDestinationMissing is returned when the consumer's plugin directory doesn't exist
	ErrDestinationMissing = eris.New("destination directory missing")
)

// BuildError reports a failed build command. It matches ErrBuildFailed and unwraps to the runner's error.
type BuildError struct {
	Plugin string
	Err    error
}

func (e *BuildError) Error() string {
	return e.Plugin + ": " + ErrBuildFailed.Error() + ": " + e.Err.Error()
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func (e *BuildError) Is(target error) bool {
	return target == ErrBuildFailed
}

// Deployer builds plugins and moves the resulting library into place
type Deployer struct {
	Runner Runner
	Fs     afero.Fs
	// Chdir changes the process working directory. The change is not undone after Deploy returns.
	Chdir  func(dir string) error
	// Step is called with a short description before the build and the move
	Step   func(msg string)
	DryRun bool
}

// NewDeployer returns a Deployer that changes the real working directory
func NewDeployer(runner Runner, fs afero.Fs) *Deployer {
	return &Deployer{
		Runner: runner,
		Fs:     fs,
		Chdir:  os.Chdir,
		Step:   func(string) {},
	}
}

// Deploy enters the build subproject, runs the build and moves the produced library to its deployment path.
// Nothing is moved if the build fails or doesn't produce the library. Build-only profiles stop after the build.
func (d *Deployer) Deploy(ctx context.Context, p *profile.Profile, paths Paths) error {
	if err := p.Validate(); err != nil {
		return err
	}

	logger := log(ctx).With().Str("task", p.Name).Logger()

	logger.Info().Str("path", paths.Subproject).Msgf("Entering %s", paths.Subproject)
	if !d.DryRun {
		err := d.Chdir(paths.Subproject)
		if err != nil {
			return eris.Wrapf(err, "Failed to enter build subproject %s", paths.Subproject)
		}
	}

	args := BuildArgs(p, paths)
	d.step("Building " + p.Plugin)
	logger.Info().Bool("command", true).Msg(FormatCommand(args))
	if !d.DryRun {
		err := d.Runner.Run(ctx, paths.Subproject, args...)
		if err != nil {
			return &BuildError{Plugin: p.Name, Err: err}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if p.BuildOnly {
		output := paths.TargetDir
		if output == "" {
			output = filepath.Dir(paths.BuildOutput)
		}

		logger.Info().Str("path", output).Msgf("Build output left in %s", output)
		return nil
	}

	if !d.DryRun {
		err := d.checkPaths(paths)
		if err != nil {
			return err
		}
	}

	mvArgs := []string{"mv", paths.BuildOutput, paths.Deployment}
	d.step("Moving " + filepath.Base(paths.BuildOutput) + " into " + p.Consumer)
	logger.Info().Bool("command", true).Msg(FormatCommand(mvArgs))
	if !d.DryRun {
		err := d.Runner.Run(ctx, paths.Subproject, mvArgs...)
		if err != nil {
			return eris.Wrapf(err, "Failed to deploy %s", p.Name)
		}
	}

	logger.Info().Str("path", paths.Deployment).Msgf("Deployed to %s", paths.Deployment)
	return nil
}

func (d *Deployer) step(msg string) {
	if d.Step != nil {
		d.Step(msg)
	}
}

func (d *Deployer) checkPaths(paths Paths) error {
	info, err := d.Fs.Stat(paths.BuildOutput)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return eris.Wrapf(ErrArtifactMissing, "%s does not exist", paths.BuildOutput)
		}
		return eris.Wrapf(err, "Failed to check %s", paths.BuildOutput)
	}

	if info.IsDir() {
		return eris.Wrapf(ErrArtifactMissing, "%s is a directory", paths.BuildOutput)
	}

	destDir := filepath.Dir(paths.Deployment)
	info, err = d.Fs.Stat(destDir)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return eris.Wrapf(ErrDestinationMissing, "%s does not exist", destDir)
		}
		return eris.Wrapf(err, "Failed to check %s", destDir)
	}

	if !info.IsDir() {
		return eris.Wrapf(ErrDestinationMissing, "%s is not a directory", destDir)
	}

	return nil
}
