package deploy

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/torusgame/sgbuild/pkg/profile"
)

// Paths contains every location involved in one build-and-deploy run
type Paths struct {
	ScriptDir   string
	ProjectRoot string
	Subproject  string
	// TargetDir is the resolved build output override, empty if the build uses its default location
	TargetDir   string
	BuildOutput string
	Deployment  string
}

// ScriptDir returns the directory containing the running executable with all symlinks resolved
func ScriptDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", eris.Wrap(err, "Failed to determine executable path")
	}

	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to resolve %s", exe)
	}

	return filepath.Dir(exe), nil
}

// ResolvePaths derives all paths from the tool's directory. The project root is its parent.
func ResolvePaths(scriptDir string, p *profile.Profile) Paths {
	scriptDir = filepath.Clean(scriptDir)
	paths := PathsForRoot(filepath.Dir(scriptDir), p)
	paths.ScriptDir = scriptDir
	return paths
}

// PathsForRoot derives all paths from an explicit project root
func PathsForRoot(root string, p *profile.Profile) Paths {
	root = filepath.Clean(root)
	lib := p.LibraryFilename()

	paths := Paths{
		ProjectRoot: root,
		Subproject:  filepath.Join(root, filepath.FromSlash(p.Subproject)),
		Deployment:  filepath.Join(root, filepath.FromSlash(p.Consumer), filepath.FromSlash(p.Destination), lib),
	}

	if p.TargetDir != "" {
		paths.TargetDir = filepath.FromSlash(p.TargetDir)
		if !filepath.IsAbs(paths.TargetDir) {
			paths.TargetDir = filepath.Join(root, paths.TargetDir)
		}

		paths.BuildOutput = filepath.Join(paths.TargetDir, lib)
	} else {
		paths.BuildOutput = filepath.Join(root, "target", "debug", lib)
	}

	return paths
}

// BuildArgs returns the build command for p, including the target directory override if there is one
func BuildArgs(p *profile.Profile, paths Paths) []string {
	args := append([]string{}, p.Build...)
	if paths.TargetDir != "" {
		args = append(args, "--target-dir", paths.TargetDir)
	}

	return args
}
