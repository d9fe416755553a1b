package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/torusgame/sgbuild/pkg/console"
	"github.com/torusgame/sgbuild/pkg/deploy"
	"github.com/torusgame/sgbuild/pkg/profile"
)

// projectLocation returns the project root and, if the root was derived from the tool's location, the tool's directory
func projectLocation(cmd *cobra.Command) (string, string, error) {
	root, err := cmd.Flags().GetString("root")
	if err != nil {
		return "", "", err
	}

	if root == "" {
		root = cfg.Root
	}

	if root != "" {
		root, err = filepath.Abs(root)
		if err != nil {
			return "", "", eris.Wrapf(err, "Failed to resolve project root %s", root)
		}
		return root, "", nil
	}

	scriptDir, err := deploy.ScriptDir()
	if err != nil {
		return "", "", err
	}

	return filepath.Dir(scriptDir), scriptDir, nil
}

func loadCatalog(fs afero.Fs, root string) (profile.Catalog, error) {
	path := cfg.Profiles
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	return profile.Load(fs, path)
}

var deployCmd = &cobra.Command{
	Use:   "deploy [plugin...]",
	Short: "Builds the given plugins and moves their libraries into the consuming project",
	Long: `Builds each plugin with its build command inside its subproject and moves the produced
library into the consuming project. Without arguments, the configured default plugin is deployed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, err := cmd.Flags().GetBool("dry")
		if err != nil {
			return err
		}

		targetDir, err := cmd.Flags().GetString("target-dir")
		if err != nil {
			return err
		}

		if targetDir != "" {
			// relative to where the user called us, not the project root
			targetDir, err = filepath.Abs(targetDir)
			if err != nil {
				return eris.Wrapf(err, "Failed to resolve target directory %s", targetDir)
			}
		}

		ext, err := cmd.Flags().GetString("ext")
		if err != nil {
			return err
		}

		root, scriptDir, err := projectLocation(cmd)
		if err != nil {
			return err
		}

		fs := afero.NewOsFs()
		catalog, err := loadCatalog(fs, root)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			args = []string{cfg.Default}
		}

		deployer := deploy.NewDeployer(deploy.NewShellRunner(fs), fs)
		deployer.DryRun = dryRun
		deployer.Step = console.PrintSubtask

		for _, name := range args {
			p, err := catalog.Get(name)
			if err != nil {
				return err
			}

			plugin := *p
			if targetDir != "" {
				plugin.TargetDir = targetDir
			}
			if ext != "" {
				plugin.Extension = ext
			}

			var paths deploy.Paths
			if scriptDir != "" {
				paths = deploy.ResolvePaths(scriptDir, &plugin)
			} else {
				paths = deploy.PathsForRoot(root, &plugin)
			}

			console.PrintTask(fmt.Sprintf("Deploying %s", name))
			err = deployer.Deploy(cmd.Context(), &plugin, paths)
			if err != nil {
				console.PrintError(err.Error())
				return eris.Wrapf(err, "Failed to deploy %s", name)
			}
		}

		return nil
	},
}

func init() {
	deployCmd.Flags().BoolP("dry", "n", false, "dry run; only print the commands, don't execute anything")
	deployCmd.Flags().String("target-dir", "", "directory the build writes its output to (passed as --target-dir)")
	deployCmd.Flags().String("ext", "", "shared library extension, overrides the plugin's setting")
	deployCmd.Flags().String("root", "", "project root; defaults to the parent of the directory containing sgbuild")

	rootCmd.AddCommand(deployCmd)
}
