package cmd

import (
	"path/filepath"
	"runtime"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/torusgame/sgbuild/pkg/deploy"
)

var mvCmd = &cobra.Command{
	Use:   "mv source... dest",
	Short: "Cross-platform implementation of the POSIX mv command",
	Long: `Moves files the same way the deploy command does. If dest is an existing directory,
the files keep their names inside it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) < 2 {
			return eris.New("Not enough parameters")
		}

		dest := filepath.Clean(args[len(args)-1])
		items := []string{}
		if runtime.GOOS == "windows" {
			// cmd.exe doesn't expand globs for us
			for _, arg := range args[:len(args)-1] {
				matches, err := filepath.Glob(arg)
				if err != nil {
					return eris.Wrapf(err, "Failed to resolve parameter %s", arg)
				}

				if matches == nil {
					return eris.Errorf("Pattern %s produced no matches!", arg)
				}

				items = append(items, matches...)
			}
		} else {
			items = args[:len(args)-1]
		}

		return deploy.MoveItems(afero.NewOsFs(), items, dest)
	},
}

func init() {
	rootCmd.AddCommand(mvCmd)
}
