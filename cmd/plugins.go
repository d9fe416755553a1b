package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Lists the plugins that can be deployed",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, _, err := projectLocation(cmd)
		if err != nil {
			return err
		}

		catalog, err := loadCatalog(afero.NewOsFs(), root)
		if err != nil {
			return err
		}

		names := catalog.Names()
		maxNameLen := 0
		for _, name := range names {
			if len(name) > maxNameLen {
				maxNameLen = len(name)
			}
		}

		fmt.Println("Available plugins:")
		lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
		for _, name := range names {
			p := catalog[name]
			fmt.Printf(lineFmt, name+":", p.Desc)
			if p.BuildOnly {
				output := p.TargetDir
				if output == "" {
					output = "target"
				}
				fmt.Printf(lineFmt, "", fmt.Sprintf("%s/ -> %s/ (build only)", p.Subproject, output))
			} else {
				fmt.Printf(lineFmt, "", fmt.Sprintf("%s/ -> %s/%s/%s", p.Subproject, p.Consumer, p.Destination, p.LibraryFilename()))
			}
		}

		return nil
	},
}

func init() {
	pluginsCmd.Flags().String("root", "", "project root; defaults to the parent of the directory containing sgbuild")
	rootCmd.AddCommand(pluginsCmd)
}
