package cmd

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/torusgame/sgbuild/pkg/config"
	"github.com/torusgame/sgbuild/pkg/console"
	"github.com/torusgame/sgbuild/pkg/deploy"
)

var (
	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sgbuild",
	Short: "Builds native plugins and deploys them into the game projects",
	Long: `This command builds the native plugins (station generator, Utor, ...) with cargo and
moves the resulting shared libraries into the asset directories of the projects that load them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		err := godotenv.Load()
		if err != nil && !eris.Is(err, os.ErrNotExist) {
			return eris.Wrap(err, "Failed to load .env")
		}

		loaded, loader := config.Loader()
		cfg = loaded
		err = loader.Load()
		if err != nil {
			return eris.Wrap(err, "Failed to load config")
		}

		flags := cmd.Flags()
		if flags.Changed("log-level") {
			cfg.Log.Level, err = flags.GetString("log-level")
			if err != nil {
				return err
			}
		}

		if flags.Changed("log-json") {
			cfg.Log.JSON, err = flags.GetBool("log-json")
			if err != nil {
				return err
			}
		}

		err = cfg.Validate()
		if err != nil {
			return err
		}

		logger = newLogger(cfg)
		cmd.SetContext(deploy.WithLogger(cmd.Context(), &logger))
		return nil
	},
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.Log.JSON {
		return zerolog.New(os.Stderr).Level(cfg.LogLevel()).With().Timestamp().Logger()
	}

	return zerolog.New(console.NewWriter(os.Stderr)).Level(cfg.LogLevel())
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "print JSON log lines instead of colored messages")
}

func Execute() {
	cobra.CheckErr(rootCmd.ExecuteContext(context.Background()))
}
