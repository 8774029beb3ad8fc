package cmd

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tubesort/internal/app"
	"tubesort/internal/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "tubesort",
	Short: "Sort YouTube channels' recent videos into topics",
	Long: `tubesort fetches the most recent videos of YouTube channels, asks a language
model for a category and tags per video, and groups the videos by category.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		configureLogging(cfg.Log.Level)

		appInstance, err := app.NewApp(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		ctx := context.WithValue(cmd.Context(), appKey, appInstance)
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if appInstance, err := GetAppFromContext(cmd.Context()); err == nil {
			appInstance.Close()
		}
	},
}

func configureLogging(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	log.SetLevel(lvl)
	log.SetOutput(os.Stderr)
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by the root command.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	if ctx == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(costCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database connectivity and API configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		health := appInstance.Health(cmd.Context())
		printHealth(cmd.OutOrStdout(), health)
		if err := health["database"]; err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		return nil
	},
}
