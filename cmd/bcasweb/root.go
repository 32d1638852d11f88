package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AguayoD/bcasweb"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfgFile string
	cfg     bcasweb.SiteConfig
	logger  zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bcasweb",
	Short: "School website with an admin dashboard",
	Long: `bcasweb serves a school's home and about pages and the dashboard used to
edit them. Configuration comes from the environment:

  SITE_NAME, SITE_URL, SITE_DESCRIPTION, ADDR,
  STORAGE_DRIVER (sqlite|postgres|memory), DATABASE_PATH, DATABASE_URL,
  ADMIN_PASSWORD, SESSION_SECRET, SESSION_MAX_AGE, COOKIE_SECURE,
  PAGE_CACHE_TTL, LOG_LEVEL

or from a .env, .yaml or .toml file passed with --config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the bcasweb version",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bcasweb %s\n", version)
	},
}

// Execute runs the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file read before the environment")
	rootCmd.AddCommand(serveCmd, exportCmd, importCmd, versionCmd)
}

func initializeConfig() error {
	var err error
	if cfgFile != "" {
		err = cleanenv.ReadConfig(cfgFile, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	logger = bcasweb.NewLogger(cfg.LogLevel)
	return nil
}

// openStore opens the configured backend and loads its content.
func openStore(ctx context.Context) (*bcasweb.Store, error) {
	backend, err := bcasweb.OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s, err := bcasweb.NewStore(backend, bcasweb.WithLogger(logger))
	if err != nil {
		backend.Close()
		return nil, err
	}
	return s, nil
}
