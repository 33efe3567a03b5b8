package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	charmLog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/stelvio-labs/worklens/internal/adapters/storage/sqlite"
	"github.com/stelvio-labs/worklens/internal/app"
	"github.com/stelvio-labs/worklens/internal/config"
	"github.com/stelvio-labs/worklens/internal/platform"
)

var (
	flagConfigPath string
	flagDBPath     string
	flagDevMode    bool
)

var rootCmd = &cobra.Command{
	Use:   "worklens",
	Short: "Classify and roll up engineering activity",
	Long: `Worklens ingests activity exports from upstream feeds (GitHub, Jira,
Confluence), classifies each activity into initiatives and launch items
with user-authored rules, resolves upstream accounts to people, infers
missing ticket priorities, and rolls everything up into report payloads.`,
	SilenceUsage: true,
}

func init() {
	defaultDev := version == "dev"
	if envDev, ok := parseBoolEnv("WORKLENS_DEV_MODE"); ok {
		defaultDev = envDev
	}
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to config TOML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "path to sqlite database")
	rootCmd.PersistentFlags().BoolVar(&flagDevMode, "dev", defaultDev, "use dev mode paths (worklens-dev)")

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(versionCmd)
}

// runtime bundles everything a command needs after config resolution.
type runtime struct {
	cfg   config.Config
	paths platform.Paths
	repo  *sqlite.Repository
}

func (rt *runtime) close() {
	if rt.repo != nil {
		_ = rt.repo.Close()
	}
}

func (rt *runtime) service() *app.Service {
	return app.NewService(app.Sources{
		Activities: rt.repo,
		Buckets:    rt.repo,
		Identities: rt.repo,
		Tickets:    rt.repo,
	}, nil)
}

// openRuntime resolves paths and config, sets up logging, and opens the
// database. Callers must close the returned runtime.
func openRuntime() (*runtime, error) {
	paths, err := platform.DefaultPaths(platform.Options{AppName: "worklens", DevMode: flagDevMode})
	if err != nil {
		return nil, err
	}

	configPath := strings.TrimSpace(flagConfigPath)
	if configPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("WORKLENS_CONFIG")); envPath != "" {
			configPath = envPath
		} else {
			configPath = paths.ConfigPath
		}
	}

	cfg, err := config.Load(configPath, config.Default(paths.DBPath))
	if err != nil {
		return nil, err
	}

	dbPath := strings.TrimSpace(flagDBPath)
	if dbPath == "" {
		if envPath := strings.TrimSpace(os.Getenv("WORKLENS_DB")); envPath != "" {
			dbPath = envPath
		} else {
			dbPath = cfg.Database.Path
		}
	}

	configureLogging(cfg.Log)

	repo, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}
	return &runtime{cfg: cfg, paths: paths, repo: repo}, nil
}

func configureLogging(cfg config.LogConfig) {
	charmLog.SetOutput(os.Stderr)
	if level, err := charmLog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil {
		charmLog.SetLevel(level)
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "json":
		charmLog.SetFormatter(charmLog.JSONFormatter)
	case "logfmt":
		charmLog.SetFormatter(charmLog.LogfmtFormatter)
	default:
		charmLog.SetFormatter(charmLog.TextFormatter)
	}
}

func parseBoolEnv(key string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
