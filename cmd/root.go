package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hmf-industrial/taller-kiosk/internal/config"
	"github.com/hmf-industrial/taller-kiosk/internal/repo"
	"github.com/hmf-industrial/taller-kiosk/internal/storage"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "taller",
	Short: "Workshop time-tracking kiosk",
	Long: `taller is the single-binary backend of the workshop kiosk.
Workers log hours against assembly projects from a shared screen; the
administration panel manages rosters and exports the hour report.
All data is stored in ~/.taller/.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to an alternative config file")

	rootCmd.AddCommand(kioskCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(adminCmd)
}

func loadConfig() (config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

// openRepository builds the configured storage backend and the repository on
// top of it. The caller owns the returned store and must Close it.
func openRepository(cfg config.Config) (*repo.Repository, storage.Store, error) {
	var (
		store storage.Store
		err   error
	)
	switch cfg.Storage {
	case "sqlite":
		store, err = storage.OpenSQLite(filepath.Join(cfg.DataDir, "taller.db"))
	case "json":
		store, err = storage.NewFileStore(cfg.DataDir)
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q (expected \"json\" or \"sqlite\")", cfg.Storage)
	}
	if err != nil {
		return nil, nil, err
	}

	r, err := repo.New(store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return r, store, nil
}
