package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmf-industrial/taller-kiosk/internal/admin"
	"github.com/hmf-industrial/taller-kiosk/internal/storage"
)

var adminPassword string

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administration panel operations",
	Long: `Headless access to the administration panel: rosters, history and
the spreadsheet export. Every subcommand requires the panel passphrase
via --password.`,
}

func init() {
	adminCmd.PersistentFlags().StringVarP(&adminPassword, "password", "p", "", "Admin panel passphrase")

	adminCmd.AddCommand(workerCmd)
	adminCmd.AddCommand(projectCmd)
	adminCmd.AddCommand(logsCmd)
	adminCmd.AddCommand(exportCmd)
}

// openPanel opens the repository and returns an authorized panel. The caller
// must Close the returned store.
func openPanel() (*admin.Panel, storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	r, store, err := openRepository(cfg)
	if err != nil {
		return nil, nil, err
	}

	panel := admin.NewPanel(r, cfg.AdminPassword)
	authorized, err := panel.Authorize(adminPassword)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	if !authorized {
		store.Close()
		return nil, nil, fmt.Errorf("contraseña incorrecta")
	}
	return panel, store, nil
}
