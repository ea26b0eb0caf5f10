package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the spreadsheet report, grouped by project",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "Directory to write the report into")
}

func runExport(cmd *cobra.Command, args []string) error {
	panel, store, err := openPanel()
	if err != nil {
		return err
	}
	defer store.Close()

	path, err := panel.ExportFile(exportDir)
	if err != nil {
		return err
	}
	fmt.Printf("report written to %s\n", path)
	return nil
}
