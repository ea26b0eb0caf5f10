package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logsResetYes bool

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Inspect or clear the time log history",
}

var logsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all time logs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, store, err := openPanel()
		if err != nil {
			return err
		}
		defer store.Close()

		logs := panel.Logs()
		if len(logs) == 0 {
			fmt.Println("no logs recorded")
			return nil
		}
		for _, l := range logs {
			fmt.Printf("%s  %-25s %-40s %.1f h\n",
				l.Timestamp.Local().Format("02/01/2006 15:04"), l.WorkerName, l.ProjectName, l.Hours)
		}
		return nil
	},
}

var logsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the entire log history",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !logsResetYes {
			return fmt.Errorf("this deletes all recorded hours; re-run with --yes to confirm")
		}
		panel, store, err := openPanel()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := panel.ResetLogs(); err != nil {
			return err
		}
		fmt.Println("history cleared")
		return nil
	},
}

func init() {
	logsResetCmd.Flags().BoolVar(&logsResetYes, "yes", false, "Confirm deleting the entire history")

	logsCmd.AddCommand(logsListCmd)
	logsCmd.AddCommand(logsResetCmd)
}
