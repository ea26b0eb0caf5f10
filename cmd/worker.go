package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Manage the worker roster",
}

var workerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, store, err := openPanel()
		if err != nil {
			return err
		}
		defer store.Close()

		for _, w := range panel.Workers() {
			fmt.Printf("%-22s %s\n", w.ID, w.Name)
		}
		return nil
	},
}

var workerAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a worker",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, store, err := openPanel()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := panel.AddWorker(args[0]); err != nil {
			return err
		}
		fmt.Println("worker added")
		return nil
	},
}

var workerRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a worker (history keeps the old name)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, store, err := openPanel()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := panel.RenameWorker(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("worker renamed")
		return nil
	},
}

var workerDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a worker (history keeps their logs)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, store, err := openPanel()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := panel.DeleteWorker(args[0]); err != nil {
			return err
		}
		fmt.Println("worker removed")
		return nil
	},
}

func init() {
	workerCmd.AddCommand(workerListCmd)
	workerCmd.AddCommand(workerAddCmd)
	workerCmd.AddCommand(workerRenameCmd)
	workerCmd.AddCommand(workerDeleteCmd)
}
