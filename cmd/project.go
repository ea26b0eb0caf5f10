package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage the project roster",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all projects, active and closed",
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, store, err := openPanel()
		if err != nil {
			return err
		}
		defer store.Close()

		for _, p := range panel.Projects() {
			state := "active"
			if !p.Active {
				state = "closed"
			}
			fmt.Printf("%-22s [%s] %s\n", p.ID, state, p.Name)
		}
		return nil
	},
}

var projectAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an active project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, store, err := openPanel()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := panel.AddProject(args[0]); err != nil {
			return err
		}
		fmt.Println("project added")
		return nil
	},
}

var projectRenameCmd = &cobra.Command{
	Use:   "rename <id> <name>",
	Short: "Rename a project (history keeps the old name)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, store, err := openPanel()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := panel.RenameProject(args[0], args[1]); err != nil {
			return err
		}
		fmt.Println("project renamed")
		return nil
	},
}

var projectToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Close or reopen a project without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, store, err := openPanel()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := panel.ToggleProject(args[0]); err != nil {
			return err
		}
		fmt.Println("project toggled")
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a project (history keeps its logs)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		panel, store, err := openPanel()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := panel.DeleteProject(args[0]); err != nil {
			return err
		}
		fmt.Println("project removed")
		return nil
	},
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectAddCmd)
	projectCmd.AddCommand(projectRenameCmd)
	projectCmd.AddCommand(projectToggleCmd)
	projectCmd.AddCommand(projectDeleteCmd)
}
