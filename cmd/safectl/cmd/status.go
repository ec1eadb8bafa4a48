package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current lock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			printErr(err)
			return err
		}
		state, err := client.Status(cmd.Context())
		if err != nil {
			printErr(err)
			return err
		}
		fmt.Println(state)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
