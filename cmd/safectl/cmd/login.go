package cmd

import (
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the safe controller",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := NewClient(addr, "")
		token, err := client.Login(cmd.Context(), loginUsername, loginPassword)
		if err != nil {
			printErr(err)
			return err
		}
		if err := saveToken(token); err != nil {
			printErr(err)
			return err
		}
		printOK("logged in to %s", addr)
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Web interface username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Web interface password")
	_ = loginCmd.MarkFlagRequired("username")
	_ = loginCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(loginCmd)
}
