package cmd

import (
	"github.com/spf13/cobra"
)

var (
	authUsername string
	authPassword string
)

var setAuthCmd = &cobra.Command{
	Use:   "set-auth",
	Short: "Change the web interface credentials",
	Long: `Change the web interface username and password. Every session
is revoked, including this one; log in again with the new credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			printErr(err)
			return err
		}

		message, err := client.Do(cmd.Context(), map[string]string{
			"setauth":  "Change",
			"username": authUsername,
			"password": authPassword,
		})
		if err != nil {
			printErr(err)
			return err
		}
		printOK("%s", message)
		return nil
	},
}

var (
	wifiSSID     string
	wifiPassword string
)

var setWiFiCmd = &cobra.Command{
	Use:   "set-wifi",
	Short: "Change the access point the safe connects to",
	Long: `Change the wifi SSID and password. The safe reboots a few
seconds after the change to join the new network.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			printErr(err)
			return err
		}

		message, err := client.SetWiFi(cmd.Context(), wifiSSID, wifiPassword)
		if err != nil {
			printErr(err)
			return err
		}
		printOK("%s", message)
		return nil
	},
}

func init() {
	setAuthCmd.Flags().StringVarP(&authUsername, "username", "u", "", "New web interface username")
	setAuthCmd.Flags().StringVarP(&authPassword, "password", "p", "", "New web interface password")
	_ = setAuthCmd.MarkFlagRequired("username")
	_ = setAuthCmd.MarkFlagRequired("password")

	setWiFiCmd.Flags().StringVar(&wifiSSID, "ssid", "", "Access point SSID")
	setWiFiCmd.Flags().StringVar(&wifiPassword, "password", "", "Access point password (empty for an open network)")
	_ = setWiFiCmd.MarkFlagRequired("ssid")

	rootCmd.AddCommand(setAuthCmd, setWiFiCmd)
}
