package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

var (
	unlockPassword  string
	unlockPermanent bool
)

var unlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Unlock the safe with the unlock password",
	Long: `Unlock the safe. By default the unlock covers a single door
opening; with --permanent the safe stays unlocked until an explicit
"safectl lock".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			printErr(err)
			return err
		}

		fields := map[string]string{"unlock": unlockPassword}
		if unlockPermanent {
			fields["unlock_all"] = "Unlock"
		} else {
			fields["unlock_1"] = "Unlock"
		}

		message, err := client.Do(cmd.Context(), fields)
		if err != nil {
			printErr(err)
			return err
		}
		printOK("%s", message)
		return nil
	},
}

var testPassword string

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Check the unlock password without changing the lock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			printErr(err)
			return err
		}

		message, err := client.Do(cmd.Context(), map[string]string{
			"pwtest": "Test",
			"unlock": testPassword,
		})
		if err != nil {
			printErr(err)
			return err
		}
		printOK("%s", message)
		return nil
	},
}

var openDuration int

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the door for a number of seconds",
	Long: `Open the door. The safe must be unlocked first; the duration
must be one of 5, 10, 20, 30 or 60 seconds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			printErr(err)
			return err
		}

		message, err := client.Do(cmd.Context(), map[string]string{
			"open":     "Open",
			"duration": strconv.Itoa(openDuration),
		})
		if err != nil {
			printErr(err)
			return err
		}
		printOK("%s", message)
		return nil
	},
}

var lockPassword string

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Lock the safe and set a new unlock password",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			printErr(err)
			return err
		}

		message, err := client.Do(cmd.Context(), map[string]string{
			"lock":  "Lock",
			"lock1": lockPassword,
			"lock2": lockPassword,
		})
		if err != nil {
			printErr(err)
			return err
		}
		printOK("%s", message)
		return nil
	},
}

func init() {
	unlockCmd.Flags().StringVarP(&unlockPassword, "password", "p", "", "Unlock password")
	unlockCmd.Flags().BoolVar(&unlockPermanent, "permanent", false, "Stay unlocked until an explicit lock")
	_ = unlockCmd.MarkFlagRequired("password")

	testCmd.Flags().StringVarP(&testPassword, "password", "p", "", "Unlock password to test")
	_ = testCmd.MarkFlagRequired("password")

	openCmd.Flags().IntVarP(&openDuration, "duration", "d", 5, "Door open duration in seconds")

	lockCmd.Flags().StringVarP(&lockPassword, "password", "p", "", "New unlock password")
	_ = lockCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(unlockCmd, testCmd, openCmd, lockCmd)
}
