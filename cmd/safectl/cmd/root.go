// Package cmd implements the safectl CLI commands.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "0.1.0"

var (
	addr      string
	tokenFile string

	okFmt  = color.New(color.FgGreen).SprintFunc()
	errFmt = color.New(color.FgRed, color.Bold).SprintFunc()
)

var rootCmd = &cobra.Command{
	Use:   "safectl",
	Short: "Control a strongbox safe over its web interface",
	Long: `safectl talks to the safe controller's web interface from the
command line: log in, inspect the lock state, unlock, open the door and
change the provisioning details.

Log in once with "safectl login"; the session token is kept in a local
file and reused by the other commands until it expires.`,
	Version:      Version,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "http://192.168.4.1", "Base URL of the safe controller")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Session token file (default: ~/.config/safectl/session)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func sessionFilePath() (string, error) {
	if tokenFile != "" {
		return tokenFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".config", "safectl", "session"), nil
}

func saveToken(token string) error {
	path, err := sessionFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("failed to save session token: %w", err)
	}
	return nil
}

func loadToken() (string, error) {
	path, err := sessionFilePath()
	if err != nil {
		return "", err
	}
	token, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("no session token, run \"safectl login\" first: %w", err)
	}
	return string(token), nil
}

func newClient() (*Client, error) {
	token, err := loadToken()
	if err != nil {
		return nil, err
	}
	return NewClient(addr, token), nil
}

func printOK(format string, args ...interface{}) {
	fmt.Printf("%s %s\n", okFmt("OK"), fmt.Sprintf(format, args...))
}

func printErr(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", errFmt("FAIL"), err)
}
