package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag     string
	sessionFlag string
	rootCmd     = &cobra.Command{
		Use:   "dreamctl",
		Short: "CLI client for the dream analysis REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Dream service base URL")
	rootCmd.PersistentFlags().StringVarP(&sessionFlag, "session-file", "s", defaultSessionFile(), "File holding the session cookie")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
