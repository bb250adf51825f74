package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	dreamsCmd := &cobra.Command{Use: "dreams", Short: "Dream analysis operations"}

	var text string
	analyzeCmd := &cobra.Command{
		Use:   "analyze [DREAM_TEXT]",
		Short: "Submit a dream for analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dreamText := text
			if len(args) == 1 {
				dreamText = args[0]
			}
			if dreamText == "-" {
				data, err := os.ReadFile("/dev/stdin")
				if err != nil {
					return err
				}
				dreamText = strings.TrimSpace(string(data))
			}
			if dreamText == "" {
				return fmt.Errorf("dream text required (argument, --text, or '-' for stdin)")
			}
			return doPostJSON("/api/dreams/analyze", map[string]string{"dreamText": dreamText})
		},
	}
	analyzeCmd.Flags().StringVarP(&text, "text", "t", "", "Dream text")
	dreamsCmd.AddCommand(analyzeCmd)

	usageCmd := &cobra.Command{
		Use:   "usage",
		Short: "Show remaining analysis allowance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet("/api/dreams/usage")
		},
	}
	dreamsCmd.AddCommand(usageCmd)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List past analyses, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet("/api/dreams/history")
		},
	}
	dreamsCmd.AddCommand(historyCmd)

	rootCmd.AddCommand(dreamsCmd)
}
