package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	authCmd := &cobra.Command{Use: "auth", Short: "Account operations"}

	var email, password, name string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign the session in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || password == "" || name == "" {
				return fmt.Errorf("--email, --password and --name required")
			}
			return doPostJSON("/api/auth/register", map[string]string{
				"email": email, "password": password, "name": name,
			})
		},
	}
	registerCmd.Flags().StringVarP(&email, "email", "e", "", "Account email (required)")
	registerCmd.Flags().StringVarP(&password, "password", "p", "", "Password (required)")
	registerCmd.Flags().StringVarP(&name, "name", "n", "", "Display name (required)")
	authCmd.AddCommand(registerCmd)

	var loginEmail, loginPassword string
	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign the session in",
		RunE: func(cmd *cobra.Command, args []string) error {
			if loginEmail == "" || loginPassword == "" {
				return fmt.Errorf("--email and --password required")
			}
			return doPostJSON("/api/auth/login", map[string]string{
				"email": loginEmail, "password": loginPassword,
			})
		},
	}
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (required)")
	authCmd.AddCommand(loginCmd)

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Destroy the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doPostJSON("/api/auth/logout", map[string]string{})
		},
	}
	authCmd.AddCommand(logoutCmd)

	whoamiCmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return doGet("/api/auth/user")
		},
	}
	authCmd.AddCommand(whoamiCmd)

	rootCmd.AddCommand(authCmd)
}
