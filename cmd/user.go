package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tubesort/internal/store"
)

var (
	userGoogleID string
	userName     string
	userEmail    string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create (or look up) a user and print a session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		user, err := appInstance.UserService.GetOrCreateUser(cmd.Context(), userGoogleID, userName, userEmail)
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User ID: %d (google id %s)\n", user.ID, user.GoogleID)

		tokens, err := appInstance.Sessions()
		if err != nil {
			fmt.Fprintf(out, "No session token issued: %v\n", err)
			return nil
		}
		token, err := tokens.Issue(user.ID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Session token: %s\n", token)
		return nil
	},
}

var userShowCmd = &cobra.Command{
	Use:   "show <user-id>",
	Short: "Show a user by numeric id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid user id %q", args[0])
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		user, err := appInstance.UserService.GetUser(cmd.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("user %d not found", id)
			}
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "User ID:   %d\n", user.ID)
		fmt.Fprintf(out, "Google ID: %s\n", user.GoogleID)
		fmt.Fprintf(out, "Name:      %s\n", user.Name)
		fmt.Fprintf(out, "Email:     %s\n", user.Email)
		fmt.Fprintf(out, "Created:   %s\n", user.CreatedAt.Format(timeLayout))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)

	userCreateCmd.Flags().StringVar(&userGoogleID, "google-id", "", "Google account id (required)")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	userCreateCmd.MarkFlagRequired("google-id")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userShowCmd)
}
