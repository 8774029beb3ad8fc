package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tubesort/internal/models"
	"tubesort/internal/store"
)

var channelUserID int64

// channelCmd represents the base command for channel registrations
var channelCmd = &cobra.Command{
	Use:   "channel",
	Short: "Manage a user's registered channels",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var channelAddCmd = &cobra.Command{
	Use:   "add <profile-url>",
	Short: "Register a channel by profile URL or @handle",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		channel, err := appInstance.ChannelService.AddChannel(cmd.Context(), channelUserID, args[0])
		if err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fmt.Errorf("creator already added")
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added channel %s (%s)\n", channel.ChannelName, channel.ChannelID)
		return nil
	},
}

var channelListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered channels",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		list, err := appInstance.ChannelService.ListChannels(cmd.Context(), channelUserID)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No channels found.")
			return nil
		}
		printChannels(cmd.OutOrStdout(), list)
		return nil
	},
}

var channelShowCmd = &cobra.Command{
	Use:   "show <channel-id>",
	Short: "Show one registered channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		channel, err := appInstance.ChannelService.GetChannel(cmd.Context(), channelUserID, args[0])
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("creator not found")
			}
			return err
		}
		printChannels(cmd.OutOrStdout(), []*models.Channel{channel})
		return nil
	},
}

var channelRemoveCmd = &cobra.Command{
	Use:   "remove <channel-id>",
	Short: "Unregister a channel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if err := appInstance.ChannelService.RemoveChannel(cmd.Context(), channelUserID, args[0]); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("creator not found")
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed channel %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(channelCmd)

	channelCmd.PersistentFlags().Int64VarP(&channelUserID, "user", "u", 0, "User ID owning the channels (required)")
	channelCmd.MarkPersistentFlagRequired("user")

	channelCmd.AddCommand(channelAddCmd)
	channelCmd.AddCommand(channelListCmd)
	channelCmd.AddCommand(channelShowCmd)
	channelCmd.AddCommand(channelRemoveCmd)
}
