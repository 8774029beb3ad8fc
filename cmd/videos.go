package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"tubesort/internal/clix"
)

var (
	videosRaw  bool
	videosJSON bool
)

var videosCmd = &cobra.Command{
	Use:   "videos <channel-id>",
	Short: "Show a channel's recent videos grouped by category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		svc, err := appInstance.Categorization()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		only, err := clix.ParseList(cmd.Flags(), "categories")
		if err != nil {
			return fmt.Errorf("invalid categories flag: %w", err)
		}

		if videosRaw {
			if len(only) > 0 {
				return fmt.Errorf("--categories cannot be used with --raw")
			}
			videos, err := svc.RecentVideos(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if videosJSON {
				return writeJSON(out, videos)
			}
			printVideos(out, videos)
			return nil
		}

		grouped, err := svc.CategorizeChannel(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		grouped = grouped.Only(only)
		if videosJSON {
			return writeJSON(out, grouped)
		}
		printCategorized(out, grouped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(videosCmd)

	videosCmd.Flags().BoolVar(&videosRaw, "raw", false, "List recent videos without categorizing them")
	videosCmd.Flags().BoolVar(&videosJSON, "json", false, "Print JSON instead of tables")
	videosCmd.Flags().String("categories", "", "Comma separated categories to show")
}
