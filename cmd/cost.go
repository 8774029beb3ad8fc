package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tubesort/internal/clix"
)

var (
	costListLimit      int
	costListOffset     int
	costListChannel    string
	costSummaryChannel string
	costByChannel      bool
)

// costCmd represents the base command for cost operations.
var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Manage and view AI usage costs",
	Long:  `Provides subcommands to list classifier usage logs and view cost summaries.`,
}

// costListCmd represents the command to list cost logs.
var costListCmd = &cobra.Command{
	Use:   "list",
	Short: "List detailed AI usage logs",
	Long: `Displays a paginated list of recorded classifier calls with associated costs and token counts.
Use --channel to only show calls made while categorizing one creator's videos.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		if appInstance.CostService == nil {
			return fmt.Errorf("cost service is not initialized")
		}

		pagination, err := clix.ParsePagination(cmd.Flags(), 50)
		if err != nil {
			return fmt.Errorf("invalid pagination flags: %w", err)
		}

		logs, err := appInstance.CostService.ListUsage(cmd.Context(), costListChannel, pagination.Limit, pagination.Offset)
		if err != nil {
			return fmt.Errorf("failed to list cost logs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(logs) == 0 {
			fmt.Fprintln(out, "No cost logs found.")
			return nil
		}

		table := newTable(out, []string{"ID", "Timestamp", "Provider", "Service", "Model", "In Tokens", "Out Tokens", "Cost", "Channel"})
		for _, l := range logs {
			channel := "N/A"
			if l.ChannelID != nil {
				channel = *l.ChannelID
			}
			table.Append([]string{
				strconv.FormatInt(l.ID, 10),
				l.Timestamp.Format("2006-01-02 15:04:05"),
				l.ProviderName,
				l.ServiceType,
				l.ModelName,
				strconv.Itoa(l.InputTokens),
				strconv.Itoa(l.OutputTokens),
				fmt.Sprintf("%.8f", l.Cost),
				channel,
			})
		}
		table.Render()

		fmt.Fprintf(out, "\nDisplayed %d logs.\n", len(logs))
		return nil
	},
}

// costSummaryCmd represents the command to view cost summary.
var costSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show summary of total AI costs and token usage",
	Long: `Calculates and displays the total cost, total input tokens, and total output tokens across all recorded AI usage.
Use --channel to total a single creator, or --by-channel for a per-creator breakdown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		if appInstance.CostService == nil {
			return fmt.Errorf("cost service is not initialized")
		}

		if costByChannel && costSummaryChannel != "" {
			return fmt.Errorf("--by-channel cannot be combined with --channel")
		}

		out := cmd.OutOrStdout()
		if costByChannel {
			sums, err := appInstance.CostService.SummaryByChannel(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to get cost summary: %w", err)
			}
			if len(sums) == 0 {
				fmt.Fprintln(out, "No cost logs found.")
				return nil
			}
			table := newTable(out, []string{"Channel", "Calls", "In Tokens", "Out Tokens", "Cost"})
			for _, sum := range sums {
				channel := sum.ChannelID
				if channel == "" {
					channel = "N/A"
				}
				table.Append([]string{
					channel,
					strconv.FormatInt(sum.Calls, 10),
					strconv.FormatInt(sum.InputTokens, 10),
					strconv.FormatInt(sum.OutputTokens, 10),
					fmt.Sprintf("$%.6f", sum.TotalCost),
				})
			}
			table.Render()
			return nil
		}

		sum, err := appInstance.CostService.GetSummary(cmd.Context(), costSummaryChannel)
		if err != nil {
			return fmt.Errorf("failed to get cost summary: %w", err)
		}

		if sum.ChannelID != "" {
			fmt.Fprintf(out, "AI Usage Cost Summary (%s):\n", sum.ChannelID)
		} else {
			fmt.Fprintln(out, "AI Usage Cost Summary:")
		}
		fmt.Fprintln(out, "----------------------")
		fmt.Fprintf(out, "Classifier Calls:    %d\n", sum.Calls)
		fmt.Fprintf(out, "Total Cost:          $%.6f\n", sum.TotalCost)
		fmt.Fprintf(out, "Total Input Tokens:  %d\n", sum.InputTokens)
		fmt.Fprintf(out, "Total Output Tokens: %d\n", sum.OutputTokens)
		fmt.Fprintln(out, "----------------------")

		return nil
	},
}

func init() {
	costCmd.AddCommand(costListCmd)
	costCmd.AddCommand(costSummaryCmd)

	costListCmd.Flags().IntVarP(&costListLimit, "limit", "l", 50, "Number of logs to display")
	costListCmd.Flags().IntVarP(&costListOffset, "offset", "o", 0, "Number of logs to skip")
	costListCmd.Flags().StringVarP(&costListChannel, "channel", "c", "", "Only show usage for this channel ID")

	costSummaryCmd.Flags().StringVarP(&costSummaryChannel, "channel", "c", "", "Only total usage for this channel ID")
	costSummaryCmd.Flags().BoolVar(&costByChannel, "by-channel", false, "Break usage down per channel")
}
