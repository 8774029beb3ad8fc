package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"tubesort/internal/models"
)

const timeLayout = "2006-01-02 15:04"

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func printHealth(w io.Writer, health map[string]error) {
	names := make([]string, 0, len(health))
	for name := range health {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := health[name]; err != nil {
			fmt.Fprintf(w, "%-16s %s %v\n", name, color.RedString("FAIL"), err)
			continue
		}
		fmt.Fprintf(w, "%-16s %s\n", name, color.GreenString("OK"))
	}
}

func printChannels(w io.Writer, channels []*models.Channel) {
	table := newTable(w, []string{"ID", "Channel ID", "Name", "Added"})
	for _, c := range channels {
		table.Append([]string{
			strconv.FormatInt(c.ID, 10),
			c.ChannelID,
			c.ChannelName,
			c.CreatedAt.Format(timeLayout),
		})
	}
	table.Render()
}

// printCategorized writes one table per category in bucket order.
func printCategorized(w io.Writer, grouped *models.CategorizedVideos) {
	for _, b := range grouped.Buckets() {
		heading := color.New(color.FgCyan, color.Bold).Sprintf("%s (%d)", b.Category, len(b.Videos))
		fmt.Fprintln(w, heading)

		table := newTable(w, []string{"Published", "Title", "Tags", "Video ID"})
		for _, v := range b.Videos {
			published := ""
			if !v.PublishedAt.IsZero() {
				published = v.PublishedAt.Format(timeLayout)
			}
			table.Append([]string{published, v.Title, strings.Join(v.Tags, ", "), v.VideoID})
		}
		table.Render()
		fmt.Fprintln(w)
	}
	if grouped.Len() == 0 {
		fmt.Fprintln(w, "No videos found.")
		return
	}
	fmt.Fprintf(w, "%d videos in %d categories.\n", grouped.TotalVideos(), grouped.Len())
}

func printVideos(w io.Writer, videos []models.VideoRecord) {
	if len(videos) == 0 {
		fmt.Fprintln(w, "No videos found.")
		return
	}
	table := newTable(w, []string{"Published", "Title", "Video ID", "Thumbnail"})
	for _, v := range videos {
		published := ""
		if !v.PublishedAt.IsZero() {
			published = v.PublishedAt.Format(timeLayout)
		}
		table.Append([]string{published, v.Title, v.VideoID, v.ThumbnailURL})
	}
	table.Render()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
