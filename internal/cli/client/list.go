package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// ContentListItem represents one item in a content listing.
type ContentListItem struct {
	ID           string `json:"id"`
	ContentClass string `json:"content_class"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
	Verified     bool   `json:"verified"`
	Embedded     bool   `json:"embedded"`
	CreatedAt    string `json:"created_at"`
}

// ContentListResponse represents the content listing API response.
type ContentListResponse struct {
	Items   []ContentListItem `json:"items"`
	Cursor  string            `json:"cursor,omitempty"`
	HasMore bool              `json:"has_more"`
}

// ListCmd creates the list command.
func ListCmd() *cobra.Command {
	var (
		class  string
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List indexed content",
		Long:  "Lists content newest-first with cursor pagination.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runList(cmd, class, limit, cursor, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&class, "class", "c", "", "Filter by content class")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of items")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func runList(cmd *cobra.Command, class string, limit int, cursor string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("limit", fmt.Sprintf("%d", limit))
	if class != "" {
		query.Set("content_class", class)
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	resp, err := api.Get("/content?" + query.Encode())
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	var listResp ContentListResponse
	if err := json.Unmarshal(resp.Data, &listResp); err != nil {
		return fmt.Errorf("failed to parse listing: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(listResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(listResp.Items) == 0 {
		fmt.Println("No content found.")
		return nil
	}

	for _, item := range listResp.Items {
		marker := " "
		if item.Verified {
			marker = "*"
		}
		fmt.Printf("%s %-18s %-40s %s\n", marker, item.ContentClass, item.Title, item.ID)
	}
	if listResp.HasMore && listResp.Cursor != "" {
		fmt.Printf("\nMore content available. Use --cursor %s\n", listResp.Cursor)
	}

	return nil
}
