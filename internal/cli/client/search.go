package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// SearchRequest represents the search API request.
type SearchRequest struct {
	Query          string   `json:"query"`
	ContentClasses []string `json:"content_classes,omitempty"`
	Categories     []string `json:"categories,omitempty"`
	Limit          int      `json:"limit,omitempty"`
}

// SearchResult represents a search result.
type SearchResult struct {
	ContentID    string  `json:"content_id"`
	ContentClass string  `json:"content_class"`
	Title        string  `json:"title"`
	Snippet      string  `json:"snippet,omitempty"`
	Category     string  `json:"category,omitempty"`
	Difficulty   string  `json:"difficulty,omitempty"`
	Similarity   float64 `json:"similarity"`
}

// SearchResponse represents the search API response.
type SearchResponse struct {
	Results  []SearchResult `json:"results"`
	SearchID string         `json:"search_id,omitempty"`
}

// SearchCmd creates the search command.
func SearchCmd() *cobra.Command {
	var (
		classes    []string
		categories []string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search learning content",
		Long:  "Searches articles, lessons, and concepts using semantic search.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runSearch(cmd, args[0], classes, categories, limit, outputJSON)
		},
	}

	cmd.Flags().StringSliceVarP(&classes, "class", "c", nil, "Restrict to content classes (knowledge_article, lesson_chunk, concept)")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "Restrict to categories")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum number of results")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, classes, categories []string, limit int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	req := SearchRequest{
		Query:          query,
		ContentClasses: classes,
		Categories:     categories,
		Limit:          limit,
	}

	resp, err := api.Post("/search", req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	var searchResp SearchResponse
	if err := json.Unmarshal(resp.Data, &searchResp); err != nil {
		return fmt.Errorf("failed to parse search results: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(searchResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(searchResp.Results) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Printf("Found %d results:\n\n", len(searchResp.Results))
	for i, result := range searchResp.Results {
		fmt.Printf("%d. %s (%.2f) [%s]\n", i+1, result.Title, result.Similarity, result.ContentClass)
		if result.Snippet != "" {
			fmt.Printf("   %s\n", result.Snippet)
		}
		fmt.Printf("   ID: %s\n", result.ContentID)
		if i < len(searchResp.Results)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}
	if searchResp.SearchID != "" {
		fmt.Printf("\nSearch ID: %s (use 'feedback' to record a click)\n", searchResp.SearchID)
	}

	return nil
}

// FeedbackCmd creates the search feedback command.
func FeedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <search-id> <content-id>",
		Short: "Record which search result was clicked",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := NewAPIClientWithCmd(cmd)
			if err != nil {
				return err
			}

			body := map[string]string{
				"search_id":  args[0],
				"content_id": args[1],
			}
			if _, err := api.Post("/search/feedback", body); err != nil {
				return fmt.Errorf("feedback failed: %w", err)
			}

			fmt.Println("Click recorded.")
			return nil
		},
	}
}
