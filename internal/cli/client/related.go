package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

// RelatedResponse represents the related-concepts API response.
type RelatedResponse struct {
	Term    string         `json:"term"`
	Related []SearchResult `json:"related"`
}

// RelatedCmd creates the related command.
func RelatedCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "related <term>",
		Short: "Find concepts related to a term",
		Long:  "Looks up a finance concept by term and returns its nearest neighbors.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runRelated(cmd, args[0], limit, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of related concepts")

	return cmd
}

func runRelated(cmd *cobra.Command, term string, limit int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/concepts/%s/related?limit=%d", url.PathEscape(term), limit)
	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("related lookup failed: %w", err)
	}

	var relatedResp RelatedResponse
	if err := json.Unmarshal(resp.Data, &relatedResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(relatedResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(relatedResp.Related) == 0 {
		fmt.Printf("No concepts related to %q found.\n", relatedResp.Term)
		return nil
	}

	fmt.Printf("Concepts related to %q:\n", relatedResp.Term)
	for i, result := range relatedResp.Related {
		fmt.Printf("%d. %s (%.2f)\n", i+1, result.Title, result.Similarity)
	}

	return nil
}
