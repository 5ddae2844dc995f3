package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Recommendation represents one recommendation from the API.
type Recommendation struct {
	ID           string  `json:"id"`
	ContentID    string  `json:"content_id"`
	ContentClass string  `json:"content_class"`
	Kind         string  `json:"kind"`
	Score        float64 `json:"score"`
	Reason       string  `json:"reason"`
}

// RecommendationListResponse represents the recommendations API response.
type RecommendationListResponse struct {
	Recommendations []Recommendation `json:"recommendations"`
}

// RecommendCmd creates the recommend command.
func RecommendCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Get personalized content recommendations",
		Long:  "Fetches recommendations for the configured user (set --user or BRIGHTPATH_USER_ID).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runRecommend(cmd, limit, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "Maximum number of recommendations")

	return cmd
}

func runRecommend(cmd *cobra.Command, limit int, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}
	if api.userID == "" {
		return fmt.Errorf("%s not set (recommendations require a user)", envUserID)
	}

	resp, err := api.Get(fmt.Sprintf("/recommendations?limit=%d", limit))
	if err != nil {
		return fmt.Errorf("recommend failed: %w", err)
	}

	var recResp RecommendationListResponse
	if err := json.Unmarshal(resp.Data, &recResp); err != nil {
		return fmt.Errorf("failed to parse recommendations: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(recResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(recResp.Recommendations) == 0 {
		fmt.Println("No recommendations available.")
		return nil
	}

	for i, rec := range recResp.Recommendations {
		fmt.Printf("%d. %s (%.2f, %s)\n", i+1, rec.ContentID, rec.Score, rec.Kind)
		if rec.Reason != "" {
			fmt.Printf("   %s\n", rec.Reason)
		}
	}

	return nil
}
