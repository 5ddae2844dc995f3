package client

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ReindexRequest represents the lesson reindex API request.
type ReindexRequest struct {
	Title      string `json:"title"`
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Content    string `json:"content"`
}

// ReindexResponse represents the lesson reindex API response.
type ReindexResponse struct {
	LessonID string                `json:"lesson_id"`
	Chunks   []ContentItemResponse `json:"chunks"`
}

// ReindexCmd creates the reindex command.
func ReindexCmd() *cobra.Command {
	var (
		title      string
		category   string
		difficulty string
		file       string
	)

	cmd := &cobra.Command{
		Use:   "reindex <lesson-id>",
		Short: "Re-chunk and re-embed a lesson",
		Long:  "Replaces a lesson's indexed chunks atomically. The lesson text is read from --file or standard input.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			var content []byte
			var err error
			if file != "" {
				content, err = os.ReadFile(file)
			} else {
				content, err = readStdin()
			}
			if err != nil {
				return fmt.Errorf("failed to read lesson content: %w", err)
			}

			req := ReindexRequest{
				Title:      title,
				Category:   category,
				Difficulty: difficulty,
				Content:    string(content),
			}
			return runReindex(cmd, args[0], req, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Lesson title")
	cmd.Flags().StringVar(&category, "category", "", "Lesson category")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "beginner", "Difficulty (beginner, intermediate, advanced)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read lesson content from a file instead of stdin")

	return cmd
}

func runReindex(cmd *cobra.Command, lessonID string, req ReindexRequest, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/lessons/"+lessonID+"/reindex", req)
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	var reindexResp ReindexResponse
	if err := json.Unmarshal(resp.Data, &reindexResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(reindexResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Lesson %s reindexed into %d chunks.\n", reindexResp.LessonID, len(reindexResp.Chunks))
	return nil
}
