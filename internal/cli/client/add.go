package client

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// AddContentRequest represents the content creation API request.
type AddContentRequest struct {
	ContentClass string `json:"content_class"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	Category     string `json:"category"`
	Difficulty   string `json:"difficulty"`
	Source       string `json:"source,omitempty"`
	Verified     bool   `json:"verified,omitempty"`
}

// ContentItemResponse represents a content item returned by the API.
type ContentItemResponse struct {
	ID           string `json:"id"`
	ContentClass string `json:"content_class"`
	Title        string `json:"title"`
	Embedded     bool   `json:"embedded"`
}

// AddCmd creates the add command.
func AddCmd() *cobra.Command {
	var (
		class      string
		category   string
		difficulty string
		source     string
		verified   bool
		bodyFile   string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a knowledge article or concept",
		Long:  "Indexes new content. The body is read from --file or standard input.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")

			var body []byte
			var err error
			if bodyFile != "" {
				body, err = os.ReadFile(bodyFile)
			} else {
				body, err = readStdin()
			}
			if err != nil {
				return fmt.Errorf("failed to read body: %w", err)
			}

			req := AddContentRequest{
				ContentClass: class,
				Title:        args[0],
				Body:         string(body),
				Category:     category,
				Difficulty:   difficulty,
				Source:       source,
				Verified:     verified,
			}
			return runAdd(cmd, req, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&class, "class", "c", "knowledge_article", "Content class (knowledge_article or concept)")
	cmd.Flags().StringVar(&category, "category", "", "Content category")
	cmd.Flags().StringVarP(&difficulty, "difficulty", "d", "beginner", "Difficulty (beginner, intermediate, advanced)")
	cmd.Flags().StringVar(&source, "source", "", "Content source")
	cmd.Flags().BoolVar(&verified, "verified", false, "Mark the content as expert-verified")
	cmd.Flags().StringVarP(&bodyFile, "file", "f", "", "Read the body from a file instead of stdin")

	return cmd
}

func runAdd(cmd *cobra.Command, req AddContentRequest, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/content", req)
	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	var item ContentItemResponse
	if err := json.Unmarshal(resp.Data, &item); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(item, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Printf("Created %s %q (id: %s)\n", item.ContentClass, item.Title, item.ID)
	if !item.Embedded {
		fmt.Println("Embedding is queued and will be processed shortly.")
	}
	return nil
}

func readStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, err
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return nil, fmt.Errorf("no body provided (pipe content or use --file)")
	}
	return io.ReadAll(os.Stdin)
}
