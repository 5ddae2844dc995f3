package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brightpath-learning/brightpath/internal/cli"
	"github.com/brightpath-learning/brightpath/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "brightpath",
		Short: "Brightpath CLI - semantic search over learning content",
		Long: `Brightpath CLI provides commands to search, list, and index learning content.

Environment variables:
  BRIGHTPATH_USER_ID   User identity sent with requests (required for recommendations)
  BRIGHTPATH_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("user", "", "User ID sent with requests (overrides env)")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.SearchCmd())
	rootCmd.AddCommand(client.FeedbackCmd())
	rootCmd.AddCommand(client.RecommendCmd())
	rootCmd.AddCommand(client.AddCmd())
	rootCmd.AddCommand(client.ListCmd())
	rootCmd.AddCommand(client.ReindexCmd())
	rootCmd.AddCommand(client.RelatedCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
