package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brightpath-learning/brightpath/internal/cli"
	"github.com/brightpath-learning/brightpath/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "brightpathd",
		Short: "Brightpath daemon and admin CLI",
		Long:  "Brightpath daemon for running the content API server and bulk-indexing learning content",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.IndexCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
