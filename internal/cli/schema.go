// Package cli provides shared CLI utilities for brightpath and brightpathd.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// FlagDoc describes one flag in the machine-readable command schema.
type FlagDoc struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Type      string `json:"type"`
	Default   string `json:"default,omitempty"`
	Usage     string `json:"usage,omitempty"`
}

// CommandDoc describes a command and its subtree in the machine-readable
// schema emitted by --help-json.
type CommandDoc struct {
	Name     string       `json:"name"`
	Use      string       `json:"use,omitempty"`
	Short    string       `json:"short,omitempty"`
	Long     string       `json:"long,omitempty"`
	Flags    []FlagDoc    `json:"flags,omitempty"`
	Commands []CommandDoc `json:"commands,omitempty"`
}

// DescribeCommand walks a cobra command tree into a CommandDoc. Hidden
// commands and the implicit help command are skipped.
func DescribeCommand(cmd *cobra.Command) CommandDoc {
	doc := CommandDoc{
		Name:  cmd.Name(),
		Use:   cmd.Use,
		Short: cmd.Short,
		Long:  cmd.Long,
	}

	cmd.LocalFlags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" || f.Name == "help-json" || f.Hidden {
			return
		}
		doc.Flags = append(doc.Flags, FlagDoc{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Type:      f.Value.Type(),
			Default:   f.DefValue,
			Usage:     f.Usage,
		})
	})

	for _, sub := range cmd.Commands() {
		if sub.Hidden || sub.Name() == "help" {
			continue
		}
		doc.Commands = append(doc.Commands, DescribeCommand(sub))
	}
	return doc
}

// AddHelpJSONFlag registers the --help-json flag on a root command.
func AddHelpJSONFlag(cmd *cobra.Command) {
	cmd.PersistentFlags().Bool("help-json", false, "print the command schema as JSON")
}

// CheckHelpJSON scans os.Args for --help-json before Execute runs, so the
// schema can be printed even when required args are missing. The args seen
// before the flag select which subcommand to describe.
func CheckHelpJSON(root *cobra.Command) {
	for i, arg := range os.Args {
		if arg != "--help-json" {
			continue
		}
		target := root
		for _, name := range os.Args[1:i] {
			next := lookupSubcommand(target, name)
			if next == nil {
				break
			}
			target = next
		}
		out, err := json.MarshalIndent(DescribeCommand(target), "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "schema generation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		os.Exit(0)
	}
}

func lookupSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, sub := range cmd.Commands() {
		if sub.Name() == name || sub.HasAlias(name) {
			return sub
		}
	}
	return nil
}
