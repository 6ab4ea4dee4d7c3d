// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package main

//go:generate go run gen-docs.go gen-docs --path ../../docs
//go:generate go run gen-docs.go gen-docs --path ../../docs/man --format man

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
	netprobecmd "github.com/telekom/netprobe/cmd"
)

func main() {
	execute()
}

func execute() {
	rootCmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generates docs for netprobe",
	}
	rootCmd.AddCommand(NewCmdGenDocs())

	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewCmdGenDocs creates a new gen-docs command
func NewCmdGenDocs() *cobra.Command {
	var docPath, format string

	cmd := &cobra.Command{
		Use:   "gen-docs",
		Short: "Generate markdown or man page documentation",
		Long:  `Generate the documentation of the available CLI commands and flags`,
		RunE:  runGenDocs(&docPath, &format),
	}

	cmd.PersistentFlags().StringVar(&docPath, "path", "docs", "directory path where the files will be created")
	cmd.PersistentFlags().StringVar(&format, "format", "markdown", "documentation format: markdown or man")

	return cmd
}

// runGenDocs generates the documentation files in the requested format
func runGenDocs(path, format *string) func(cmd *cobra.Command, args []string) error {
	c := netprobecmd.BuildCmd("")
	c.DisableAutoGenTag = false
	return func(_ *cobra.Command, _ []string) error {
		if err := os.MkdirAll(*path, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", *path, err)
		}

		var err error
		switch *format {
		case "markdown":
			err = doc.GenMarkdownTree(c, *path)
		case "man":
			err = doc.GenManTree(c, &doc.GenManHeader{Title: "NETPROBE", Section: "1"}, *path)
		default:
			return fmt.Errorf("unsupported format %q", *format)
		}
		if err != nil {
			return fmt.Errorf("failed to generate docs: %w", err)
		}
		return nil
	}
}
