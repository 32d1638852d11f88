package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AguayoD/bcasweb"
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write all content as JSON to file (default stdout)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()

		var w io.Writer = cmd.OutOrStdout()
		if len(args) == 1 {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s.Snapshot()); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		if len(args) == 1 {
			logger.Info().Str("file", args[0]).Msg("content exported")
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all content with an export or a localStorage dump",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		c, err := bcasweb.ParseExport(data, logger)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		s, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Replace(c); err != nil {
			return err
		}
		logger.Info().
			Str("file", path).
			Int("news", len(c.News)).
			Int("events", len(c.Events)).
			Int("sections", len(c.Sections)).
			Int("team", len(c.Team)).
			Int("values", len(c.Values)).
			Msg("content imported")
		return nil
	},
}
