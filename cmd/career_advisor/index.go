package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-advisor/internal/observability"
)

var indexJSON bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Embed the catalog and print index statistics",
	Long:  "Loads and validates the catalog, embeds every career with the configured backend, and reports the resulting index size and dimension.",
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexJSON, "json", false, "Print statistics as JSON")
	rootCmd.AddCommand(indexCmd)
}

type indexStats struct {
	Catalog   string   `json:"catalog"`
	Backend   string   `json:"backend"`
	Model     string   `json:"model,omitempty"`
	Careers   int      `json:"careers"`
	Dimension int      `json:"dimension"`
	Titles    []string `json:"titles"`
}

func runIndex(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	embedder, idx, err := buildIndex(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer embedder.Close() //nolint:errcheck

	out := cmd.OutOrStdout()
	if !indexJSON {
		observability.NewPrinter(out).PrintCatalogStats(cfg.CatalogPath, idx)
		return nil
	}

	stats := indexStats{
		Catalog:   cfg.CatalogPath,
		Backend:   embedder.Backend(),
		Model:     cfg.EmbedModel,
		Careers:   idx.Len(),
		Dimension: idx.Dimension(),
	}
	for _, e := range idx.Entries() {
		stats.Titles = append(stats.Titles, e.Title)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(stats)
}
