package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-advisor/internal/db"
	"github.com/jonathan/career-advisor/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Build the catalog index, then start an HTTP server exposing the recommendation endpoints.
Send SIGHUP to rebuild the index from the catalog file without restarting.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	ctx := context.Background()
	p, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer p.Close()

	var runs server.RunStore
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		log.Printf("[db] recording runs to PostgreSQL")
		p.advisor.SetRecorder(database)
		runs = database
	}

	srv := server.New(server.Config{
		Port:  cfg.Port,
		Model: cfg.GenModel,
		Reload: func(ctx context.Context) error {
			return p.holder.Reload(ctx, cfg.CatalogPath, p.embedder)
		},
	}, p.advisor, runs)

	return srv.Start()
}
