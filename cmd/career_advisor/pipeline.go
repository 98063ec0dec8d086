package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jonathan/career-advisor/internal/advisor"
	"github.com/jonathan/career-advisor/internal/catalog"
	"github.com/jonathan/career-advisor/internal/config"
	"github.com/jonathan/career-advisor/internal/embedding"
	"github.com/jonathan/career-advisor/internal/llm"
)

// pipeline holds everything a command needs to serve recommendations.
type pipeline struct {
	cfg       *config.Config
	embedder  *embedding.Client
	generator llm.Client
	holder    *catalog.Holder
	advisor   *advisor.Advisor
}

func (p *pipeline) Close() {
	if p.generator != nil {
		if err := p.generator.Close(); err != nil {
			log.Printf("[llm] close failed: %v", err)
		}
	}
	if p.embedder != nil {
		if err := p.embedder.Close(); err != nil {
			log.Printf("[catalog] embedding client close failed: %v", err)
		}
	}
}

// loadConfig reads --config, the environment, and defaults.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath, os.Getenv)
}

// buildIndex connects the embedding backend and embeds the whole catalog.
// Any failure here is fatal for the caller.
func buildIndex(ctx context.Context, cfg *config.Config) (*embedding.Client, *catalog.Index, error) {
	embedder, err := embedding.New(ctx, cfg.EmbeddingConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	entries, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		_ = embedder.Close()
		return nil, nil, err
	}

	log.Printf("[catalog] embedding %d careers from %s with %s/%s", len(entries), cfg.CatalogPath, cfg.EmbedProvider, cfg.EmbedModel)
	idx, err := catalog.Build(ctx, entries, embedder)
	if err != nil {
		_ = embedder.Close()
		return nil, nil, fmt.Errorf("failed to build catalog index: %w", err)
	}
	log.Printf("[catalog] index ready: %d careers, %d dimensions", idx.Len(), idx.Dimension())
	return embedder, idx, nil
}

// buildPipeline builds the index and the advisor. The generation client is only
// created for generative mode.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline, error) {
	embedder, idx, err := buildIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}
	p := &pipeline{cfg: cfg, embedder: embedder, holder: catalog.NewHolder(idx)}

	if advisor.Mode(cfg.Mode) == advisor.ModeGenerative {
		p.generator, err = llm.NewClient(ctx, cfg.LLMConfig(), cfg.GenerationAPIKey())
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("failed to create generation client: %w", err)
		}
	}

	p.advisor, err = advisor.New(p.holder, embedder, p.generator, cfg.AdvisorOptions())
	if err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}
