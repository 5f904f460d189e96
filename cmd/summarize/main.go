package main

import (
	"context"
	"github.com/maxaizer/boss-harvester/internal/clients/gemini"
	"github.com/maxaizer/boss-harvester/internal/config"
	"github.com/maxaizer/boss-harvester/internal/logger"
	"github.com/maxaizer/boss-harvester/internal/services"
	"github.com/maxaizer/boss-harvester/internal/snapshot"
	log "github.com/sirupsen/logrus"
	"os/signal"
	"syscall"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()

	logger.Setup(cfg.Logger)
	defer logger.Cleanup()

	if cfg.AI.Key == "" {
		log.Fatal("missing variable: AI_KEY")
	}

	aiClient, err := gemini.NewClient(ctx, cfg.AI.Key, gemini.Model(cfg.AI.Model), services.SummarySystemInstruction)
	if err != nil {
		log.Fatalf("can't create AI client: %v", err)
	}
	defer aiClient.Close()
	aiClient.SetMinuteRateLimit(cfg.AI.MaxRequestsPerMinute)
	aiClient.SetDayRateLimit(cfg.AI.MaxRequestsPerDay)

	summarizer := services.NewSummarizer(aiClient, snapshot.NewStore(cfg.Output.Path), cfg.AI.MaxDescriptions)
	if err = summarizer.Summarize(ctx, cfg.AI.OutputPath); err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeAiApi).Fatalf("failed to summarize %s: %v", cfg.Output.Path, err)
	}

	log.Infof("summary written to %s", cfg.AI.OutputPath)
}
