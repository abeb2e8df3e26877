package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"report-agent/agents"
	"report-agent/budget"
	"report-agent/config"
	"report-agent/database"
	"report-agent/llmclient"
	"report-agent/retrieval"
	"report-agent/web"
	"report-agent/web/services"
	"report-agent/workflow"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level
	logger, err := config.InitLogger(cfg.LogLevel)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	store, err := database.NewPostgresStore(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	client := llmclient.New(cfg, logger)

	vectorStore := retrieval.NewVectorStore(store, client, logger)
	retriever, err := retrieval.NewCachedRetriever(vectorStore, cfg.RetrievalCacheSize, logger)
	if err != nil {
		logger.Fatal("Failed to initialize retrieval cache", zap.Error(err))
	}

	summarizer := agents.NewSummarizer(client, cfg, logger)
	budgeter := budget.New(summarizer, logger)

	registry := agents.BuildRegistry()
	var graph *workflow.Graph
	if cfg.Topology == config.TopologySupervised {
		graph = workflow.SupervisedGraph(registry)
	} else {
		graph = workflow.LinearGraph(registry)
	}
	logger.Info("Workflow graph built",
		zap.String("topology", cfg.Topology),
		zap.Int("agents", graph.Size()))

	engine := workflow.NewEngine(graph, client, budgeter, cfg, logger)

	reportService := services.NewReportService(cfg, engine, store, retriever, vectorStore, logger)
	webServer := web.NewServer(reportService, logger, cfg)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	port := fmt.Sprintf(":%d", cfg.WebPort)
	logger.Info("Starting report agent web server", zap.String("port", port))
	if err := webServer.Start(ctx, port); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}
