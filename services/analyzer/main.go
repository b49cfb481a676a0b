// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/getgsa/getgsa/pkg/logging"
	"github.com/getgsa/getgsa/services/analyzer/drafting"
	"github.com/getgsa/getgsa/services/analyzer/observability"
	"github.com/getgsa/getgsa/services/analyzer/retrieval"
	"github.com/getgsa/getgsa/services/analyzer/routes"
	"github.com/getgsa/getgsa/services/analyzer/rulepack"
	"github.com/getgsa/getgsa/services/analyzer/services"
	"github.com/getgsa/getgsa/services/analyzer/storage"
	"github.com/getgsa/getgsa/services/llm"

	// --- OpenTelemetry imports ---
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/getgsa/getgsa/services/analyzer/middleware"
)

func initTracer() (func(context.Context), error) {
	ctx := context.Background()

	otelEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otelEndpoint == "" {
		// Tracing is optional; skip exporter setup when no collector is
		// configured so local runs need nothing beyond the binary.
		slog.Info("OTEL_EXPORTER_OTLP_ENDPOINT not set, tracing disabled")
		return func(context.Context) {}, nil
	}
	conn, err := grpc.NewClient(otelEndpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, err
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceNameKey.String("analyzer-service")))
	if err != nil {
		return nil, err
	}
	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(bsp))
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.
		TraceContext{}, propagation.Baggage{}))

	return func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, time.Second*5)
		defer cancel()
		if err := traceExporter.Shutdown(ctx); err != nil {
			slog.Error("failed to shutdown OTLP exporter", "error", err)
		}
	}, nil
}

// newEmbedder picks the embedding backend from EMBEDDING_BACKEND. The
// TF-IDF embedder is the default: fully local, no model artifact needed.
func newEmbedder() retrieval.Embedder {
	switch os.Getenv("EMBEDDING_BACKEND") {
	case "openai":
		embedder, err := retrieval.NewOpenAIEmbedder()
		if err != nil {
			slog.Warn("OpenAI embedder unavailable, falling back to tfidf", "error", err)
			return retrieval.NewTFIDFEmbedder()
		}
		slog.Info("Using OpenAI embedding backend")
		return embedder
	default:
		slog.Info("Using TF-IDF embedding backend")
		return retrieval.NewTFIDFEmbedder()
	}
}

func main() {
	_ = godotenv.Load()

	port := os.Getenv("ANALYZER_PORT")
	if port == "" {
		port = "8000"
	}

	logger := logging.New(logging.Config{
		Service: "analyzer",
		Level:   logging.ParseLevel(os.Getenv("LOG_LEVEL")),
		LogDir:  os.Getenv("LOG_DIR"),
		JSON:    true,
	})
	defer logger.Close()
	logger.SetAsDefault()

	cleanup, err := initTracer()
	if err != nil {
		log.Fatalf("failed to setup the OTLP tracer: %v", err)
	}
	defer cleanup(context.Background())

	pack, err := rulepack.New()
	if err != nil {
		log.Fatalf("FATAL: could not load the rule pack: %v", err)
	}

	metrics := observability.InitMetrics()
	store := storage.New(storage.DefaultTTL, logger.Slog())

	ctx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	go store.Janitor(ctx, time.Hour)

	retriever := retrieval.NewRetriever(pack, newEmbedder(), logger.Slog())
	drafter := drafting.New(llm.ChainFromEnv(logger.Slog()), logger.Slog())

	svc, err := services.NewAnalysisService(services.Config{
		Retriever: retriever,
		Drafter:   drafter,
		Store:     store,
		Metrics:   metrics,
		Logger:    logger.Slog(),
	})
	if err != nil {
		log.Fatalf("FATAL: could not build the analysis service: %v", err)
	}

	router := gin.Default()
	router.Use(otelgin.Middleware("analyzer-service"))
	router.Use(middleware.RequestID())

	routes.SetupRoutes(router, svc, store, metrics)

	slog.Info("Starting the analyzer server", "port", port, "rules", pack.Size())
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
