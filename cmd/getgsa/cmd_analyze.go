// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/getgsa/getgsa/pkg/logging"
	"github.com/getgsa/getgsa/services/analyzer/datatypes"
	"github.com/getgsa/getgsa/services/analyzer/drafting"
	"github.com/getgsa/getgsa/services/analyzer/retrieval"
	"github.com/getgsa/getgsa/services/analyzer/rulepack"
	"github.com/getgsa/getgsa/services/analyzer/services"
	"github.com/getgsa/getgsa/services/analyzer/storage"
	"github.com/getgsa/getgsa/services/llm"
)

// analyzeFiles runs the full local pipeline over the named files.
// Factored out of the cobra handler so tests can call it directly.
func analyzeFiles(ctx context.Context, paths []string, hint string, drafter *drafting.Drafter) (datatypes.AnalyzeResponse, error) {
	pack, err := rulepack.New()
	if err != nil {
		return datatypes.AnalyzeResponse{}, fmt.Errorf("loading rule pack: %w", err)
	}

	logger := logging.New(logging.Config{
		Service: "cli",
		Level:   logging.ParseLevel(logLevelStr),
		Quiet:   true,
	})
	defer logger.Close()

	if drafter == nil {
		drafter = drafting.New(llm.ChainFromEnv(logger.Slog()), logger.Slog())
	}
	svc, err := services.NewAnalysisService(services.Config{
		Retriever: retrieval.NewRetriever(pack, retrieval.NewTFIDFEmbedder(), logger.Slog()),
		Drafter:   drafter,
		Store:     storage.New(0, logger.Slog()),
		Logger:    logger.Slog(),
	})
	if err != nil {
		return datatypes.AnalyzeResponse{}, err
	}

	docs := make([]datatypes.Document, 0, len(paths))
	for _, path := range paths {
		text, err := os.ReadFile(path)
		if err != nil {
			return datatypes.AnalyzeResponse{}, fmt.Errorf("reading %s: %w", path, err)
		}
		docs = append(docs, datatypes.Document{
			Name:     filepath.Base(path),
			Text:     string(text),
			TypeHint: hint,
		})
	}

	ingested, err := svc.Ingest(ctx, datatypes.IngestRequest{Documents: docs})
	if err != nil {
		return datatypes.AnalyzeResponse{}, err
	}
	return svc.Analyze(ctx, ingested.RequestID)
}

func runAnalyzeCommand(cmd *cobra.Command, args []string) error {
	resp, err := analyzeFiles(cmd.Context(), args, typeHint, nil)
	if err != nil {
		return err
	}

	if outputJSON {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(resp)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Documents analyzed: %d\n", resp.DocumentsAnalyzed)
	fmt.Fprintf(out, "Retrieval path:     %s\n", resp.RetrievalPath)
	fmt.Fprintf(out, "Compliance:         %s (%.0f%%)\n\n",
		resp.ComplianceStatus, resp.Checklist.ComplianceRate*100)

	for _, item := range resp.Checklist.Items {
		mark := "PASS"
		if !item.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(out, "[%s] %s %s\n", mark, item.RuleID, item.Title)
		for _, p := range item.Problems {
			fmt.Fprintf(out, "       - %s: %s\n", p.Issue, p.Description)
		}
	}

	if withDrafts {
		fmt.Fprintf(out, "\n--- Negotiation Brief ---\n%s\n", resp.Brief)
		fmt.Fprintf(out, "\n--- Client Email ---\n%s\n", resp.ClientEmail)
	}
	return nil
}
