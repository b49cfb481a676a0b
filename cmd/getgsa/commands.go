// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	outputJSON  bool
	withDrafts  bool
	typeHint    string
	logLevelStr string

	rootCmd = &cobra.Command{
		Use:   "getgsa",
		Short: "A cli for GSA onboarding compliance analysis",
		Long: `GetGSA analyzes procurement documents for GSA onboarding
compliance: it redacts PII, extracts structured fields, retrieves the
applicable rules, and produces a cited pass/fail checklist.`,
	}

	analyzeCmd = &cobra.Command{
		Use:   "analyze [file...]",
		Short: "Analyze local documents and print the compliance checklist",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyzeCommand, // Defined in cmd_analyze.go
	}

	rulesCmd = &cobra.Command{
		Use:   "rules",
		Short: "List the rules in the embedded GSA rule pack",
		RunE:  runRulesCommand, // Defined in cmd_rules.go
	}
)

func init() {
	analyzeCmd.Flags().BoolVar(&outputJSON, "json", false, "emit the full response as JSON")
	analyzeCmd.Flags().BoolVar(&withDrafts, "drafts", false, "include the negotiation brief and client email")
	analyzeCmd.Flags().StringVar(&typeHint, "type-hint", "", "classification hint applied to every file")
	rootCmd.PersistentFlags().StringVar(&logLevelStr, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(rulesCmd)
}
