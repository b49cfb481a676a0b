// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getgsa/getgsa/services/analyzer/rulepack"
)

func runRulesCommand(cmd *cobra.Command, args []string) error {
	pack, err := rulepack.New()
	if err != nil {
		return fmt.Errorf("loading rule pack: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, rule := range pack.Rules() {
		fmt.Fprintf(out, "%s  %s\n", rule.ID, rule.Title)
		fmt.Fprintf(out, "    %s\n", rule.RetrievalText)
	}
	return nil
}
