// Copyright (C) 2025 GetGSA (engineering@getgsa.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
This file bridges the build system and the runtime rule pack. The Go embed
package bakes gsa_rules.yaml directly into the compiled binary, so the rule
definitions are immutable at runtime and travel with the executable.
*/

package enforcement

import (
	_ "embed"
)

// RuleDefinitions holds the raw byte content of gsa_rules.yaml.
//
// Populated at compile time via the Go embed directive. Pass these bytes
// directly to yaml.Unmarshal when constructing the rule pack.
//
//go:embed gsa_rules.yaml
var RuleDefinitions []byte
