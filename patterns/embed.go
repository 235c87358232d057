// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package patterns embeds the default recognizer definitions.
package patterns

import _ "embed"

//go:embed recognizers.yaml
var recognizersYAML []byte

// RecognizersYAML returns the embedded default pattern recognizers.
func RecognizersYAML() []byte { return recognizersYAML }
