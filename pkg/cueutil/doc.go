// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates CUE documents against an embedded schema and
// formats CUE errors with JSON-path prefixes.
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	m, err := cueutil.DecodeMap(schema, data, "#Config", cueutil.WithFilename("config.cue"))
package cueutil
