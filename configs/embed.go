// Package configs holds the configuration template written by `evidex init`.
//
// The template is embedded at build time so binary releases carry it.
package configs

import _ "embed"

// ExampleConfig is the commented .evidex.yaml template.
//
//go:embed evidex.example.yaml
var ExampleConfig string
