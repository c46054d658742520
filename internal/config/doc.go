// Package config loads, normalizes, and validates cinebox configuration.
//
// Configuration is TOML with a sample file embedded for `cinebox config
// init`. Load applies defaults first, then file values, then normalization
// (path expansion, environment API key override) and validation. Pipeline
// components receive the resolved Config explicitly; nothing below cmd/
// reads the process environment.
package config
