// Package config loads host settings from TOML: which registry presets and
// documents to load, the compact designations, an optional semantic
// version constraint on the documents, a registry snapshot path, the
// decoder depth limit and logging.
//
// Example:
//
//	presets    = ["substrate", "utxo"]
//	files      = ["extra-types.json"]
//	compact    = ["Value"]
//	version    = ">= 1.0.0, < 2.0.0"
//	snapshot   = "registry.snap"
//	max_depth  = 128
//	log_level  = "debug"
//	log_format = "json"
package config
