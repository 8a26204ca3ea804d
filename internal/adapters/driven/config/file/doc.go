// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps groundwork settings in a TOML file, by default
// ~/.groundwork/config.toml, with one table per settings group:
//
//	[chunking]
//	window = 1200
//	overlap = 200
//
//	[retrieval]
//	top_k = 5
package file
