// Package memory provides in-memory implementations of the groundwork
// driven ports. They back the CLI and MCP tests and runs with
// GROUNDWORK_EPHEMERAL set, and follow the same contracts as the SQLite
// stores.
package memory
