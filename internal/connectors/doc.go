// Package connectors holds the adapters that bring documents into
// groundwork. The filesystem connector implements the inbox and done
// directory contract used by ingestion.
package connectors
