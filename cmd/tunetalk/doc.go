// Package main hosts the tunetalk CLI entrypoint and command graph.
//
// The Cobra command tree wires configuration, logging and the internal
// packages together: `ingest` walks a playlist and writes comment tables,
// `status` reads the ingestion ledger, `lyrics` shows the reference corpus
// used for echo suppression, and `stats` runs the downstream loader over a
// table directory. Keep heavy lifting in internal packages; commands here
// only resolve configuration and render results.
package main
