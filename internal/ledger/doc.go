// Package ledger records the terminal outcome of every video the ingest
// orchestrator touches, in a small SQLite database under the state
// directory. The output tables remain the source of truth for resumption;
// the ledger exists for reporting (`tunetalk status`) and diagnosis.
package ledger
