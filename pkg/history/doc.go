// Package history records the outcome of every install run.
//
// The default JSONStore keeps an append-only list in a single JSON file
// that is rewritten wholesale on each append through a temp file and an
// atomic rename. Concurrent appenders are serialised with a lock file next
// to the history file; with locking disabled two racing installs can lose
// one of their records. SQLiteStore is an alternative backend for hosts
// that install often.
package history
