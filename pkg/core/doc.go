// Package core wires the enzyme pipeline together.
//
// PlanInstall loads a manifest, obtains the host environment (probed live or
// read from a snapshot) and selects a mode. Install runs that plan through
// the executor and appends exactly one record to the history store.
//
// Validation and planning failures abort before anything touches the host
// and nothing is recorded for them. Once execution starts the outcome is
// always recorded, success or failure, and a history store that cannot be
// written is logged and otherwise ignored.
package core
