// Package executor carries out an InstallPlan.
//
// Steps run strictly in plan order. The first failing step stops the run
// with a StepFailedError carrying its index; later steps are never
// attempted and nothing already done is rolled back. Run steps go through
// a shell.Runner, downloads through an http.Client and all file writes
// through an afero.Fs, so each side effect can be replaced in tests.
package executor
