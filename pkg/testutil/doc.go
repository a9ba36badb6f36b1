// Package testutil provides utilities for testing enzyme components.
//
// Key components:
//   - IsolatePaths: points every enzyme directory at a per-test temp dir
//   - Environment and WriteSnapshot: host descriptions for planning tests
//   - ManifestBuilder: declarative manifest setup written to disk
//   - MockRunner and MockStore: testify mocks for shell.Runner and history.Store
//
// All test data should be defined inline, not in external files.
package testutil
