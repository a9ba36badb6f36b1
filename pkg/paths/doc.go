// Package paths provides centralized path handling for enzyme.
//
// The history store, the log file and the user configuration all live in
// platform application-data locations. This package resolves them through the
// XDG Base Directory specification and hides the lookup behind the Paths
// interface so tests can redirect everything to a temporary directory.
//
// # Environment Variables
//
//   - ENZYME_DATA_DIR: Override XDG data directory (default: $XDG_DATA_HOME/enzyme)
//   - ENZYME_CONFIG_DIR: Override XDG config directory (default: $XDG_CONFIG_HOME/enzyme)
//   - ENZYME_STATE_DIR: Override XDG state directory (default: $XDG_STATE_HOME/enzyme)
//
// # Usage
//
//	p, err := paths.New()
//	if err != nil {
//	    return err
//	}
//	historyFile := p.HistoryPath() // $XDG_DATA_HOME/enzyme/state.json
//
// Tests use NewWithBase to root every directory under a single temp dir.
package paths
