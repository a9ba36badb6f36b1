package cli

// Command descriptions
const (
	MsgRootShort = "Install applications from declarative manifests"
	MsgRootLong  = `enzyme reads an application manifest, checks which of its install modes
the current machine can run, and executes the chosen mode's steps in order.
Every install that reaches execution is recorded in a local history.`

	MsgDetectShort    = "Show the detected host environment"
	MsgPlanShort      = "Show which mode and steps would be used for a manifest"
	MsgInstallShort   = "Install an application from its manifest"
	MsgHistoryShort   = "Show recorded installs"
	MsgGenconfigShort = "Print a commented default configuration"
	MsgVersionShort   = "Print version information"
	MsgManShort       = "Generate man pages into a directory"

	MsgInstallLong = `Install plans the manifest against this machine and runs the chosen mode's
steps one after another, stopping at the first failure. The outcome is
appended to the install history whether it succeeded or not.

Use --dry-run to stop after planning. Together with --dry-run, --env plans
against a saved environment snapshot (the JSON output of "enzyme detect")
instead of this machine.`

	// Version output
	MsgVersionFormat = "enzyme version %s\n"
	MsgCommitFormat  = "Commit: %s\n"
	MsgBuiltFormat   = "Built:  %s\n"

	// Status messages
	MsgConfigWritten     = "Wrote default configuration to %s"
	MsgConfigExists      = "configuration file %s already exists"
	MsgManWritten        = "Wrote man pages to %s"
	MsgFollowing         = "Watching %s for new installs (Ctrl-C to stop)"
	MsgErrUnknownShell   = "invalid --shell: %w"
	MsgErrEnvNeedsDryRun = "--env plans for another machine and can only be used with --dry-run"
)
