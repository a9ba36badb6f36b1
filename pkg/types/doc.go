// Package types defines the data model shared by the enzyme packages:
// the host Environment, the application Manifest with its modes and
// requirements, the closed set of Step kinds, the InstallPlan produced by
// the planner and the InstallRecord kept in history.
package types
