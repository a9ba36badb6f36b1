// Package planner chooses the installation mode for a host and turns it
// into an InstallPlan.
//
// Every mode is checked in manifest iteration order. A mode is compatible
// when it has steps for the host OS and its requirements (OS family and
// minimum version, CPU architecture, RAM) are all met. Among compatible
// modes one literally named "full" always wins; otherwise the mode with
// the largest RAM requirement is chosen, the first one on ties.
package planner
