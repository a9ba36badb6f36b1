package types

import "time"

// PlannedStep is a step positioned in a plan
type PlannedStep struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Command     string `json:"command,omitempty"`
	Step        Step   `json:"-"`
}

// InstallPlan is the selected mode's steps for the host platform
type InstallPlan struct {
	AppName    string        `json:"app_name"`
	AppVersion string        `json:"app_version"`
	ChosenMode string        `json:"chosen_mode"`
	OS         string        `json:"os"`
	Steps      []PlannedStep `json:"steps"`
	RuntimeEnv *RuntimeEnv   `json:"runtime_env,omitempty"`
}

// ExecutionResult counts the steps that completed
type ExecutionResult struct {
	CompletedSteps int `json:"completed_steps"`
	TotalSteps     int `json:"total_steps"`
}

// Succeeded reports whether every step completed
func (r ExecutionResult) Succeeded() bool {
	return r.CompletedSteps == r.TotalSteps
}

// InstallStatus is the outcome recorded for a run
type InstallStatus string

const (
	InstallStatusSuccess InstallStatus = "success"
	InstallStatusFailed  InstallStatus = "failed"
)

// InstallRecord is one history entry
type InstallRecord struct {
	AppName    string        `json:"app_name"`
	AppVersion string        `json:"app_version"`
	Mode       string        `json:"mode"`
	OS         string        `json:"os"`
	CPUArch    string        `json:"cpu_arch"`
	Timestamp  time.Time     `json:"timestamp"`
	Status     InstallStatus `json:"status"`
}

// State is the persisted install history, oldest first
type State struct {
	Installs []InstallRecord `json:"installs"`
}

// NewInstallRecord builds the record for a run of plan on env
func NewInstallRecord(plan InstallPlan, env Environment, status InstallStatus, now time.Time) InstallRecord {
	return InstallRecord{
		AppName:    plan.AppName,
		AppVersion: plan.AppVersion,
		Mode:       plan.ChosenMode,
		OS:         env.OS,
		CPUArch:    env.CPUArch,
		Timestamp:  now.UTC().Truncate(time.Second),
		Status:     status,
	}
}
