package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/types"
	"mvdan.cc/sh/v3/syntax"
)

// ValidationError describes why a manifest was rejected. Mode and Platform
// are empty when the problem is not specific to one.
type ValidationError struct {
	Mode     string
	Platform string
	Reason   string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Mode != "" && e.Platform != "":
		return fmt.Sprintf("mode '%s', platform '%s': %s", e.Mode, e.Platform, e.Reason)
	case e.Mode != "":
		return fmt.Sprintf("mode '%s': %s", e.Mode, e.Reason)
	default:
		return e.Reason
	}
}

func invalid(mode, platform, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Mode: mode, Platform: platform, Reason: fmt.Sprintf(format, args...)}
}

// convert validates doc and builds the manifest. Modes and platforms are
// visited in sorted order so the first error reported is deterministic.
func convert(doc *document) (*types.Manifest, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return nil, invalid("", "", "manifest missing required field: name")
	}
	if strings.TrimSpace(doc.Version) == "" {
		return nil, invalid("", "", "manifest missing required field: version")
	}
	if len(doc.Modes) == 0 {
		return nil, invalid("", "", "manifest has no modes defined")
	}

	m := &types.Manifest{
		Name:    doc.Name,
		Version: doc.Version,
		Modes:   make(map[string]types.Mode, len(doc.Modes)),
	}

	for _, name := range sortedKeys(doc.Modes) {
		mode, err := convertMode(name, doc.Modes[name])
		if err != nil {
			return nil, err
		}
		m.Modes[name] = mode
	}

	if doc.RuntimeEnv != nil {
		rt, err := convertRuntimeEnv(doc.RuntimeEnv)
		if err != nil {
			return nil, err
		}
		m.RuntimeEnv = rt
	}

	return m, nil
}

func convertMode(name string, doc modeDocument) (types.Mode, error) {
	if len(doc.Steps) == 0 {
		return types.Mode{}, invalid(name, "", "no steps defined for any platform")
	}

	mode := types.Mode{Steps: make(map[string][]types.Step, len(doc.Steps))}

	if doc.Requirements != nil {
		req, err := convertRequirements(name, doc.Requirements)
		if err != nil {
			return types.Mode{}, err
		}
		mode.Requirements = req
	}

	platforms := make([]string, 0, len(doc.Steps))
	for p := range doc.Steps {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)

	for _, platform := range platforms {
		stepDocs := doc.Steps[platform]
		if len(stepDocs) == 0 {
			return types.Mode{}, invalid(name, platform, "no steps for platform")
		}
		if !types.IsKnownPlatform(platform) {
			return types.Mode{}, invalid(name, platform, "unsupported platform '%s'", platform)
		}

		steps := make([]types.Step, 0, len(stepDocs))
		for i, sd := range stepDocs {
			step, err := convertStep(sd, platform)
			if err != nil {
				return types.Mode{}, invalid(name, platform, "step %d: %v", i+1, err)
			}
			steps = append(steps, step)
		}
		mode.Steps[platform] = steps
	}

	return mode, nil
}

func convertRequirements(mode string, doc *requirementsDocument) (*types.Requirements, error) {
	req := &types.Requirements{RAMGB: doc.RAMGB}

	for _, raw := range doc.OS {
		c, err := types.ParseOsConstraint(raw)
		if err != nil {
			return nil, invalid(mode, "", "invalid requirement: %v", err)
		}
		if !types.IsKnownPlatform(c.Family) {
			return nil, invalid(mode, "", "invalid requirement: unsupported os family '%s'", c.Family)
		}
		req.OS = append(req.OS, c)
	}

	for _, arch := range doc.CPUArch {
		if strings.TrimSpace(arch) == "" {
			return nil, invalid(mode, "", "invalid requirement: cpu_arch entries must not be empty")
		}
		req.CPUArch = append(req.CPUArch, arch)
	}

	return req, nil
}

func convertStep(doc stepDocument, platform string) (types.Step, error) {
	switch doc.keyCount() {
	case 0:
		return nil, fmt.Errorf("step must define one of run, download, extract, template_config")
	case 1:
	default:
		return nil, fmt.Errorf("step defines more than one action")
	}

	switch {
	case doc.Run != nil:
		cmd := *doc.Run
		if strings.TrimSpace(cmd) == "" {
			return nil, fmt.Errorf("run command cannot be empty")
		}
		if platform != types.PlatformWindows {
			if err := CheckShellSyntax(cmd); err != nil {
				return nil, err
			}
		}
		return types.RunStep{Cmd: cmd}, nil

	case doc.Download != nil:
		d := doc.Download
		if strings.TrimSpace(d.URL) == "" || strings.TrimSpace(d.Dest) == "" {
			return nil, fmt.Errorf("download requires url and dest")
		}
		return types.DownloadStep{URL: d.URL, Dest: d.Dest}, nil

	case doc.Extract != nil:
		e := doc.Extract
		if strings.TrimSpace(e.Archive) == "" || strings.TrimSpace(e.Dest) == "" {
			return nil, fmt.Errorf("extract requires archive and dest")
		}
		return types.ExtractStep{Archive: e.Archive, Dest: e.Dest}, nil

	default:
		tc := doc.TemplateConfig
		if strings.TrimSpace(tc.Source) == "" || strings.TrimSpace(tc.Dest) == "" {
			return nil, fmt.Errorf("template_config requires source and dest")
		}
		vars := make(map[string]string, len(tc.Vars))
		for k, v := range tc.Vars {
			vars[k] = v
		}
		return types.TemplateConfigStep{Source: tc.Source, Dest: tc.Dest, Vars: vars}, nil
	}
}

func convertRuntimeEnv(doc *runtimeEnvDocument) (*types.RuntimeEnv, error) {
	rt := &types.RuntimeEnv{Type: types.RuntimeEnvType(doc.Type), Root: doc.Root}
	switch rt.Type {
	case types.RuntimeEnvNodeLocal, types.RuntimeEnvPythonVenv:
	default:
		return nil, invalid("", "", "runtime_env.type must be %q or %q, got %q",
			types.RuntimeEnvNodeLocal, types.RuntimeEnvPythonVenv, doc.Type)
	}
	if strings.TrimSpace(rt.Root) == "" {
		return nil, invalid("", "", "runtime_env.root must not be empty")
	}
	if doc.Node != nil {
		rt.Node = &types.NodeRuntime{InstallStrategy: doc.Node.InstallStrategy}
	}
	return rt, nil
}

// CheckShellSyntax reports whether cmd parses as a shell program
func CheckShellSyntax(cmd string) error {
	_, err := syntax.NewParser().Parse(strings.NewReader(cmd), "")
	if err != nil {
		return fmt.Errorf("run command is not valid shell: %w", err)
	}
	return nil
}

func sortedKeys(m map[string]modeDocument) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
