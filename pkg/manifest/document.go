package manifest

// The document types mirror the on-disk layout. They are decoded first and
// then converted, so that format-specific quirks stay out of pkg/types.

type document struct {
	Name       string                  `json:"name" yaml:"name" toml:"name"`
	Version    string                  `json:"version" yaml:"version" toml:"version"`
	Modes      map[string]modeDocument `json:"modes" yaml:"modes" toml:"modes"`
	RuntimeEnv *runtimeEnvDocument     `json:"runtime_env,omitempty" yaml:"runtime_env,omitempty" toml:"runtime_env,omitempty"`
}

type modeDocument struct {
	Requirements *requirementsDocument    `json:"requirements,omitempty" yaml:"requirements,omitempty" toml:"requirements,omitempty"`
	Steps        map[string][]stepDocument `json:"steps" yaml:"steps" toml:"steps"`
}

type requirementsDocument struct {
	OS      []string `json:"os,omitempty" yaml:"os,omitempty" toml:"os,omitempty"`
	CPUArch []string `json:"cpu_arch,omitempty" yaml:"cpu_arch,omitempty" toml:"cpu_arch,omitempty"`
	RAMGB   *uint64  `json:"ram_gb,omitempty" yaml:"ram_gb,omitempty" toml:"ram_gb,omitempty"`
}

// stepDocument must have exactly one field set
type stepDocument struct {
	Run            *string           `json:"run,omitempty" yaml:"run,omitempty" toml:"run,omitempty"`
	Download       *downloadDocument `json:"download,omitempty" yaml:"download,omitempty" toml:"download,omitempty"`
	Extract        *extractDocument  `json:"extract,omitempty" yaml:"extract,omitempty" toml:"extract,omitempty"`
	TemplateConfig *templateDocument `json:"template_config,omitempty" yaml:"template_config,omitempty" toml:"template_config,omitempty"`
}

type downloadDocument struct {
	URL  string `json:"url" yaml:"url" toml:"url"`
	Dest string `json:"dest" yaml:"dest" toml:"dest"`
}

type extractDocument struct {
	Archive string `json:"archive" yaml:"archive" toml:"archive"`
	Dest    string `json:"dest" yaml:"dest" toml:"dest"`
}

type templateDocument struct {
	Source string            `json:"source" yaml:"source" toml:"source"`
	Dest   string            `json:"dest" yaml:"dest" toml:"dest"`
	Vars   map[string]string `json:"vars,omitempty" yaml:"vars,omitempty" toml:"vars,omitempty"`
}

type runtimeEnvDocument struct {
	Type string        `json:"type" yaml:"type" toml:"type"`
	Root string        `json:"root" yaml:"root" toml:"root"`
	Node *nodeDocument `json:"node,omitempty" yaml:"node,omitempty" toml:"node,omitempty"`
}

type nodeDocument struct {
	InstallStrategy string `json:"install_strategy,omitempty" yaml:"install_strategy,omitempty" toml:"install_strategy,omitempty"`
}

func (s stepDocument) keyCount() int {
	n := 0
	if s.Run != nil {
		n++
	}
	if s.Download != nil {
		n++
	}
	if s.Extract != nil {
		n++
	}
	if s.TemplateConfig != nil {
		n++
	}
	return n
}
