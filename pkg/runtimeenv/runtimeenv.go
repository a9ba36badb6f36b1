// Package runtimeenv prepares the interpreter environment a manifest asks
// for before any step runs, and describes the environment variables Run
// steps need to use it.
package runtimeenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/spf13/afero"
)

// DefaultNodeStrategy is used when a node_local runtime names none
const DefaultNodeStrategy = "local_bundle_or_global"

// Options injects host access. Zero fields use the real host.
type Options struct {
	Fs       afero.Fs
	LookPath func(file string) (string, error)
	// Command runs a program to completion; used to create venvs
	Command func(ctx context.Context, name string, args ...string) error
	Getwd   func() (string, error)
}

// Context holds the overrides Run steps execute with
type Context struct {
	Env          map[string]string
	PathPrefixes []string
}

// Prepare sets up plan.RuntimeEnv. It returns nil when the plan declares
// none.
func Prepare(ctx context.Context, plan types.InstallPlan, opts Options) (*Context, error) {
	rt := plan.RuntimeEnv
	if rt == nil {
		return nil, nil
	}

	logger := logging.GetLogger("runtimeenv")
	opts = opts.withDefaults()

	root, err := resolveRoot(rt.Root, opts.Getwd)
	if err != nil {
		return nil, err
	}

	rc := &Context{Env: map[string]string{}}
	switch rt.Type {
	case types.RuntimeEnvNodeLocal:
		err = prepareNode(rt, root, plan.OS, opts, rc)
	case types.RuntimeEnvPythonVenv:
		err = preparePython(ctx, root, plan.OS, opts, rc)
	default:
		err = fmt.Errorf("unsupported runtime env type %q", rt.Type)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuntimeEnv, "preparing %s runtime", rt.Type).
			WithDetail("root", root)
	}

	logger.Info().
		Str("type", string(rt.Type)).
		Str("root", root).
		Strs("path_prefixes", rc.PathPrefixes).
		Msg("Runtime environment ready")
	return rc, nil
}

func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.LookPath == nil {
		o.LookPath = exec.LookPath
	}
	if o.Command == nil {
		o.Command = func(ctx context.Context, name string, args ...string) error {
			logging.LogCommand(name, args)
			c := exec.CommandContext(ctx, name, args...)
			c.Stdout = os.Stderr
			c.Stderr = os.Stderr
			return c.Run()
		}
	}
	if o.Getwd == nil {
		o.Getwd = os.Getwd
	}
	return o
}

func resolveRoot(root string, getwd func() (string, error)) (string, error) {
	if filepath.IsAbs(root) {
		return root, nil
	}
	cwd, err := getwd()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrRuntimeEnv, "resolving runtime_env root")
	}
	return filepath.Join(cwd, root), nil
}

func exeName(name, platform string) string {
	if platform == types.PlatformWindows {
		return name + ".exe"
	}
	return name
}

func prepareNode(rt *types.RuntimeEnv, root, platform string, opts Options, rc *Context) error {
	nodeRoot := filepath.Join(root, "node")
	if err := opts.Fs.MkdirAll(nodeRoot, 0755); err != nil {
		return fmt.Errorf("creating node runtime at %s: %w", nodeRoot, err)
	}

	binDir := filepath.Join(nodeRoot, "bin")
	if exists, _ := afero.Exists(opts.Fs, filepath.Join(binDir, exeName("node", platform))); exists {
		rc.PathPrefixes = append(rc.PathPrefixes, binDir)
		return nil
	}

	strategy := DefaultNodeStrategy
	if rt.Node != nil && rt.Node.InstallStrategy != "" {
		strategy = rt.Node.InstallStrategy
	}
	if strings.Contains(strategy, "global") {
		if _, err := opts.LookPath("node"); err == nil {
			return nil
		}
	}

	return fmt.Errorf("node runtime not available locally and no compatible global installation found")
}

func preparePython(ctx context.Context, root, platform string, opts Options, rc *Context) error {
	venvDir := filepath.Join(root, "venv")
	binDir := filepath.Join(venvDir, "bin")
	if platform == types.PlatformWindows {
		binDir = filepath.Join(venvDir, "Scripts")
	}

	python := filepath.Join(binDir, exeName("python", platform))
	if exists, _ := afero.Exists(opts.Fs, python); !exists {
		if err := createVenv(ctx, venvDir, platform, opts); err != nil {
			return err
		}
	}

	rc.Env["VIRTUAL_ENV"] = venvDir
	rc.PathPrefixes = append(rc.PathPrefixes, binDir)
	return nil
}

func createVenv(ctx context.Context, venvDir, platform string, opts Options) error {
	if err := opts.Fs.MkdirAll(filepath.Dir(venvDir), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(venvDir), err)
	}

	primary := "python3"
	if platform == types.PlatformWindows {
		primary = "py"
	}

	err := opts.Command(ctx, primary, "-m", "venv", venvDir)
	if err == nil {
		return nil
	}
	logger := logging.GetLogger("runtimeenv")
	logger.Debug().Err(err).Str("python", primary).Msg("venv creation failed, retrying with python")

	if err := opts.Command(ctx, "python", "-m", "venv", venvDir); err != nil {
		return fmt.Errorf("failed to create python virtual environment: %w", err)
	}
	return nil
}

// Environ merges the overrides into the current process environment
func (c *Context) Environ() []string {
	return c.Merge(os.Environ())
}

// Merge applies the overrides to base, a KEY=VALUE list. PATH prefixes are
// placed ahead of the existing PATH. A nil Context returns base unchanged.
func (c *Context) Merge(base []string) []string {
	if c == nil {
		return base
	}

	overrides := make(map[string]string, len(c.Env)+1)
	for k, v := range c.Env {
		overrides[k] = v
	}

	pathKey := "PATH"
	existingPath := ""
	for _, kv := range base {
		k, v, _ := strings.Cut(kv, "=")
		if strings.EqualFold(k, "PATH") {
			pathKey, existingPath = k, v
		}
	}
	if len(c.PathPrefixes) > 0 {
		segments := append([]string{}, c.PathPrefixes...)
		if existingPath != "" {
			segments = append(segments, existingPath)
		}
		overrides[pathKey] = strings.Join(segments, string(filepath.ListSeparator))
	}

	out := make([]string, 0, len(base)+len(overrides))
	for _, kv := range base {
		k, _, _ := strings.Cut(kv, "=")
		if _, ok := overrides[k]; ok {
			continue
		}
		out = append(out, kv)
	}

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+overrides[k])
	}
	return out
}
