package environment

import (
	"encoding/json"
	"os"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/types"
)

// LoadSnapshot reads an Environment saved as JSON (the output of
// `enzyme detect --output json`). A missing fingerprint is recomputed.
func LoadSnapshot(path string) (types.Environment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Environment{}, errors.Wrapf(err, errors.ErrEnvSnapshot, "reading environment snapshot %s", path).
			WithDetail("path", path)
	}

	var env types.Environment
	if err := json.Unmarshal(data, &env); err != nil {
		return types.Environment{}, errors.Wrapf(err, errors.ErrEnvSnapshot, "parsing environment snapshot %s", path).
			WithDetail("path", path)
	}
	if env.OS == "" {
		return types.Environment{}, errors.Newf(errors.ErrEnvSnapshot, "environment snapshot %s has no os", path).
			WithDetail("path", path)
	}
	if env.PkgManagers == nil {
		env.PkgManagers = []string{}
	}
	if env.Fingerprint == "" {
		env.Fingerprint = Fingerprint(env)
	}
	return env, nil
}
