package manifest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/logging"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a manifest serialisation
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks a format from the file extension, defaulting to JSON
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Load reads, decodes and validates the manifest at path
func Load(path string) (*types.Manifest, error) {
	logger := logging.GetLogger("manifest")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestRead, "reading manifest at %s", path).
			WithDetail("path", path)
	}

	m, err := Parse(data, FormatFromPath(path))
	if err != nil {
		if ee, ok := err.(*errors.EnzymeError); ok {
			ee.WithDetail("path", path)
		}
		return nil, err
	}

	logger.Debug().
		Str("path", path).
		Str("app", m.Name).
		Int("modes", len(m.Modes)).
		Msg("Manifest loaded")
	return m, nil
}

// Parse decodes data in the given format and validates the result
func Parse(data []byte, format Format) (*types.Manifest, error) {
	var doc document
	if err := decode(data, format, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse, "parsing %s manifest", format).
			WithDetail("format", string(format))
	}

	m, err := convert(&doc)
	if err != nil {
		ee := errors.Wrap(err, errors.ErrManifestInvalid, "validating manifest")
		if ve, ok := err.(*ValidationError); ok {
			ee.WithDetail("validation", ve)
		}
		return nil, ee
	}
	return m, nil
}

func decode(data []byte, format Format, doc *document) error {
	switch format {
	case FormatYAML:
		return yaml.Unmarshal(data, doc)
	case FormatTOML:
		return toml.Unmarshal(data, doc)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		return dec.Decode(doc)
	}
}
