package columns

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML alias table and merges it over the defaults. The
// file has the same shape as Aliases:
//
//	customerName:
//	  - Customer Name
//	  - Party Name
func LoadFile(path string) (Aliases, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read alias file")
	}

	var override Aliases
	if err := yaml.Unmarshal(blob, &override); err != nil {
		return nil, errors.Wrapf(err, "parse alias file %s", path)
	}
	for field, names := range override {
		if strings.TrimSpace(field) == "" {
			return nil, errors.Errorf("alias file %s: empty field name", path)
		}
		for _, name := range names {
			if strings.TrimSpace(name) == "" {
				return nil, errors.Errorf("alias file %s: blank alias for %s", path, field)
			}
		}
	}

	return DefaultAliases().Merge(override), nil
}

// Load returns the default table, or the merged table when path is set.
func Load(path string) (Aliases, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultAliases(), nil
	}
	return LoadFile(path)
}
