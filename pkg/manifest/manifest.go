// Package manifest loads package name lists from manifest files and
// validates package names.
//
// Three formats are supported, selected by file extension: YAML files with
// a "published" or "packages" key, JSON files holding an array of names or
// an object whose keys are names, and plain-text files with one name per
// line. Names are validated against PyPI naming rules before they are
// returned.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/shakfu/pkgdb/pkg/errors"
)

const maxNameLength = 100

// nameRE follows PEP 508: letters, digits, dots, hyphens, and underscores,
// starting and ending with an alphanumeric character.
var nameRE = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9._-]*[a-zA-Z0-9])?$`)

// ValidateName checks that name is a well-formed package name.
func ValidateName(name string) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidPackage, "package name is empty")
	}
	if len(name) > maxNameLength {
		return errors.New(errors.ErrCodeInvalidPackage, "package name %q exceeds %d characters", name, maxNameLength)
	}
	if !nameRE.MatchString(name) {
		return errors.New(errors.ErrCodeInvalidPackage, "invalid package name %q", name)
	}
	return nil
}

// Normalize lowercases a package name and collapses runs of separators to a
// single hyphen, matching how PyPI treats name equivalence.
func Normalize(name string) string {
	return strings.ToLower(regexp.MustCompile(`[-_.]+`).ReplaceAllString(name, "-"))
}

// Load reads package names from a manifest file. The format is determined
// by extension; anything other than .yml, .yaml, or .json is treated as
// plain text.
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "manifest file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "reading manifest")
	}

	var names []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		names, err = parseYAML(data)
	case ".json":
		names, err = parseJSON(data)
	default:
		names = parseText(data)
	}
	if err != nil {
		return nil, err
	}

	names = lo.Uniq(names)
	for _, name := range names {
		if err := ValidateName(name); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func parseYAML(data []byte) ([]string, error) {
	var doc struct {
		Published []string `yaml:"published"`
		Packages  []string `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing YAML manifest")
	}
	if len(doc.Published) > 0 {
		return doc.Published, nil
	}
	if len(doc.Packages) > 0 {
		return doc.Packages, nil
	}

	// Fall back to a bare list document.
	var list []string
	if err := yaml.Unmarshal(data, &list); err == nil && len(list) > 0 {
		return list, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat,
		"YAML manifest has no published or packages key")
}

func parseJSON(data []byte) ([]string, error) {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	// Object form: keys are package names.
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing JSON manifest")
	}
	return lo.Keys(obj), nil
}

func parseText(data []byte) []string {
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}
