package scanner

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPresetName is used when a preset key is empty or unknown.
const DefaultPresetName = "default"

//go:embed presets.yaml
var builtinPresets []byte

// Preset is a named set of include/exclude rules for a scan.
type Preset struct {
	// Include globs select files whose content is emitted.
	Include []string `yaml:"include"`
	// Exclude globs drop files even when they match Include.
	Exclude []string `yaml:"exclude"`
	// IncludeInTree globs add files to the tree listing without their content.
	IncludeInTree []string `yaml:"include_in_tree"`
	// TreeOnly emits only the directory tree.
	TreeOnly bool `yaml:"tree_only"`
}

// Presets maps preset keys to their rules.
type Presets map[string]Preset

type presetFile struct {
	Presets Presets `yaml:"presets"`
}

// DefaultPresets returns the presets compiled into the binary.
func DefaultPresets() (Presets, error) {
	return parsePresets(builtinPresets)
}

// LoadPresets returns the built-in presets overlaid with the presets defined
// in the YAML file at path. An empty path returns the built-in presets.
func LoadPresets(path string) (Presets, error) {
	presets, err := DefaultPresets()
	if err != nil {
		return nil, fmt.Errorf("parsing built-in presets: %w", err)
	}
	if path == "" {
		return presets, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets file: %w", err)
	}
	user, err := parsePresets(data)
	if err != nil {
		return nil, fmt.Errorf("parsing presets file %s: %w", path, err)
	}
	for name, p := range user {
		presets[name] = p
	}
	return presets, nil
}

// Lookup returns the preset for key and the name actually used. Empty and
// unknown keys resolve to the default preset.
func (p Presets) Lookup(key string) (Preset, string) {
	if preset, ok := p[key]; ok && key != "" {
		return preset, key
	}
	return p[DefaultPresetName], DefaultPresetName
}

func parsePresets(data []byte) (Presets, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Presets == nil {
		f.Presets = Presets{}
	}
	return f.Presets, nil
}
