package mircontext

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/graphitc/internal/mir"
)

// FileConfig is the optional backend-config sidecar (graphit.config.yaml
// by convention), grounded on the viant-linager example repo's use of
// gopkg.in/yaml.v3 to decode structured test fixtures into plain Go
// structs.
type FileConfig struct {
	ModuleName         string            `yaml:"module_name"`
	DirectionOverrides map[string]string `yaml:"direction_overrides"`
	FusionLabels       []string          `yaml:"fusion_labels"`
}

// LoadConfig reads and decodes a FileConfig from path.
func LoadConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mircontext: read config %s: %w", path, err)
	}
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("mircontext: parse config %s: %w", path, err)
	}
	return &fc, nil
}

// ApplyFileConfig merges fc into c. Calling ApplyCLIOverrides after it
// lets a caller-supplied module name win over the file's.
func (c *Context) ApplyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}
	if fc.ModuleName != "" {
		c.ModuleName = fc.ModuleName
	}
	for label, dir := range fc.DirectionOverrides {
		if d, ok := parseDirection(dir); ok {
			c.DirectionOverrides[label] = d
		}
	}
	for _, label := range fc.FusionLabels {
		c.FusionLabels[label] = true
	}
}

// ApplyCLIOverrides sets ModuleName over whatever a file config already
// set; an empty moduleName leaves the existing setting untouched.
// cmd/graphitc does not call it: its build command has no module-name
// flag.
func (c *Context) ApplyCLIOverrides(moduleName string) {
	if moduleName != "" {
		c.ModuleName = moduleName
	}
}

func parseDirection(s string) (mir.Direction, bool) {
	switch s {
	case "push":
		return mir.DirectionPush, true
	case "pull":
		return mir.DirectionPull, true
	default:
		return mir.DirectionUnresolved, false
	}
}
