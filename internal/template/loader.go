// Package template loads the declarative dashboard document and keeps the
// current snapshot available to readers.
package template

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/GregMSThompson/dashboard-backend/internal/models"
)

//go:embed default.yaml
var defaultDocument []byte

// Default returns the built-in document used when no file is configured.
func Default() *models.TemplateConfig {
	cfg, err := Parse(defaultDocument, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("template: built-in document is invalid: %v", err))
	}
	return cfg
}

type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFor picks the decoder from a file extension. Anything that is not
// .json is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes a document. Order values may be "row-col" strings or numbers
// in either format.
func Parse(data []byte, format Format) (*models.TemplateConfig, error) {
	var cfg models.TemplateConfig
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("decode json template: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("decode yaml template: %w", err)
		}
	}
	return &cfg, nil
}

// Load reads and parses the document at path.
func Load(path string) (*models.TemplateConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	return Parse(data, FormatFor(path))
}
