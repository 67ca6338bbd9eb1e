package main

import (
	_ "embed"
	"os"
	"strings"
	"unicode"

	"github.com/gbcolborne/ner-eval/tags"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed configs/conll2003.yaml
var defaultLabelMap []byte

// LabelMapConfig is the YAML configuration of the map-labels command.
type LabelMapConfig struct {
	Map map[string]string `yaml:"map"`
}

// ParseLabelMap parses and validates a YAML label map.
func ParseLabelMap(data []byte) (tags.TypeMap, error) {
	var cfg LabelMapConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing label map")
	}
	if len(cfg.Map) == 0 {
		return nil, errors.New("label map is empty")
	}
	for from, to := range cfg.Map {
		if !validType(from) || !validType(to) {
			return nil, errors.Errorf("invalid label map entry %q: %q", from, to)
		}
	}
	return tags.TypeMap(cfg.Map), nil
}

// LoadLabelMap reads the label map at path, or the default CoNLL-2003 map if path is empty.
func LoadLabelMap(path string) (tags.TypeMap, error) {
	if path == "" {
		return ParseLabelMap(defaultLabelMap)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading label map %q", path)
	}
	m, err := ParseLabelMap(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "label map %q", path)
	}
	return m, nil
}

func validType(etype string) bool {
	return etype != "" && strings.IndexFunc(etype, unicode.IsSpace) < 0
}
