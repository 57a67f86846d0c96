package fieldsetup

import (
	_ "embed"
	"fmt"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/rws/go-ishremote/enums"
)

//go:embed catalog.yaml
var bundledCatalog []byte

type catalogGroup struct {
	ISHTypes []enums.ISHType `yaml:"ishtypes"`
	Fields   []Definition    `yaml:"fields"`
}

// Static returns a Setup loaded from the bundled field catalog.
func Static(logger *slog.Logger) (*Setup, error) {
	return LoadCatalog(logger, bundledCatalog)
}

// LoadCatalog builds a Setup from a YAML catalog: a list of groups, each
// applying its field definitions to every listed ishtype.
func LoadCatalog(logger *slog.Logger, data []byte) (*Setup, error) {
	var groups []catalogGroup
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("parse field catalog: %w", err)
	}
	s := New(logger)
	for i, g := range groups {
		for _, t := range g.ISHTypes {
			if _, err := enums.ParseISHType(string(t)); err != nil {
				return nil, fmt.Errorf("field catalog group %d: %w", i, err)
			}
			for _, d := range g.Fields {
				if _, err := enums.ParseLevel(string(d.Level)); err != nil {
					return nil, fmt.Errorf("field catalog %s.%s: %w", t, d.Name, err)
				}
				d.ISHType = t
				s.AddOrUpdate(d)
			}
		}
	}
	return s, nil
}

// MarshalCatalog writes definitions in the single-ishtype catalog form
// accepted by LoadCatalog.
func MarshalCatalog(defs []Definition) ([]byte, error) {
	var groups []catalogGroup
	index := map[enums.ISHType]int{}
	for _, d := range defs {
		i, ok := index[d.ISHType]
		if !ok {
			i = len(groups)
			index[d.ISHType] = i
			groups = append(groups, catalogGroup{ISHTypes: []enums.ISHType{d.ISHType}})
		}
		d.ISHType = ""
		groups[i].Fields = append(groups[i].Fields, d)
	}
	return yaml.Marshal(groups)
}
