package service

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"pagebuilder/internal/domain"
)

// Export formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Document is the nested, human-readable form of a canvas used by export.
type Document struct {
	Name       string            `json:"name" yaml:"name"`
	Grid       domain.GridConfig `json:"grid" yaml:"grid"`
	Components []DocumentNode    `json:"components" yaml:"components"`
}

// DocumentNode is one component with its children inlined.
type DocumentNode struct {
	ID       string         `json:"id" yaml:"id"`
	Type     string         `json:"type" yaml:"type"`
	Props    map[string]any `json:"props,omitempty" yaml:"props,omitempty"`
	Position *domain.Point  `json:"position,omitempty" yaml:"position,omitempty"`
	Size     *domain.Size   `json:"size,omitempty" yaml:"size,omitempty"`
	Children []DocumentNode `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewDocument nests the flat component map of st.
func NewDocument(name string, st *domain.CanvasState) Document {
	var build func(ids []string) []DocumentNode
	build = func(ids []string) []DocumentNode {
		nodes := make([]DocumentNode, 0, len(ids))
		for _, id := range ids {
			c, ok := st.Components[id]
			if !ok {
				continue
			}
			n := DocumentNode{ID: c.ID, Type: c.Type, Position: c.Position, Size: c.Size, Children: build(c.Children)}
			if len(c.Props) > 0 {
				n.Props = c.Props
			}
			nodes = append(nodes, n)
		}
		return nodes
	}
	return Document{Name: name, Grid: st.Grid, Components: build(st.RootIDs)}
}

// WriteDocument encodes doc to w as json or yaml.
func WriteDocument(w io.Writer, format string, doc Document) error {
	return WriteValue(w, format, doc)
}

// WriteValue encodes any value to w as indented json or yaml.
func WriteValue(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// Export writes the open canvas.
func (s *CanvasService) Export(w io.Writer, format string) error {
	cur, ok := s.Current()
	if !ok {
		return fmt.Errorf("export: no canvas open")
	}
	return WriteDocument(w, format, NewDocument(cur.Name, s.editor.State()))
}
