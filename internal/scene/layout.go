package scene

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed layout.schema.json
var layoutSchemaJSON []byte

//go:embed layouts/*.yaml
var builtinLayouts embed.FS

var ErrUnknownLayout = errors.New("unknown layout")

type Floor struct {
	Width float32 `yaml:"width" json:"width"`
	Depth float32 `yaml:"depth" json:"depth"`
}

type Box struct {
	Name   string     `yaml:"name" json:"name,omitempty"`
	Center [3]float32 `yaml:"center" json:"center"`
	Size   [3]float32 `yaml:"size" json:"size"`
}

type DoorSpec struct {
	Name   string     `yaml:"name" json:"name"`
	Center [3]float32 `yaml:"center" json:"center"`
	Size   [3]float32 `yaml:"size" json:"size"`
	Radius float32    `yaml:"radius" json:"radius,omitempty"`
	Open   bool       `yaml:"open" json:"open"`
}

type CameraSpec struct {
	Mode     string      `yaml:"mode" json:"mode,omitempty"`
	Position *[3]float32 `yaml:"position" json:"position,omitempty"`
	Offset   *[3]float32 `yaml:"offset" json:"offset,omitempty"`
}

type Model struct {
	Path  string   `yaml:"path" json:"path"`
	Clips []string `yaml:"clips" json:"clips,omitempty"`
}

type Layout struct {
	Name          string     `yaml:"name" json:"name"`
	Title         string     `yaml:"title" json:"title,omitempty"`
	Floor         Floor      `yaml:"floor" json:"floor"`
	Spawn         [3]float32 `yaml:"spawn" json:"spawn"`
	Speed         float32    `yaml:"speed" json:"speed,omitempty"`
	RotationLerp  float32    `yaml:"rotation_lerp" json:"rotation_lerp,omitempty"`
	CharacterSize [3]float32 `yaml:"character_size" json:"character_size"`
	Camera        CameraSpec `yaml:"camera" json:"camera"`
	Walls         []Box      `yaml:"walls" json:"walls"`
	Doors         []DoorSpec `yaml:"doors" json:"doors"`
	Model         *Model     `yaml:"model" json:"model,omitempty"`
}

func vec(a [3]float32) Vec3 {
	return V3(a[0], a[1], a[2])
}

// FieldError is one schema violation.
type FieldError struct {
	Field   string
	Message string
}

type ValidationError struct {
	Layout string
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "layout %s is invalid:", e.Layout)
	for i, fe := range e.Errors {
		fmt.Fprintf(&sb, " %d. %s: %s;", i+1, fe.Field, fe.Message)
	}
	return strings.TrimSuffix(sb.String(), ";")
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func layoutSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(layoutSchemaJSON))
	})
	return schema, schemaErr
}

// ParseLayout decodes a YAML layout and validates it against the layout schema.
func ParseLayout(name string, data []byte) (Layout, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Layout{}, fmt.Errorf("decode layout %s: %w", name, err)
	}
	if doc == nil {
		return Layout{}, &ValidationError{Layout: name, Errors: []FieldError{{Field: "(root)", Message: "empty document"}}}
	}

	s, err := layoutSchema()
	if err != nil {
		return Layout{}, fmt.Errorf("load layout schema: %w", err)
	}
	res, err := s.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return Layout{}, fmt.Errorf("validate layout %s: %w", name, err)
	}
	if !res.Valid() {
		verr := &ValidationError{Layout: name, Errors: make([]FieldError, 0, len(res.Errors()))}
		for _, desc := range res.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
		}
		return Layout{}, verr
	}

	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode layout %s: %w", name, err)
	}
	return l, nil
}

// LayoutCatalog is the set of layouts a session can be created from.
type LayoutCatalog struct {
	byName map[string]Layout
}

// LoadLayouts reads the built-in layouts and then every *.yaml file in dir,
// which may replace a built-in by name. An empty dir loads built-ins only.
func LoadLayouts(dir fs.FS) (*LayoutCatalog, error) {
	c := &LayoutCatalog{byName: make(map[string]Layout)}
	if err := c.loadFS(builtinLayouts, "layouts"); err != nil {
		return nil, err
	}
	if dir != nil {
		if err := c.loadFS(dir, "."); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *LayoutCatalog) loadFS(fsys fs.FS, root string) error {
	matches, err := fs.Glob(fsys, path.Join(root, "*.yaml"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		data, err := fs.ReadFile(fsys, m)
		if err != nil {
			return fmt.Errorf("read layout %s: %w", m, err)
		}
		l, err := ParseLayout(m, data)
		if err != nil {
			return err
		}
		c.byName[l.Name] = l
	}
	return nil
}

func (c *LayoutCatalog) Get(name string) (Layout, error) {
	l, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return Layout{}, fmt.Errorf("%w: %s", ErrUnknownLayout, name)
	}
	return l, nil
}

func (c *LayoutCatalog) All() []Layout {
	out := make([]Layout, 0, len(c.byName))
	for _, l := range c.byName {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
