package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/npagen/npagen/compiler/load"
)

// Graph is the resolved, cross-referenced model of every entity in a
// compilation run: the Config that shaped it, plus one Type per extracted
// Schema with every edge pointed at its target Type. The Source Emitter
// (4.G) and SQL Templater (4.F) both render off a *Graph.
type Graph struct {
	*Config
	// Nodes holds the entity types that comprise the graph.
	Nodes []*Type
}

// relKind maps an extracted edge's Kind attribute to the relation-type
// discriminant gen.Edge.Rel.Type carries.
var relKind = map[string]Rel{
	"ManyToOne":  M2O,
	"OneToOne":   O2O,
	"OneToMany":  O2M,
	"ManyToMany": M2M,
}

// NewGraph builds a Graph from the given config and extracted schemas: one
// Type per schema, then a second pass that resolves every edge's target
// Type, inverse Ref, and relation table/columns.
func NewGraph(c *Config, schemas ...*load.Schema) (*Graph, error) {
	if c == nil {
		c = &Config{}
	}
	if c.IDType == nil {
		c.IDType = defaultIDType
	}
	if c.Storage == nil && len(drivers) > 0 {
		c.Storage = drivers[0]
	}
	g := &Graph{Config: c}
	byName := make(map[string]*Type, len(schemas))
	for _, s := range schemas {
		typ, err := NewType(c, s)
		if err != nil {
			return nil, fmt.Errorf("gen: %w", err)
		}
		if _, dup := byName[typ.Name]; dup {
			return nil, fmt.Errorf("gen: duplicate entity name %q", typ.Name)
		}
		byName[typ.Name] = typ
		g.Nodes = append(g.Nodes, typ)
	}
	if err := buildEdges(g, byName); err != nil {
		return nil, err
	}
	for _, n := range g.Nodes {
		if err := n.setupFKs(); err != nil {
			return nil, fmt.Errorf("gen: type %q: %w", n.Name, err)
		}
	}
	if c.Storage != nil && c.Storage.Init != nil {
		if err := c.Storage.Init(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// buildEdges resolves every Type's declared load.Edges into gen.Edges,
// pointed at their target Type, and links inverse/assoc pairs together by
// Ref so that StorageKey() and setupFieldEdge() can walk from either side.
func buildEdges(g *Graph, byName map[string]*Type) error {
	for _, owner := range g.Nodes {
		for _, le := range owner.loadEdges() {
			target, ok := byName[le.Type]
			if !ok {
				return fmt.Errorf("gen: edge %q on %q references unknown entity %q", le.Name, owner.Name, le.Type)
			}
			kind, ok := relKind[le.Kind]
			if !ok {
				return fmt.Errorf("gen: edge %q on %q has no resolvable relationship kind", le.Name, owner.Name)
			}
			e := &Edge{
				def:         le,
				Name:        le.Name,
				Type:        target,
				Owner:       owner,
				Optional:    !le.Required,
				Immutable:   le.Immutable,
				Unique:      le.Unique,
				StructTag:   structTag(le.Name, le.Tag),
				Rel:         Relation{Type: kind},
				Annotations: le.Annotations,
			}
			if le.Inverse {
				e.Inverse = le.RefName
			}
			relDefaults(owner, target, e)
			owner.Edges = append(owner.Edges, e)
		}
	}
	// Second pass: link each inverse edge to the assoc edge it names, and
	// vice versa, now that every owner's edge list is fully populated.
	for _, owner := range g.Nodes {
		for _, e := range owner.Edges {
			if !e.IsInverse() {
				continue
			}
			assoc, ok := e.Type.HasAssoc(e.Inverse)
			if !ok {
				return fmt.Errorf("gen: edge %q on %q: mapped_by %q not found on %q", e.Name, owner.Name, e.Inverse, e.Type.Name)
			}
			e.Ref = assoc
			assoc.Ref = e
			if err := e.setStorageKey(); err != nil {
				return fmt.Errorf("gen: edge %q: %w", e.Name, err)
			}
		}
	}
	return nil
}

// relDefaults assigns an edge's default relation table/column, before any
// JoinTable/JoinColumn override (setStorageKey) is applied on top. This is
// a minimal stand-in for a full relationship planner: the FK column
// defaults to "<edge>_id" on the owning side, and a ManyToMany join table
// defaults to "<a>_<b>" with its two sides alphabetized so both directions
// of the same relationship agree on the name.
func relDefaults(owner, target *Type, e *Edge) {
	if e.M2M() {
		a, b := owner.Label(), target.Label()
		if a > b {
			a, b = b, a
		}
		e.Rel.Table = a + "_" + b
		e.Rel.Columns = []string{snake(owner.Name) + "_id", snake(target.Name) + "_id"}
		return
	}
	col := snake(e.Name) + "_id"
	if e.OwnFK() {
		e.Rel.Table = owner.Table()
		e.Rel.Columns = []string{col}
		return
	}
	e.Rel.Table = target.Table()
	e.Rel.Columns = []string{snake(owner.Name) + "_id"}
}

// featureEnabled reports whether f is among the Graph's enabled features,
// compared by name.
func (g *Graph) featureEnabled(f Feature) bool {
	for _, e := range g.Features {
		if e.Name == f.Name {
			return true
		}
	}
	return false
}

// Table describes one entity's backing SQL table, returned by Tables() for
// callers (the SQL Templater, migration tooling) that need the full list
// without walking Nodes themselves.
type Table struct {
	Name string
	Type *Type
}

// Tables returns the backing table of every non-view entity in the graph.
func (g *Graph) Tables() ([]*Table, error) {
	tables := make([]*Table, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.IsView() {
			continue
		}
		tables = append(tables, &Table{Name: n.Table(), Type: n})
	}
	return tables, nil
}

// GenerateFunc adapts a plain function to the Generator interface, the way
// http.HandlerFunc adapts a function to http.Handler — used to build Hooks
// inline without declaring a named type.
type GenerateFunc func(*Graph) error

// Generate implements Generator.
func (f GenerateFunc) Generate(g *Graph) error { return f(g) }

// Gen runs code generation for the graph: the configured Generator (or the
// default Jennifer-based one) wrapped by every configured Hook, outermost
// hook first, followed by execution of any custom Templates.
func (g *Graph) Gen() error {
	var gen Generator = GenerateFunc(defaultGenerate)
	if g.Generator != nil {
		gen = g.Generator
	}
	for i := len(g.Hooks) - 1; i >= 0; i-- {
		gen = g.Hooks[i](gen)
	}
	return gen.Generate(g)
}

// defaultGenerate runs the Jennifer-based Source Emitter against g.Target,
// then renders any custom Config.Templates to <Target>/<name>.go.
func defaultGenerate(g *Graph) error {
	if err := GenerateJennifer(g); err != nil {
		return err
	}
	return writeCustomTemplates(g)
}

func writeCustomTemplates(g *Graph) error {
	for _, t := range g.Templates {
		if t.tmpl == nil {
			continue
		}
		var buf bytes.Buffer
		if err := t.tmpl.Execute(&buf, g); err != nil {
			return fmt.Errorf("gen: execute template %q: %w", t.Name, err)
		}
		if err := os.MkdirAll(g.Target, 0o755); err != nil {
			return fmt.Errorf("gen: create target directory: %w", err)
		}
		path := filepath.Join(g.Target, t.Name+".go")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("gen: write template %q: %w", t.Name, err)
		}
	}
	return nil
}

// NewTemplate begins a named custom Template, to be finished with Parse.
func NewTemplate(name string) *Template {
	return &Template{Name: name}
}

// Parse compiles text as the body of t, returning t for chaining into
// MustParse/WithTemplates.
func (t *Template) Parse(text string) (*Template, error) {
	tmpl, err := template.New(t.Name).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("gen: parse template %q: %w", t.Name, err)
	}
	t.Source = text
	t.tmpl = tmpl
	return t, nil
}

// MustParse returns t, panicking if Parse failed — for wiring fixed,
// compile-time-known templates via WithTemplates.
func MustParse(t *Template, err error) *Template {
	if err != nil {
		panic(err)
	}
	return t
}
