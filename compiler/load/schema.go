// Package load implements the metadata extractor (SPEC_FULL.md 4.B): it
// walks parsed Go source, recognizes entity structs by their npa struct tags
// and repository interfaces by the Repository[Entity, Key] they embed, and
// produces the Schema/Field/Edge and Repository records that compiler/gen
// turns into a Graph.
//
// An entity struct marks itself with a blank marker field carrying the
// Entity attribute:
//
//	type Customer struct {
//		_  struct{} `npa:"Entity;Table,customers"`
//		Id int64    `npa:"Id;GeneratedValue,strategy=identity"`
//		...
//	}
//
// A repository interface is recognized by embedding the base repository
// capability:
//
//	type CustomerRepository interface {
//		Repository[Customer, int64]
//		FindByEmailAsync(ctx context.Context, email string) (*Customer, error)
//	}
package load

import (
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
	"strconv"
	"strings"

	"github.com/npagen/npagen/attr"
	"github.com/npagen/npagen/schema/field"
)

// Schema represents an entity that was extracted from a parsed source
// package (SPEC_FULL.md's EntityModel, rendered for compiler/gen).
type Schema struct {
	Name        string         `json:"name,omitempty"`
	Pos         string         `json:"-"`
	View        bool           `json:"view,omitempty"`
	Config      TableConfig    `json:"config,omitempty"`
	Edges       []*Edge        `json:"edges,omitempty"`
	Fields      []*Field       `json:"fields,omitempty"`
	Indexes     []*Index       `json:"indexes,omitempty"`
	Hooks       []*Position    `json:"hooks,omitempty"`
	Interceptors []*Position   `json:"interceptors,omitempty"`
	Policy      []*Position    `json:"policy,omitempty"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

// TableConfig overrides the default table/schema name for an entity,
// sourced from a Table attribute on the entity's marker field.
type TableConfig struct {
	Table  string `json:"table,omitempty"`
	Schema string `json:"schema,omitempty"`
}

// Position describes where a field/edge sits in its owning struct, used to
// keep generated output deterministic (section 5's ordering guarantee).
type Position struct {
	Index      int
	MixedIn    bool
	MixinIndex int
}

// StorageKey is an explicit JoinTable/JoinColumn override read from an
// edge's attribute arguments.
type StorageKey struct {
	Table   string   `json:"table,omitempty"`
	Columns []string `json:"columns,omitempty"`
}

// Field represents a scalar (non-relationship) entity property.
type Field struct {
	Name             string                  `json:"name,omitempty"`
	Info             *field.TypeInfo         `json:"type,omitempty"`
	ValueScanner     bool                    `json:"value_scanner,omitempty"`
	Tag              string                  `json:"tag,omitempty"`
	Size             *int64                  `json:"size,omitempty"`
	Enums            []struct{ N, V string } `json:"enums,omitempty"`
	Unique           bool                    `json:"unique,omitempty"`
	Nillable         bool                    `json:"nillable,omitempty"`
	Optional         bool                    `json:"optional,omitempty"`
	Default          bool                    `json:"default,omitempty"`
	DefaultValue     any                     `json:"default_value,omitempty"`
	DefaultKind      reflect.Kind            `json:"default_kind,omitempty"`
	UpdateDefault    bool                    `json:"update_default,omitempty"`
	Immutable        bool                    `json:"immutable,omitempty"`
	Validators       int                     `json:"validators,omitempty"`
	StorageKey       string                  `json:"storage_key,omitempty"`
	Position         *Position               `json:"position,omitempty"`
	Sensitive        bool                    `json:"sensitive,omitempty"`
	SchemaType       map[string]string       `json:"schema_type,omitempty"`
	Annotations      map[string]any          `json:"annotations,omitempty"`
	Comment          string                  `json:"comment,omitempty"`
	Deprecated       bool                    `json:"deprecated,omitempty"`
	DeprecatedReason string                  `json:"deprecated_reason,omitempty"`
}

// Edge represents a relationship property: ManyToOne, OneToOne, OneToMany
// or ManyToMany, carrying the same tagged-union discriminant as gen.Rel.
type Edge struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
	// Kind is the relationship attribute that declared this edge:
	// "ManyToOne", "OneToOne", "OneToMany", or "ManyToMany".
	Kind        string         `json:"kind,omitempty"`
	Tag         string         `json:"tag,omitempty"`
	Field       string         `json:"field,omitempty"`
	RefName     string         `json:"ref_name,omitempty"`
	Ref         *Edge          `json:"ref,omitempty"`
	Through     *struct{ N, T string } `json:"through,omitempty"`
	Unique      bool           `json:"unique,omitempty"`
	Inverse     bool           `json:"inverse,omitempty"`
	Required    bool           `json:"required,omitempty"`
	Immutable   bool           `json:"immutable,omitempty"`
	StorageKey  *StorageKey    `json:"storage_key,omitempty"`
	Annotations map[string]any `json:"annotations,omitempty"`
	Comment     string         `json:"comment,omitempty"`
}

// Index represents a declared, non-default index over one or more
// fields/edges.
type Index struct {
	Unique      bool           `json:"unique,omitempty"`
	Edges       []string       `json:"edges,omitempty"`
	Fields      []string       `json:"fields,omitempty"`
	StorageKey  string         `json:"storage_key,omitempty"`
	Annotations map[string]any `json:"annotations,omitempty"`
}

// Repository is the extracted shape of a Repository[Entity, Key]
// interface: the entity it is bound to, the key type, and its declared
// derived/custom methods (fed to the method-name parser and the CPQL
// translator).
type Repository struct {
	Name       string
	Pos        string
	EntityName string
	KeyType    string
	Methods    []*Method
}

// Method is one exported method declared (or embedded) on a repository
// interface, with its raw signature text for the method-name parser (4.C)
// and CPQL translator (4.D) to consume.
type Method struct {
	Name       string
	Params     []string
	Results    []string
	Attributes map[string]*attr.Args
	Pos        token.Position
}

// Package is everything the Metadata Extractor found in one compilation
// unit: the entity schemas and the repository interfaces bound to them.
type Package struct {
	Schemas      []*Schema
	Repositories []*Repository
}

// fieldAttrs pairs a recognized attribute with its resolved args,
// indexed by attribute name, for one struct field.
type fieldAttrs map[string]*attr.Args

// Extract walks every GenDecl in files and builds a Package: one Schema per
// struct carrying an Entity marker, one Repository per interface embedding
// Repository[Entity, Key]. Declarations that are neither are ignored.
//
// Names are not resolved here: an Edge keeps the target type name it was
// declared with, and a Repository keeps the name of its Entity type
// argument, even when no extracted entity carries that name. Neither aborts
// extraction; matching the names against the entity set, and reporting one
// that matches nothing, is left to compiler/gen.
func Extract(fset *token.FileSet, files []*ast.File) (*Package, error) {
	pkg := &Package{}
	for _, file := range files {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				switch t := ts.Type.(type) {
				case *ast.StructType:
					s, err := extractStruct(fset, ts, t)
					if err != nil {
						return nil, err
					}
					if s != nil {
						pkg.Schemas = append(pkg.Schemas, s)
					}
				case *ast.InterfaceType:
					r := extractInterface(fset, ts, t)
					if r != nil {
						pkg.Repositories = append(pkg.Repositories, r)
					}
				}
			}
		}
	}
	return pkg, nil
}

// extractStruct builds a Schema from a struct type declaration, or returns
// (nil, nil) if the struct has no Entity marker field.
func extractStruct(fset *token.FileSet, ts *ast.TypeSpec, st *ast.StructType) (*Schema, error) {
	markerArgs, ok := structAttrs(st, "Entity")
	if !ok {
		return nil, nil
	}
	s := &Schema{
		Name:        ts.Name.Name,
		Pos:         fset.Position(ts.Pos()).String(),
		Annotations: make(map[string]any),
	}
	if _, isView := structAttrs(st, "View"); isView {
		s.View = true
	}
	_ = markerArgs
	if tbl, has := structAttrs(st, "Table"); has {
		if name, ok := tbl.Pos(0); ok {
			s.Config.Table = name
		}
		if schema, ok := tbl.String("schema"); ok {
			s.Config.Schema = schema
		}
	}
	for i, f := range st.Fields.List {
		if isBlankMarker(f) {
			continue
		}
		if len(f.Names) == 0 {
			continue // embedded field, not a modeled property.
		}
		for _, name := range f.Names {
			if !name.IsExported() {
				continue
			}
			tag := fieldTag(f)
			switch {
			case attr.Has(tag, "ManyToOne"), attr.Has(tag, "OneToOne"),
				attr.Has(tag, "OneToMany"), attr.Has(tag, "ManyToMany"):
				e, err := extractEdge(f, name.Name, tag, i)
				if err != nil {
					return nil, fmt.Errorf("entity %q: %w", s.Name, err)
				}
				s.Edges = append(s.Edges, e)
			default:
				lf, err := extractField(f, name.Name, tag, i)
				if err != nil {
					return nil, fmt.Errorf("entity %q: %w", s.Name, err)
				}
				if lf.Name == "Id" || lf.Name == "id" {
					if attr.Has(tag, "Id") {
						lf.Position = &Position{Index: i}
						s.Fields = append(s.Fields, lf) // id resolved by gen.NewType
						continue
					}
				}
				s.Fields = append(s.Fields, lf)
			}
		}
	}
	return s, nil
}

// isBlankMarker reports whether f is the struct-level attribute carrier
// (the blank `_ struct{}` field).
func isBlankMarker(f *ast.Field) bool {
	if len(f.Names) != 1 || f.Names[0].Name != "_" {
		return false
	}
	_, ok := f.Type.(*ast.StructType)
	return ok
}

// structAttrs reads name off the struct's blank marker field, if any.
func structAttrs(st *ast.StructType, name string) (*attr.Args, bool) {
	for _, f := range st.Fields.List {
		if !isBlankMarker(f) {
			continue
		}
		return attr.Read(fieldTag(f), name)
	}
	return nil, false
}

func fieldTag(f *ast.Field) reflect.StructTag {
	if f.Tag == nil {
		return ""
	}
	raw, err := strconv.Unquote(f.Tag.Value)
	if err != nil {
		return ""
	}
	return reflect.StructTag(raw)
}

// extractField resolves one scalar property's ColumnSpec (4.B step 2).
func extractField(f *ast.Field, name string, tag reflect.StructTag, pos int) (*Field, error) {
	lf := &Field{
		Name:     strings.ToLower(name[:1]) + name[1:],
		Tag:      string(tag),
		Position: &Position{Index: pos},
	}
	lf.Nillable = isPointer(f.Type) || isNullableStdlib(f.Type)
	if col, ok := attr.Read(tag, "Column"); ok {
		if n, ok := col.Pos(0); ok {
			lf.StorageKey = n
		}
		if n, ok := col.String("name"); ok {
			lf.StorageKey = n
		}
		if col.Bool("nullable") {
			lf.Nillable = true
		}
		lf.Unique = col.Bool("unique")
	}
	if _, ok := attr.Read(tag, "GeneratedValue"); ok {
		lf.Default = true
	}
	info, err := field.TypeFromGoString(exprString(f.Type))
	if err != nil {
		return nil, fmt.Errorf("field %q: %w", name, err)
	}
	lf.Info = info
	return lf, nil
}

// extractEdge resolves one relationship property. target_entity resolution
// against the full entity set happens later in compiler/gen, by short type
// name (4.B step 3) — here we only record the declared type name.
func extractEdge(f *ast.Field, name string, tag reflect.StructTag, pos int) (*Edge, error) {
	e := &Edge{
		Name:        strings.ToLower(name[:1]) + name[1:],
		Tag:         string(tag),
		Type:        targetTypeName(f.Type),
		Annotations: make(map[string]any),
	}
	switch {
	case attr.Has(tag, "ManyToOne"):
		e.Kind = "ManyToOne"
		e.Unique = true
	case attr.Has(tag, "OneToOne"):
		e.Kind = "OneToOne"
		e.Unique = true
		if a, _ := attr.Read(tag, "OneToOne"); a != nil {
			if mb, ok := a.String("mapped_by"); ok {
				e.Inverse = true
				e.RefName = mb
			}
		}
	case attr.Has(tag, "OneToMany"):
		e.Kind = "OneToMany"
		e.Inverse = true
		if a, _ := attr.Read(tag, "OneToMany"); a != nil {
			if mb, ok := a.Pos(0); ok {
				e.RefName = mb
			} else if mb, ok := a.String("mapped_by"); ok {
				e.RefName = mb
			}
		}
	case attr.Has(tag, "ManyToMany"):
		e.Kind = "ManyToMany"
		if a, _ := attr.Read(tag, "ManyToMany"); a != nil {
			if mb, ok := a.String("mapped_by"); ok {
				e.Inverse = true
				e.RefName = mb
			}
		}
	}
	if jc, ok := attr.Read(tag, "JoinColumn"); ok {
		col := &StorageKey{}
		if n, ok := jc.Pos(0); ok {
			col.Columns = []string{n}
		} else if n, ok := jc.String("name"); ok {
			col.Columns = []string{n}
		}
		if len(col.Columns) > 0 {
			e.StorageKey = col
		}
	}
	if jt, ok := attr.Read(tag, "JoinTable"); ok {
		jk := &StorageKey{}
		if n, ok := jt.Pos(0); ok {
			jk.Table = n
		}
		var cols []string
		if jc, ok := jt.String("join_columns"); ok {
			cols = append(cols, jc)
		}
		if ijc, ok := jt.String("inverse_join_columns"); ok {
			cols = append(cols, ijc)
		}
		if len(cols) > 0 {
			jk.Columns = cols
		}
		e.StorageKey = jk
	}
	return e, nil
}

// targetTypeName extracts the short type name of an edge's declared Go
// type, unwrapping pointers and slices (OneToMany/ManyToMany are declared
// as []*Entity, ManyToOne/OneToOne as *Entity).
func targetTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return targetTypeName(t.X)
	case *ast.ArrayType:
		return targetTypeName(t.Elt)
	case *ast.Ident:
		return t.Name
	case *ast.SelectorExpr:
		return t.Sel.Name
	default:
		return ""
	}
}

func isPointer(expr ast.Expr) bool {
	_, ok := expr.(*ast.StarExpr)
	return ok
}

// isNullableStdlib reports whether expr names one of the sql.Null* types
// (4.B step 5). Other driver.Valuer implementations are not detected.
func isNullableStdlib(expr ast.Expr) bool {
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	pkg, ok := sel.X.(*ast.Ident)
	return ok && pkg.Name == "sql" && strings.HasPrefix(sel.Sel.Name, "Null")
}

func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// extractInterface builds a Repository from an interface type declaration,
// or returns nil if it does not embed Repository[Entity, Key] (4.B step 4).
func extractInterface(fset *token.FileSet, ts *ast.TypeSpec, it *ast.InterfaceType) *Repository {
	r := &Repository{
		Name: ts.Name.Name,
		Pos:  fset.Position(ts.Pos()).String(),
	}
	for _, m := range it.Methods.List {
		switch ft := m.Type.(type) {
		case *ast.IndexExpr:
			if ident, ok := ft.X.(*ast.Ident); ok && ident.Name == "Repository" {
				r.EntityName = targetTypeName(ft.Index)
			}
		case *ast.IndexListExpr:
			if ident, ok := ft.X.(*ast.Ident); ok && ident.Name == "Repository" && len(ft.Indices) == 2 {
				r.EntityName = targetTypeName(ft.Indices[0])
				r.KeyType = exprString(ft.Indices[1])
			}
		case *ast.FuncType:
			if len(m.Names) == 0 {
				continue
			}
			r.Methods = append(r.Methods, &Method{
				Name:    m.Names[0].Name,
				Params:  fieldListStrings(ft.Params),
				Results: fieldListStrings(ft.Results),
				Pos:     fset.Position(m.Pos()),
			})
		}
	}
	if r.EntityName == "" {
		return nil
	}
	return r
}

func fieldListStrings(fl *ast.FieldList) []string {
	if fl == nil {
		return nil
	}
	var out []string
	for _, f := range fl.List {
		out = append(out, exprString(f.Type))
	}
	return out
}
