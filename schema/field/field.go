// Package field describes the scalar types a generated entity field can
// carry: the Type enum the Metadata Extractor (4.B) assigns to a struct
// field, and the RType reflection shadow the Source Emitter (4.G) and SQL
// Templater (4.F) use to render Go type expressions and scan targets
// without holding onto reflect.Type itself (these records round-trip
// through JSON between the extractor and the generator).
package field

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/npagen/npagen/schema"
)

// Type enumerates the scalar shapes a field can take. Values below
// TypeInt8 through TypeInt64, and TypeUint8 through TypeUint64, are kept
// contiguous so callers can range-test with a single comparison.
type Type uint8

const (
	TypeOther Type = iota
	TypeBool
	TypeTime
	TypeJSON
	TypeUUID
	TypeBytes
	TypeEnum
	TypeString
	TypeInt
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeFloat32
	TypeFloat64
)

var typeNames = [...]string{
	TypeOther: "other", TypeBool: "bool", TypeTime: "time.Time", TypeJSON: "json",
	TypeUUID: "uuid.UUID", TypeBytes: "bytes", TypeEnum: "enum", TypeString: "string",
	TypeInt: "int", TypeInt8: "int8", TypeInt16: "int16", TypeInt32: "int32", TypeInt64: "int64",
	TypeUint: "uint", TypeUint8: "uint8", TypeUint16: "uint16", TypeUint32: "uint32", TypeUint64: "uint64",
	TypeFloat32: "float32", TypeFloat64: "float64",
}

// String returns the canonical name of the type.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "invalid"
}

// Valid reports whether t is one of the enumerated types.
func (t Type) Valid() bool { return t < Type(len(typeNames)) }

// Numeric reports whether t is one of the integer or floating-point types.
func (t Type) Numeric() bool {
	switch {
	case t >= TypeInt && t <= TypeUint64:
		return true
	case t == TypeFloat32 || t == TypeFloat64:
		return true
	default:
		return false
	}
}

// IsStandardType reports whether t is a Go built-in (not time.Time, a UUID,
// JSON, or an enum — types that need a non-zero-value check at emission
// time even when Optional is set without Nillable).
func (t Type) IsStandardType() bool {
	switch t {
	case TypeBool, TypeString:
		return true
	default:
		return t.Numeric()
	}
}

// ConstName returns the exported identifier used for this type's constant
// in generated metadata tables (4.G).
func (t Type) ConstName() string {
	switch t {
	case TypeOther:
		return "TypeOther"
	default:
		return "Type" + strings.Title(strings.ReplaceAll(t.String(), ".", ""))
	}
}

// RType is a JSON-able shadow of reflect.Type, carrying just enough to
// render a Go type expression and a handful of structural checks (4.F/4.G
// need this without re-running reflection at generation time).
type RType struct {
	Name     string                  `json:"name,omitempty"`
	Ident    string                  `json:"ident,omitempty"`
	Kind     reflect.Kind            `json:"kind,omitempty"`
	PkgPath  string                  `json:"pkg_path,omitempty"`
	PkgName  string                  `json:"pkg_name,omitempty"`
	Nillable bool                    `json:"nillable,omitempty"`
	Methods  map[string]RTypeMethod  `json:"methods,omitempty"`
}

// RTypeMethod records a method's parameter/return shadow types, used to
// detect e.g. a numeric field's Add(T) T method for increment support.
type RTypeMethod struct {
	In  []*RType `json:"in,omitempty"`
	Out []*RType `json:"out,omitempty"`
}

// IsPtr reports whether the shadowed type is a pointer kind.
func (r *RType) IsPtr() bool { return r != nil && r.Kind == reflect.Pointer }

// String returns the qualified Go type expression for the shadowed type.
func (r *RType) String() string {
	if r == nil {
		return ""
	}
	if r.PkgName != "" {
		return r.PkgName + "." + r.Ident
	}
	return r.Ident
}

// TypeEqual reports whether r and other shadow the same Go type.
func (r *RType) TypeEqual(other *RType) bool {
	if r == nil || other == nil {
		return r == other
	}
	return r.PkgPath == other.PkgPath && r.Ident == other.Ident && r.Kind == other.Kind
}

// TypeInfo is the resolved type of one entity field: its Type
// classification plus the Go type details needed to render it.
type TypeInfo struct {
	Type     Type   `json:"type,omitempty"`
	Ident    string `json:"ident,omitempty"`
	PkgPath  string `json:"package,omitempty"`
	Nillable bool   `json:"nillable,omitempty"`
	RType    *RType `json:"rtype,omitempty"`
}

// Valid reports whether t names a recognized type.
func (t *TypeInfo) Valid() bool { return t != nil && t.Type.Valid() }

// Numeric reports whether t's underlying type is numeric.
func (t *TypeInfo) Numeric() bool { return t != nil && t.Type.Numeric() }

// goBuiltins maps a Go source-level type spelling to its Type
// classification, used by TypeFromGoString (the go/ast front-end of 4.B).
var goBuiltins = map[string]Type{
	"bool": TypeBool, "string": TypeString,
	"int": TypeInt, "int8": TypeInt8, "int16": TypeInt16, "int32": TypeInt32, "int64": TypeInt64,
	"uint": TypeUint, "uint8": TypeUint8, "uint16": TypeUint16, "uint32": TypeUint32, "uint64": TypeUint64,
	"float32": TypeFloat32, "float64": TypeFloat64,
	"byte": TypeUint8, "rune": TypeInt32,
}

// TypeFromGoString resolves a Go type expression (as rendered by
// go/ast.Expr printing, e.g. "int64", "*string", "[]byte", "time.Time",
// "uuid.UUID") into a TypeInfo. Unknown qualified types fall back to
// TypeOther rather than failing extraction, since a custom scalar (backed
// by sql.Scanner/driver.Valuer) is still a legal field.
func TypeFromGoString(expr string) (*TypeInfo, error) {
	nillable := false
	s := expr
	if strings.HasPrefix(s, "*") {
		nillable = true
		s = s[1:]
	}
	switch {
	case s == "[]byte" || s == "[]uint8":
		return &TypeInfo{Type: TypeBytes, Ident: "[]byte", Nillable: nillable, RType: &RType{Ident: "[]byte", Kind: reflect.Slice}}, nil
	case s == "time.Time":
		return &TypeInfo{Type: TypeTime, Ident: "Time", PkgPath: "time", Nillable: nillable, RType: &RType{Ident: "Time", PkgName: "time", Kind: reflect.Struct}}, nil
	case s == "uuid.UUID":
		return &TypeInfo{Type: TypeUUID, Ident: "UUID", PkgPath: "github.com/google/uuid", Nillable: nillable, RType: &RType{Ident: "UUID", PkgName: "uuid", Kind: reflect.Array}}, nil
	}
	if t, ok := goBuiltins[s]; ok {
		return &TypeInfo{Type: t, Ident: s, Nillable: nillable, RType: &RType{Ident: s, Kind: goKind(t)}}, nil
	}
	if strings.HasPrefix(s, "map[string]") || s == "json.RawMessage" {
		return &TypeInfo{Type: TypeJSON, Ident: s, Nillable: nillable, RType: &RType{Ident: s, Kind: reflect.Map}}, nil
	}
	if s == "" {
		return nil, fmt.Errorf("empty type expression")
	}
	// Unknown named type (enum or custom scalar); the extractor records it
	// as TypeOther and the planner/templater fall back to a ValueScanner.
	name := s
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		name = s[i+1:]
	}
	return &TypeInfo{Type: TypeOther, Ident: name, Nillable: nillable, RType: &RType{Ident: name, Kind: reflect.Struct}}, nil
}

// annotationName is the key a Annotation is filed under in a loaded
// schema's Annotations map (schema.Annotation.Name()).
const annotationName = "FieldAnnotation"

// Annotation carries per-field rendering hints sourced from a Column
// attribute's named arguments that don't affect SQL DDL (that's
// sqlschema.Annotation's job) but do affect the generated Go code: a
// sensitive field's zero-value display override, a deprecation notice.
type Annotation struct {
	StructTag string `json:"StructTag,omitempty"`
	Sensitive bool   `json:"Sensitive,omitempty"`
}

// Name implements schema.Annotation.
func (Annotation) Name() string { return annotationName }

// Merge implements schema.Merger, giving precedence to non-zero fields of
// the other annotation (a later declaration wins, per 4.B's schema/mixin
// override rule).
func (a Annotation) Merge(other schema.Annotation) schema.Annotation {
	o, ok := other.(Annotation)
	if !ok {
		return a
	}
	if o.StructTag != "" {
		a.StructTag = o.StructTag
	}
	if o.Sensitive {
		a.Sensitive = true
	}
	return a
}

func goKind(t Type) reflect.Kind {
	switch t {
	case TypeBool:
		return reflect.Bool
	case TypeString:
		return reflect.String
	case TypeInt:
		return reflect.Int
	case TypeInt8:
		return reflect.Int8
	case TypeInt16:
		return reflect.Int16
	case TypeInt32:
		return reflect.Int32
	case TypeInt64:
		return reflect.Int64
	case TypeUint:
		return reflect.Uint
	case TypeUint8:
		return reflect.Uint8
	case TypeUint16:
		return reflect.Uint16
	case TypeUint32:
		return reflect.Uint32
	case TypeUint64:
		return reflect.Uint64
	case TypeFloat32:
		return reflect.Float32
	case TypeFloat64:
		return reflect.Float64
	default:
		return reflect.Invalid
	}
}
