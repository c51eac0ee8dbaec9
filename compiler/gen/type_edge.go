package gen

import (
	"fmt"

	"github.com/npagen/npagen/compiler/load"
	"github.com/npagen/npagen/dialect/sqlschema"
)

// =============================================================================
// Edge methods
//
// Edge is this package's rendering of a SPEC_FULL.md Relationship: Rel.Type
// carries the tagged-union discriminant (ManyToOne/OneToMany/OneToOne/
// ManyToMany, represented as the O2O/O2M/M2O/M2M constants below), and the
// owner/inverse/Ref fields encode invariant 2 (an inverse OneToMany's
// mapped_by must name an actual ManyToOne/OneToOne on the target).
// =============================================================================

// Label returns the label name of the edge (owner_edgename format).
func (e Edge) Label() string {
	if e.IsInverse() {
		return fmt.Sprintf("%s_%s", e.Owner.Label(), snake(e.Inverse))
	}
	return fmt.Sprintf("%s_%s", e.Owner.Label(), snake(e.Name))
}

// Constant returns the constant name of the edge, used for generated
// metadata tables (4.G's GeneratedMetadataProvider).
func (e Edge) Constant() string {
	return "Edge" + pascal(e.Name)
}

// M2M indicates if this edge is a ManyToMany relationship.
func (e Edge) M2M() bool { return e.Rel.Type == M2M }

// M2O indicates if this edge is a ManyToOne relationship (the owner side
// that carries the foreign-key column).
func (e Edge) M2O() bool { return e.Rel.Type == M2O }

// O2M indicates if this edge is a OneToMany relationship (the inverse side,
// named by mapped_by on the owner).
func (e Edge) O2M() bool { return e.Rel.Type == O2M }

// O2O indicates if this edge is a OneToOne relationship.
func (e Edge) O2O() bool { return e.Rel.Type == O2O }

// IsInverse returns whether this edge is the inverse (mapped_by) side of a
// bidirectional relationship.
func (e Edge) IsInverse() bool { return e.Inverse != "" }

// TableConstant returns the constant name of the relation table (4.G
// metadata provider / 4.F table references).
func (e Edge) TableConstant() string { return pascal(e.Name) + "Table" }

// ColumnConstant returns the constant name of the relation's FK column —
// the value the Relationship Planner (4.E) resolves per invariant 3.
func (e Edge) ColumnConstant() string { return pascal(e.Name) + "Column" }

// JoinTableConstant returns the constant name of the ManyToMany join table.
func (e Edge) JoinTableConstant() string { return pascal(e.Name) + "JoinTable" }

// OwnFK indicates whether the foreign-key of this edge is owned by this
// edge's own table (ManyToOne, or the owner side of a bidirectional
// OneToOne).
func (e Edge) OwnFK() bool {
	switch {
	case e.M2O():
		return true
	case e.O2O() && (e.IsInverse() || e.Bidi):
		return true
	}
	return false
}

// ForeignKey returns the resolved foreign-key of this edge, or an error if
// the Relationship Planner never resolved one — this is the
// InternalInvariantDiagnostic trigger point named in SPEC_FULL.md section 9
// ("FK column never resolved").
func (e *Edge) ForeignKey() (*ForeignKey, error) {
	if e.Rel.fk != nil {
		return e.Rel.fk, nil
	}
	return nil, fmt.Errorf("foreign-key was not resolved for edge %q of type %s", e.Name, e.Rel.Type)
}

// Field returns the scalar field backing this edge's foreign key, if the
// user declared one explicitly as a property (rather than relying on the
// planner's default column name).
func (e Edge) Field() *Field {
	if !e.OwnFK() {
		return nil
	}
	if fk, err := e.ForeignKey(); err == nil && fk.Field != nil && fk.Field.IsEdgeField() {
		return fk.Field
	}
	return nil
}

// setStorageKey applies an explicit JoinTable/JoinColumn override onto the
// edge's resolved Relation, validating it against the edge's Rel.Type.
func (e *Edge) setStorageKey() error {
	key, err := e.StorageKey()
	if err != nil || key == nil {
		return err
	}
	switch rel := e.Rel; {
	case key.Table != "" && rel.Type != M2M:
		return fmt.Errorf("JoinTable is allowed only for ManyToMany edges (got %s)", e.Rel.Type)
	case len(key.Columns) == 1 && rel.Type == M2M:
		return fmt.Errorf("%s edge requires 2 join columns, got 1", e.Rel.Type)
	case len(key.Columns) > 1 && rel.Type != M2M:
		return fmt.Errorf("%s edge does not take 2 columns; use JoinColumn(%s) instead", e.Rel.Type, key.Columns[0])
	}
	if key.Table != "" {
		e.Rel.Table = key.Table
	}
	if len(key.Columns) > 0 {
		if len(e.Rel.Columns) == 0 {
			e.Rel.Columns = make([]string, 1)
		}
		e.Rel.Columns[0] = key.Columns[0]
	}
	if len(key.Columns) > 1 {
		if len(e.Rel.Columns) < 2 {
			newCols := make([]string, 2)
			if len(e.Rel.Columns) > 0 {
				newCols[0] = e.Rel.Columns[0]
			}
			e.Rel.Columns = newCols
		}
		e.Rel.Columns[1] = key.Columns[1]
	}
	return nil
}

// StorageKey returns the JoinTable/JoinColumn override extracted for this
// edge, if one was declared — on either this edge or, for an inverse edge,
// its owning ManyToOne/ManyToMany counterpart.
func (e Edge) StorageKey() (*load.StorageKey, error) {
	key := e.def.StorageKey
	if !e.IsInverse() {
		return key, nil
	}
	assoc, ok := e.Owner.HasAssoc(e.Inverse)
	if !ok || assoc.def.StorageKey == nil {
		return key, nil
	}
	if key != nil {
		return nil, fmt.Errorf("multiple join-column overrides defined for edge %q<->%q", e.Name, assoc.Name)
	}
	return assoc.def.StorageKey, nil
}

// EntSQL returns the SQL storage annotation attached to the edge, if any.
func (e Edge) EntSQL() *sqlschema.Annotation {
	return sqlAnnotate(e.Annotations)
}

// Comment returns the doc comment attached to the edge's declaration.
func (e Edge) Comment() string {
	if e.def != nil {
		return e.def.Comment
	}
	return ""
}

// Index returns the position of this edge within its owner's edge list, as
// declared. Used to keep emitted output order deterministic (section 5's
// ordering guarantee).
func (e Edge) Index() (int, error) {
	owner := e.Owner
	if e.IsInverse() {
		owner = e.Ref.Type
	}
	for i, o := range owner.Edges {
		if o.Name == e.Name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("edge %q was not found in its owner type %q", e.Name, e.Owner.Name)
}

// =============================================================================
// Relation methods
// =============================================================================

// Column returns the first (and, for non-M2M edges, only) column of the
// relation. Panicking here would violate section 9's "exceptions for
// control flow are avoided" rule, so callers that might hit an unresolved
// relation should check ForeignKey()/len(Columns) first; Column is only
// safe to call once the planner has guaranteed resolution.
func (r Relation) Column() string {
	if len(r.Columns) == 0 {
		panic(fmt.Sprintf("npa/gen: missing column for relation (table=%q, type=%v); this indicates the planner emitted a method before resolving its foreign key", r.Table, r.Type))
	}
	return r.Columns[0]
}

// =============================================================================
// ForeignKey methods
// =============================================================================

// StructField returns the Go struct field name of the foreign-key, falling
// back to the default <NavigationPropertyName>Id rule (invariant 3) when no
// explicit field was declared.
func (f ForeignKey) StructField() string {
	if f.UserDefined && f.Field != nil {
		return f.Field.StructField()
	}
	if f.Edge != nil {
		return pascal(f.Edge.Name) + "Id"
	}
	return f.Field.Name
}

// =============================================================================
// Rel type
// =============================================================================

// Rel is the relation-type discriminant of an edge — this package's
// rendering of SPEC_FULL.md's Relationship tagged union.
type Rel int

// Relation types, one per arm of the Relationship tagged union.
const (
	Unk Rel = iota // Unknown / unresolved.
	O2O            // OneToOne.
	O2M            // OneToMany (inverse side, mapped_by set).
	M2O            // ManyToOne (owner side, carries the FK column).
	M2M            // ManyToMany.
)

// String returns the relation name.
func (r Rel) String() string {
	switch r {
	case O2O:
		return "O2O"
	case O2M:
		return "O2M"
	case M2O:
		return "M2O"
	case M2M:
		return "M2M"
	default:
		return "Unknown"
	}
}
