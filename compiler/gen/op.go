package gen

import "github.com/npagen/npagen/schema/field"

// Op is a predicate operator a generated repository method (or CPQL
// translation, 4.D) can apply to a field: the counterpart of the
// Method-Name Parser's (4.C) Term.Op.
type Op int

// Predicate operators, grounded in the comparison/string/null terms the
// method-name grammar (4.C) and CPQL translator (4.D) both recognize.
const (
	EQ Op = iota
	NEQ
	GT
	GTE
	LT
	LTE
	In
	NotIn
	IsNil
	NotNil
	EqualFold
	Contains
	ContainsFold
	HasPrefix
	HasSuffix
)

var opNames = [...]string{
	EQ: "EQ", NEQ: "NEQ", GT: "GT", GTE: "GTE", LT: "LT", LTE: "LTE",
	In: "In", NotIn: "NotIn", IsNil: "IsNil", NotNil: "NotNil",
	EqualFold: "EqualFold", Contains: "Contains", ContainsFold: "ContainsFold",
	HasPrefix: "HasPrefix", HasSuffix: "HasSuffix",
}

// Name returns the canonical predicate function name for this operator,
// e.g. "EQ" renders as "<Field>EQ" in the generated predicate package.
func (o Op) Name() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "Op"
}

// comparable and in/not-in apply to every field type except JSON.
var baseOps = []Op{EQ, NEQ, GT, GTE, LT, LTE, In, NotIn}

// fieldOps returns the predicate operators available for f, based on its
// type: strings add fold/prefix/suffix/substring matches, nillable fields
// add IsNil/NotNil. JSON fields have none.
func fieldOps(f *Field) []Op {
	if f == nil || f.Type == nil || f.Type.Type == field.TypeJSON {
		return nil
	}
	ops := append([]Op(nil), baseOps...)
	if f.IsString() {
		ops = append(ops, EqualFold, Contains, ContainsFold, HasPrefix, HasSuffix)
	}
	if f.Nillable || f.Optional {
		ops = append(ops, IsNil, NotNil)
	}
	return ops
}
