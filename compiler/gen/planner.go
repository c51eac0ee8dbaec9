package gen

import "fmt"

// DerivedKind discriminates the shape of a DerivedMethod: whether its SQL
// is produced by handing its Name back through ParseMethodName (the same
// grammar a user-declared method uses), or whether it is a
// relationship-shaped operation the grammar does not cover on its own
// (existence/aggregate checks, ManyToMany mutation, GROUP BY summaries).
type DerivedKind int

const (
	// DerivedIntent methods resolve via ParseMethodName, same as a
	// user-declared repository method — FindByCustomerIdAsync and friends.
	DerivedIntent DerivedKind = iota
	// DerivedRelationHas reports whether any child row references the
	// parent ("HasOrdersAsync").
	DerivedRelationHas
	// DerivedRelationCount counts child rows ("CountOrdersAsync").
	DerivedRelationCount
	// DerivedRelationFindWith/FindWithout select parents by whether they
	// have any matching children.
	DerivedRelationFindWith
	DerivedRelationFindWithout
	// DerivedRelationFindWithCount selects parents alongside their child
	// count.
	DerivedRelationFindWithCount
	// DerivedAggregate computes Total/Average/Min/Max over one numeric
	// property of the child entity, grouped by the parent's key.
	DerivedAggregate
	// DerivedGroupSummary returns one summary row per parent, aggregating
	// across all of its children via an outer join (section 9: GROUP BY
	// summaries always emit an outer LEFT JOIN).
	DerivedGroupSummary
	// DerivedManyToManyGet/Add/Remove/Has operate a join table directly.
	DerivedManyToManyGet
	DerivedManyToManyAdd
	DerivedManyToManyRemove
	DerivedManyToManyHas
)

// AggregateFunc names the SQL aggregate a DerivedAggregate method wraps.
type AggregateFunc int

const (
	AggTotal AggregateFunc = iota
	AggAverage
	AggMin
	AggMax
)

func (a AggregateFunc) String() string {
	switch a {
	case AggTotal:
		return "Total"
	case AggAverage:
		return "Average"
	case AggMin:
		return "Min"
	case AggMax:
		return "Max"
	default:
		return "Total"
	}
}

// SQLFunc is the SQL aggregate function name.
func (a AggregateFunc) SQLFunc() string {
	switch a {
	case AggTotal:
		return "SUM"
	case AggAverage:
		return "AVG"
	case AggMin:
		return "MIN"
	case AggMax:
		return "MAX"
	default:
		return "SUM"
	}
}

// DerivedMethod is one repository method the Relationship Planner (4.E)
// synthesizes from a Type's relationships, instead of from a user-declared
// method name. The SQL Templater (4.F) and Source Emitter (4.G) read
// straight through Edge/Field/Type rather than duplicating their data here.
type DerivedMethod struct {
	Kind DerivedKind
	Name string

	// Edge is the relationship this method derives from. Always set
	// except for DerivedIntent methods synthesized from a plain,
	// non-relational field.
	Edge *Edge

	// Intent is populated for DerivedIntent methods: the parsed form of
	// Name, produced the same way a user-declared method name would be.
	Intent *Intent

	// Field is the child-entity numeric property a DerivedAggregate
	// method aggregates.
	Field *Field
	Agg   AggregateFunc

	Paginated bool
	Sorted    bool
}

// PlanRepository derives the full set of relationship-shaped repository
// methods for t, per 4.E. It does not include methods a user declares
// explicitly on the repository interface — those are parsed individually
// via ParseMethodName when the interface is loaded.
func PlanRepository(t *Type) ([]*DerivedMethod, error) {
	var methods []*DerivedMethod
	for _, e := range t.Edges {
		switch {
		case e.M2O(), e.O2O() && e.OwnFK():
			ms, err := planOwnerSide(t, e)
			if err != nil {
				return nil, err
			}
			methods = append(methods, ms...)
		case e.O2M():
			methods = append(methods, planInverseSide(t, e)...)
		case e.M2M():
			methods = append(methods, planManyToMany(t, e)...)
		}
	}
	if t.HasFeature(FeatureComplexFilters.Name) {
		methods = append(methods, planComplexFilters(t)...)
	}
	return methods, nil
}

// planOwnerSide handles a ManyToOne (or owner-side OneToOne) edge: the
// repository for the owning entity gets FindBy<Edge>IdAsync, its
// paginated+sorted overload FindBy<Edge>IdPagedAsync, and
// CountBy<Edge>IdAsync — the FK-navigation shaped methods the user never
// spells out by hand. No FindBy<Property>Async methods over plain scalar
// properties are produced here.
func planOwnerSide(t *Type, e *Edge) ([]*DerivedMethod, error) {
	nav := pascal(e.Name)
	findName := fmt.Sprintf("FindBy%sIdAsync", nav)
	pagedName := fmt.Sprintf("FindBy%sIdPagedAsync", nav)
	countName := fmt.Sprintf("CountBy%sIdAsync", nav)

	// pagedName carries "Paged" to keep it distinct from findName as a Go
	// identifier; it is not part of the grammar, so both names share the
	// Intent parsed from findName rather than being reparsed individually.
	intent, err := ParseMethodName(findName, t)
	if err != nil {
		return nil, fmt.Errorf("gen: planner: %w", err)
	}
	var out []*DerivedMethod
	for _, spec := range []struct {
		name      string
		paginated bool
	}{
		{findName, false},
		{pagedName, true},
	} {
		out = append(out, &DerivedMethod{
			Kind:      DerivedIntent,
			Name:      spec.name,
			Edge:      e,
			Intent:    intent,
			Paginated: spec.paginated,
			Sorted:    spec.paginated,
		})
	}
	countIntent, err := ParseMethodName(countName, t)
	if err != nil {
		return nil, fmt.Errorf("gen: planner: %w", err)
	}
	out = append(out, &DerivedMethod{Kind: DerivedIntent, Name: countName, Edge: e, Intent: countIntent})
	return out, nil
}

// planInverseSide handles an inverse OneToMany edge e on t (t is the
// parent; e.Type is the child): existence/count/presence checks against
// the children, plus per-numeric-child-property aggregates and one
// GROUP BY summary.
func planInverseSide(t *Type, e *Edge) []*DerivedMethod {
	p := pascal(e.Name)
	out := []*DerivedMethod{
		{Kind: DerivedRelationHas, Name: "Has" + p + "Async", Edge: e},
		{Kind: DerivedRelationCount, Name: "Count" + p + "Async", Edge: e},
		{Kind: DerivedRelationFindWith, Name: "FindWith" + p + "Async", Edge: e},
		{Kind: DerivedRelationFindWithout, Name: "FindWithout" + p + "Async", Edge: e},
		{Kind: DerivedRelationFindWithCount, Name: "FindWith" + p + "CountAsync", Edge: e},
	}
	child := e.Type
	for _, f := range child.Fields {
		if !numericField(f) || f.IsEdgeField() {
			continue
		}
		prop := f.StructField()
		for _, agg := range []AggregateFunc{AggTotal, AggAverage, AggMin, AggMax} {
			out = append(out, &DerivedMethod{
				Kind:  DerivedAggregate,
				Name:  fmt.Sprintf("Get%s%s%sAsync", agg.String(), p, prop),
				Edge:  e,
				Field: f,
				Agg:   agg,
			})
		}
	}
	out = append(out, &DerivedMethod{
		Kind: DerivedGroupSummary,
		Name: "Get" + p + "SummaryAsync",
		Edge: e,
	})
	return out
}

// planManyToMany handles a ManyToMany edge: Get/Add/Remove/Has against the
// join table.
func planManyToMany(t *Type, e *Edge) []*DerivedMethod {
	p := pascal(e.Name)
	return []*DerivedMethod{
		{Kind: DerivedManyToManyGet, Name: "Get" + p + "Async", Edge: e},
		{Kind: DerivedManyToManyAdd, Name: "Add" + p + "Async", Edge: e},
		{Kind: DerivedManyToManyRemove, Name: "Remove" + p + "Async", Edge: e},
		{Kind: DerivedManyToManyHas, Name: "Has" + p + "Async", Edge: e},
	}
}

// planComplexFilters (FeatureComplexFilters, off by default) synthesizes,
// for every ManyToOne edge e, one FindBy<Edge><Property>Async filter per
// non-key scalar property of e.Type (e.g. FindByCustomerNameAsync), each
// resolved through ParseMethodName against t. It goes one hop only:
// e.Type's own relationships are not followed, and no OR-combined filters
// across two relationships are produced.
func planComplexFilters(t *Type) []*DerivedMethod {
	var out []*DerivedMethod
	for _, e := range t.Edges {
		if !e.M2O() {
			continue
		}
		related := e.Type
		for _, f := range related.Fields {
			if f.IsEdgeField() || f == related.ID {
				continue
			}
			name := fmt.Sprintf("FindBy%s%sAsync", pascal(e.Name), f.StructField())
			intent, err := ParseMethodName(name, t)
			if err != nil {
				// The edge/property path isn't expressible for this property
				// (e.g. it collides with one of t's own fields); skip it
				// rather than fail the whole plan.
				continue
			}
			out = append(out, &DerivedMethod{Kind: DerivedIntent, Name: name, Edge: e, Intent: intent})
		}
	}
	return out
}

// numericField reports whether f holds a SQL-numeric value eligible for
// SUM/AVG/MIN/MAX aggregation.
func numericField(f *Field) bool {
	return f != nil && f.Type != nil && f.Type.Numeric()
}
