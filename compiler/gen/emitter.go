package gen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dave/jennifer/jen"

	dsql "github.com/npagen/npagen/dialect/sql"
)

// =============================================================================
// Source Emitter (4.G)
//
// Given a RepositoryModel, EmitExtensions/EmitImplementation/
// EmitRelationshipHelper/EmitMetadataProvider each render one *.g.go
// artifact. The SQL text every derived method runs is computed here, at
// emission time, by calling straight through to the Templater (4.F) with
// the statically-known table/column names the graph already carries — the
// only values left for runtime are predicate operands and, for paginated
// methods, skip/take/orderBy, which travel as @-prefixed params.
// =============================================================================

const (
	ownerAlias = "t0"
	joinAlias  = "t1"
)

// RepositoryModel is the input to the Source Emitter: one repository's
// entity, its declared interface name, the dialect its SQL renders for, and
// the full set of methods (planner-derived plus user-declared) it must
// implement.
type RepositoryModel struct {
	Entity    *Type
	Interface string
	Dialect   dsql.Dialect
	Methods   []*DerivedMethod
}

// BuildRepositoryModel merges the Relationship Planner's (4.E) output with
// any additional user-declared method names (parsed the same way, via
// ParseMethodName) into one ordered RepositoryModel.
func BuildRepositoryModel(entity *Type, interfaceName string, declared []string, dialect dsql.Dialect) (*RepositoryModel, error) {
	methods, err := PlanRepository(entity)
	if err != nil {
		return nil, err
	}
	for _, name := range declared {
		intent, err := ParseMethodName(name, entity)
		if err != nil {
			return nil, fmt.Errorf("gen: emitter: declared method %q: %w", name, err)
		}
		methods = append(methods, &DerivedMethod{Kind: DerivedIntent, Name: name, Intent: intent})
	}
	sort.Slice(methods, func(i, j int) bool { return methods[i].Name < methods[j].Name })
	return &RepositoryModel{Entity: entity, Interface: interfaceName, Dialect: dialect, Methods: methods}, nil
}

// partialName is the sibling interface EmitExtensions declares.
func (rm *RepositoryModel) partialName() string { return rm.Interface + "Partial" }

// implName is the concrete struct EmitImplementation declares — the
// interface name with any leading "I" stripped.
func (rm *RepositoryModel) implName() string {
	name := strings.TrimPrefix(rm.Interface, "I")
	return name + "Implementation"
}

func newEmitterFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment("Code generated by npa. DO NOT EDIT.")
	return f
}

func entityPkgPath(t *Type) string {
	if t.Config != nil && t.Config.Package != "" {
		return t.Config.Package + "/" + t.PackageDir()
	}
	return t.PackageDir()
}

func entityQual(t *Type) jen.Code { return jen.Qual(entityPkgPath(t), t.Name) }

func goType(f *Field) jen.Code {
	var jg JenniferGenerator
	return jg.GoType(f)
}

// =============================================================================
// EmitExtensions — <Interface>Extensions.g.go
// =============================================================================

// EmitExtensions renders the Partial sibling interface and any tuple types
// the FindWithCount/summary methods need to scan multiple columns into.
func EmitExtensions(rm *RepositoryModel) *jen.File {
	f := newEmitterFile(strings.ToLower(rm.Entity.Name))

	for _, m := range rm.Methods {
		if t := tupleTypeDecl(rm, m); t != nil {
			f.Add(t)
		}
	}

	f.Type().Id(rm.partialName()).InterfaceFunc(func(g *jen.Group) {
		for _, m := range rm.Methods {
			params, results, err := methodSignature(rm, m)
			if err != nil {
				continue
			}
			g.Id(m.Name).Params(params...).Params(results...)
		}
	})
	return f
}

// tupleTypeName names the multi-mapping result type a FindWithCount or
// GroupSummary method returns.
func tupleTypeName(rm *RepositoryModel, m *DerivedMethod) string {
	switch m.Kind {
	case DerivedRelationFindWithCount:
		return pascal(rm.Entity.Name) + pascal(m.Edge.Name) + "Count"
	case DerivedGroupSummary:
		return pascal(rm.Entity.Name) + pascal(m.Edge.Name) + "Summary"
	default:
		return ""
	}
}

func tupleTypeDecl(rm *RepositoryModel, m *DerivedMethod) jen.Code {
	switch m.Kind {
	case DerivedRelationFindWithCount:
		name := tupleTypeName(rm, m)
		countCol := snake(m.Edge.Name) + "_count"
		return jen.Type().Id(name).Struct(
			jen.Op("*").Add(entityQual(rm.Entity)).Tag(map[string]string{"db": ",inline"}),
			jen.Id(pascal(m.Edge.Name)+"Count").Int64().Tag(map[string]string{"db": countCol}),
		)
	case DerivedGroupSummary:
		name := tupleTypeName(rm, m)
		fields := make([]jen.Code, 0, 2+4*len(numericFields(m.Edge.Type)))
		fields = append(fields, jen.Op("*").Add(entityQual(rm.Entity)).Tag(map[string]string{"db": ",inline"}))
		for _, cf := range numericFields(m.Edge.Type) {
			prop := cf.StructField()
			for _, agg := range []AggregateFunc{AggTotal, AggAverage, AggMin, AggMax} {
				fields = append(fields, jen.Id(agg.String()+prop).Op("*").Add(goType(cf)).
					Tag(map[string]string{"db": snake(agg.String() + prop)}))
			}
		}
		return jen.Type().Id(name).Struct(fields...)
	default:
		return nil
	}
}

func numericFields(t *Type) []*Field {
	var out []*Field
	for _, f := range t.Fields {
		if numericField(f) && !f.IsEdgeField() {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// EmitImplementation — <Interface>Implementation.g.go
// =============================================================================

// EmitImplementation renders the concrete, non-embedded struct backing both
// the user interface and its Partial sibling.
func EmitImplementation(rm *RepositoryModel) *jen.File {
	f := newEmitterFile(strings.ToLower(rm.Entity.Name))
	structName := rm.implName()

	f.Type().Id(structName).Struct(
		jen.Id("facade").Qual("github.com/npagen/npagen", "Facade"),
		jen.Id("dialect").Qual("github.com/npagen/npagen/dialect/sql", "Dialect"),
	)

	f.Func().Id("New"+structName).Params(
		jen.Id("facade").Qual("github.com/npagen/npagen", "Facade"),
		jen.Id("dialect").Qual("github.com/npagen/npagen/dialect/sql", "Dialect"),
	).Op("*").Id(structName).Block(
		jen.Return(jen.Op("&").Id(structName).Values(jen.Dict{
			jen.Id("facade"):  jen.Id("facade"),
			jen.Id("dialect"): jen.Id("dialect"),
		})),
	)

	for _, m := range rm.Methods {
		if decl := emitMethod(rm, m, structName); decl != nil {
			f.Add(decl)
		}
	}
	return f
}

func emitMethod(rm *RepositoryModel, m *DerivedMethod, structName string) jen.Code {
	params, results, err := methodSignature(rm, m)
	if err != nil {
		// A method whose signature or body cannot be synthesized is left
		// out of the file; no diagnostic is recorded for it.
		return nil
	}
	body, err := methodBody(rm, m)
	if err != nil {
		return nil
	}
	return jen.Func().Params(jen.Id("r").Op("*").Id(structName)).Id(m.Name).
		Params(params...).Params(results...).Block(body...)
}

// =============================================================================
// Method signatures
// =============================================================================

type boundParam struct {
	goName  string // e.g. "CustomerId"
	goType  jen.Code
	argName string // e.g. "customerId"
}

func methodSignature(rm *RepositoryModel, m *DerivedMethod) (params, results []jen.Code, err error) {
	params = []jen.Code{jen.Id("ctx").Qual("context", "Context")}

	switch m.Kind {
	case DerivedIntent:
		bound, _, _, err := predicateColumns(rm.Entity, m.Intent.Predicate)
		if err != nil {
			return nil, nil, err
		}
		for _, b := range bound {
			params = append(params, jen.Id(b.argName).Add(b.goType))
		}
		if m.Paginated {
			params = append(params, jen.Id("orderBy").String(), jen.Id("ascending").Bool(),
				jen.Id("skip").Int(), jen.Id("take").Int())
		}
		switch m.Intent.Verb {
		case VerbSelect:
			if m.Intent.First {
				results = []jen.Code{jen.Op("*").Add(entityQual(rm.Entity)), jen.Error()}
			} else {
				results = []jen.Code{jen.Index().Op("*").Add(entityQual(rm.Entity)), jen.Error()}
			}
		case VerbCount:
			results = []jen.Code{jen.Int64(), jen.Error()}
		case VerbExists:
			results = []jen.Code{jen.Bool(), jen.Error()}
		case VerbDelete:
			results = []jen.Code{jen.Int64(), jen.Error()}
		}
	case DerivedRelationHas:
		params = append(params, jen.Id("id").Add(goType(rm.Entity.ID)))
		results = []jen.Code{jen.Bool(), jen.Error()}
	case DerivedRelationCount:
		params = append(params, jen.Id("id").Add(goType(rm.Entity.ID)))
		results = []jen.Code{jen.Int64(), jen.Error()}
	case DerivedRelationFindWith, DerivedRelationFindWithout:
		results = []jen.Code{jen.Index().Op("*").Add(entityQual(rm.Entity)), jen.Error()}
	case DerivedRelationFindWithCount:
		results = []jen.Code{jen.Index().Op("*").Id(tupleTypeName(rm, m)), jen.Error()}
	case DerivedAggregate:
		params = append(params, jen.Id("id").Add(goType(rm.Entity.ID)))
		results = []jen.Code{jen.Op("*").Add(goType(m.Field)), jen.Error()}
	case DerivedGroupSummary:
		results = []jen.Code{jen.Index().Op("*").Id(tupleTypeName(rm, m)), jen.Error()}
	case DerivedManyToManyGet:
		results = []jen.Code{jen.Index().Op("*").Add(entityQual(m.Edge.Type)), jen.Error()}
	case DerivedManyToManyAdd, DerivedManyToManyRemove:
		params = append(params,
			jen.Id("id").Add(goType(rm.Entity.ID)),
			jen.Id("relatedId").Add(goType(m.Edge.Type.ID)))
		results = []jen.Code{jen.Error()}
	case DerivedManyToManyHas:
		params = append(params,
			jen.Id("id").Add(goType(rm.Entity.ID)),
			jen.Id("relatedId").Add(goType(m.Edge.Type.ID)))
		results = []jen.Code{jen.Bool(), jen.Error()}
	default:
		return nil, nil, fmt.Errorf("gen: emitter: unhandled derived kind %v", m.Kind)
	}
	return params, results, nil
}

// =============================================================================
// WHERE-clause / predicate resolution
// =============================================================================

// resolveColumn resolves a Term/Sort property path against entity, returning
// the column expression to use in SQL, the Go type of its leaf field, and a
// join the caller must include in the FROM clause (nil if none is needed).
//
// A two-hop path landing on the related entity's own Id field collapses to
// the owning edge's local foreign-key column directly — semantically that
// is just a scalar comparison against the FK ("orders.customer_id = @id"),
// never a join to the customers table.
func resolveColumn(entity *Type, path []string, alias string) (expr string, gt jen.Code, join *dsql.Join, err error) {
	qualify := func(col string) string {
		if alias == "" {
			return col
		}
		return alias + "." + col
	}
	switch len(path) {
	case 1:
		name := path[0]
		var f *Field
		if entity.ID != nil && entity.ID.StructField() == name {
			f = entity.ID
		} else {
			f, _ = fieldByStructName(entity, name)
		}
		if f == nil {
			return "", nil, nil, fmt.Errorf("gen: emitter: %q is not a field of %s", name, entity.Name)
		}
		return qualify(f.StorageKey()), goType(f), nil, nil
	case 2:
		edgeName, leaf := path[0], path[1]
		e, ok := entity.HasAssoc(edgeName)
		if !ok {
			return "", nil, nil, fmt.Errorf("gen: emitter: %q is not an edge of %s", edgeName, entity.Name)
		}
		if !e.OwnFK() {
			return "", nil, nil, fmt.Errorf("gen: emitter: edge %q has no local foreign key to navigate through", edgeName)
		}
		child := e.Type
		if leaf == "Id" {
			return qualify(e.Rel.Column()), goType(child.ID), nil, nil
		}
		f, ok := fieldByStructName(child, leaf)
		if !ok {
			return "", nil, nil, fmt.Errorf("gen: emitter: %q is not a field of %s", leaf, child.Name)
		}
		j := &dsql.Join{
			Kind:  "INNER",
			Table: child.Table(),
			Alias: joinAlias,
			On:    fmt.Sprintf("%s = %s.%s", qualify(e.Rel.Column()), joinAlias, child.ID.StorageKey()),
		}
		return joinAlias + "." + f.StorageKey(), goType(f), j, nil
	default:
		return "", nil, nil, fmt.Errorf("gen: emitter: paths longer than two hops are not supported")
	}
}

func paramNameForPath(path []string) string {
	var b strings.Builder
	for i, seg := range path {
		if i == 0 {
			b.WriteString(pascal(seg))
		} else {
			b.WriteString(seg)
		}
	}
	name := b.String()
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// predicateColumns walks pred (nil-safe) resolving every Term, returning the
// bound runtime params, the joins any two-hop term needed, and an error if
// any term doesn't resolve.
func predicateColumns(entity *Type, pred *Predicate) (bound []boundParam, exprs []string, joins []dsql.Join, err error) {
	if pred == nil {
		return nil, nil, nil, nil
	}
	seenJoin := map[string]bool{}
	for _, term := range pred.Terms {
		col, gt, join, err := resolveColumn(entity, term.Path, ownerAlias)
		if err != nil {
			return nil, nil, nil, err
		}
		if join != nil && !seenJoin[join.Table] {
			seenJoin[join.Table] = true
			joins = append(joins, *join)
		}
		argName := paramNameForPath(term.Path)
		cond, needsParam := renderCondition(col, term, argName)
		exprs = append(exprs, cond)
		if needsParam {
			bound = append(bound, boundParam{goName: pascal(argName), goType: gt, argName: argName})
		}
	}
	return bound, exprs, joins, nil
}

func renderWhere(pred *Predicate, exprs []string) string {
	if pred == nil || len(exprs) == 0 {
		return ""
	}
	var b strings.Builder
	for i, e := range exprs {
		if i > 0 {
			b.WriteString(" " + strings.ToUpper(pred.Conjunctions[i-1]) + " ")
		}
		b.WriteString(e)
	}
	return b.String()
}

// renderCondition renders one Term as a SQL fragment. Contains/HasPrefix/
// HasSuffix rely on the caller wrapping the bound value with the SQL
// wildcard itself (methodBody does this) rather than baking dialect-
// specific string concatenation into the templater.
func renderCondition(col string, term Term, argName string) (string, bool) {
	ref := "@" + argName
	lcol, lref := col, ref
	if term.IgnoreCase {
		lcol, lref = "LOWER("+col+")", "LOWER("+ref+")"
	}
	switch term.Op {
	case EQ:
		return lcol + " = " + lref, true
	case NEQ:
		return lcol + " <> " + lref, true
	case GT:
		return lcol + " > " + lref, true
	case GTE:
		return lcol + " >= " + lref, true
	case LT:
		return lcol + " < " + lref, true
	case LTE:
		return lcol + " <= " + lref, true
	case In:
		return lcol + " IN (" + lref + ")", true
	case NotIn:
		return lcol + " NOT IN (" + lref + ")", true
	case IsNil:
		return col + " IS NULL", false
	case NotNil:
		return col + " IS NOT NULL", false
	case EqualFold:
		return "LOWER(" + col + ") = LOWER(" + ref + ")", true
	case Contains, ContainsFold, HasPrefix, HasSuffix:
		return lcol + " LIKE " + lref, true
	default:
		return lcol + " = " + lref, true
	}
}

// paginationPlaceholderClause renders the dialect's pagination suffix using
// @skip/@take parameters instead of baked-in literals — the runtime
// counterpart of the Templater's paginate() for methods whose page window
// is only known at call time.
func paginationPlaceholderClause(d dsql.Dialect) string {
	if d == dsql.DialectSQLServer {
		return " OFFSET @skip ROWS FETCH NEXT @take ROWS ONLY"
	}
	return " LIMIT @take OFFSET @skip"
}

// =============================================================================
// Method bodies
// =============================================================================

func methodBody(rm *RepositoryModel, m *DerivedMethod) ([]jen.Code, error) {
	entity := rm.Entity
	switch m.Kind {
	case DerivedIntent:
		return intentBody(rm, m)
	case DerivedRelationHas:
		col := m.Edge.Type.Table() + "." + m.Edge.Rel.Column()
		sqlText := dsql.Exists(m.Edge.Type.Table(), col+" = @id")
		return []jen.Code{
			jen.Var().Id("count").Int64(),
			jen.If(jen.Err().Op(":=").Id("r").Dot("facade").Dot("ExecuteScalar").Call(
				jen.Id("ctx"), jen.Lit(sqlText),
				jen.Struct(jen.Id("Id").Add(goType(entity.ID))).Values(jen.Dict{jen.Id("Id"): jen.Id("id")}),
				jen.Op("&").Id("count"),
			).Op(";").Err().Op("!=").Nil()).Block(
				jen.Return(jen.False(), jen.Err()),
			),
			jen.Return(jen.Id("count").Op(">").Lit(0), jen.Nil()),
		}, nil
	case DerivedRelationCount:
		col := m.Edge.Type.Table() + "." + m.Edge.Rel.Column()
		sqlText := dsql.Count(m.Edge.Type.Table(), col+" = @id")
		return []jen.Code{
			jen.Var().Id("count").Int64(),
			jen.Err().Op(":=").Id("r").Dot("facade").Dot("ExecuteScalar").Call(
				jen.Id("ctx"), jen.Lit(sqlText),
				jen.Struct(jen.Id("Id").Add(goType(entity.ID))).Values(jen.Dict{jen.Id("Id"): jen.Id("id")}),
				jen.Op("&").Id("count"),
			),
			jen.Return(jen.Id("count"), jen.Err()),
		}, nil
	case DerivedRelationFindWith, DerivedRelationFindWithout:
		child := m.Edge.Type
		fk := m.Edge.Rel.Column()
		existsClause := fmt.Sprintf("EXISTS (SELECT 1 FROM %s WHERE %s.%s = %s.%s)",
			child.Table(), child.Table(), fk, ownerAlias, entity.ID.StorageKey())
		if m.Kind == DerivedRelationFindWithout {
			existsClause = "NOT " + existsClause
		}
		sqlText := dsql.Select(rm.Dialect, []string{ownerAlias + ".*"}, entity.Table(), ownerAlias, nil, existsClause, nil, 0, 0)
		return []jen.Code{
			jen.Var().Id("rows").Index().Op("*").Add(entityQual(entity)),
			jen.If(jen.Err().Op(":=").Id("r").Dot("facade").Dot("Query").Call(
				jen.Id("ctx"), jen.Lit(sqlText), jen.Nil(), jen.Op("&").Id("rows"),
			).Op(";").Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Err()),
			),
			jen.Return(jen.Id("rows"), jen.Nil()),
		}, nil
	case DerivedRelationFindWithCount:
		child := m.Edge.Type
		fk := m.Edge.Rel.Column()
		countExpr := fmt.Sprintf("(SELECT COUNT(1) FROM %s WHERE %s.%s = %s.%s) AS %s",
			child.Table(), child.Table(), fk, ownerAlias, entity.ID.StorageKey(), snake(m.Edge.Name)+"_count")
		sqlText := dsql.Select(rm.Dialect, []string{ownerAlias + ".*", countExpr}, entity.Table(), ownerAlias, nil, "", nil, 0, 0)
		tuple := tupleTypeName(rm, m)
		return []jen.Code{
			jen.Var().Id("rows").Index().Op("*").Id(tuple),
			jen.If(jen.Err().Op(":=").Id("r").Dot("facade").Dot("Query").Call(
				jen.Id("ctx"), jen.Lit(sqlText), jen.Nil(), jen.Op("&").Id("rows"),
			).Op(";").Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Err()),
			),
			jen.Return(jen.Id("rows"), jen.Nil()),
		}, nil
	case DerivedAggregate:
		expr := dsql.Aggregate(m.Agg.SQLFunc(), m.Field.StorageKey())
		sqlText := dsql.Select(rm.Dialect, []string{expr}, m.Edge.Type.Table(), "", nil, m.Edge.Rel.Column()+" = @id", nil, 0, 0)
		return []jen.Code{
			jen.Var().Id("result").Op("*").Add(goType(m.Field)),
			jen.Err().Op(":=").Id("r").Dot("facade").Dot("ExecuteScalar").Call(
				jen.Id("ctx"), jen.Lit(sqlText),
				jen.Struct(jen.Id("Id").Add(goType(entity.ID))).Values(jen.Dict{jen.Id("Id"): jen.Id("id")}),
				jen.Op("&").Id("result"),
			),
			jen.Return(jen.Id("result"), jen.Err()),
		}, nil
	case DerivedGroupSummary:
		return groupSummaryBody(rm, m)
	case DerivedManyToManyGet:
		sqlText := dsql.Select(rm.Dialect,
			[]string{joinAlias + ".*"}, m.Edge.Type.Table(), joinAlias,
			[]dsql.Join{{Kind: "INNER", Table: m.Edge.Rel.Table, Alias: "jt",
				On: fmt.Sprintf("jt.%s = %s.%s", m.Edge.Rel.Columns[1], joinAlias, m.Edge.Type.ID.StorageKey())}},
			"jt."+m.Edge.Rel.Columns[0]+" = @id", nil, 0, 0)
		return []jen.Code{
			jen.Var().Id("rows").Index().Op("*").Add(entityQual(m.Edge.Type)),
			jen.If(jen.Err().Op(":=").Id("r").Dot("facade").Dot("Query").Call(
				jen.Id("ctx"), jen.Lit(sqlText),
				jen.Struct(jen.Id("Id").Add(goType(entity.ID))).Values(jen.Dict{jen.Id("Id"): jen.Id("id")}),
				jen.Op("&").Id("rows"),
			).Op(";").Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Err()),
			),
			jen.Return(jen.Id("rows"), jen.Nil()),
		}, nil
	case DerivedManyToManyAdd, DerivedManyToManyRemove:
		var sqlText string
		if m.Kind == DerivedManyToManyAdd {
			sqlText = dsql.Insert(m.Edge.Rel.Table, []string{m.Edge.Rel.Columns[0], m.Edge.Rel.Columns[1]}, []string{"@id", "@relatedId"})
		} else {
			sqlText = dsql.Delete(m.Edge.Rel.Table, fmt.Sprintf("%s = @id AND %s = @relatedId", m.Edge.Rel.Columns[0], m.Edge.Rel.Columns[1]))
		}
		return []jen.Code{
			jen.List(jen.Id("_"), jen.Err()).Op(":=").Id("r").Dot("facade").Dot("Execute").Call(
				jen.Id("ctx"), jen.Lit(sqlText),
				jen.Struct(jen.Id("Id").Add(goType(entity.ID)), jen.Id("RelatedId").Add(goType(m.Edge.Type.ID))).
					Values(jen.Dict{jen.Id("Id"): jen.Id("id"), jen.Id("RelatedId"): jen.Id("relatedId")}),
			),
			jen.Return(jen.Err()),
		}, nil
	case DerivedManyToManyHas:
		sqlText := dsql.Exists(m.Edge.Rel.Table, fmt.Sprintf("%s = @id AND %s = @relatedId", m.Edge.Rel.Columns[0], m.Edge.Rel.Columns[1]))
		return []jen.Code{
			jen.Var().Id("count").Int64(),
			jen.If(jen.Err().Op(":=").Id("r").Dot("facade").Dot("ExecuteScalar").Call(
				jen.Id("ctx"), jen.Lit(sqlText),
				jen.Struct(jen.Id("Id").Add(goType(entity.ID)), jen.Id("RelatedId").Add(goType(m.Edge.Type.ID))).
					Values(jen.Dict{jen.Id("Id"): jen.Id("id"), jen.Id("RelatedId"): jen.Id("relatedId")}),
				jen.Op("&").Id("count"),
			).Op(";").Err().Op("!=").Nil()).Block(
				jen.Return(jen.False(), jen.Err()),
			),
			jen.Return(jen.Id("count").Op(">").Lit(0), jen.Nil()),
		}, nil
	default:
		return nil, fmt.Errorf("gen: emitter: unhandled derived kind %v", m.Kind)
	}
}

func groupSummaryBody(rm *RepositoryModel, m *DerivedMethod) ([]jen.Code, error) {
	entity := rm.Entity
	child := m.Edge.Type
	fk := m.Edge.Rel.Column()
	parentCols := []string{entity.Table() + "." + entity.ID.StorageKey()}
	for _, f := range entity.Fields {
		if !f.IsEdgeField() {
			parentCols = append(parentCols, entity.Table()+"."+f.StorageKey())
		}
	}
	var aggs []dsql.AggregateExpr
	for _, cf := range numericFields(child) {
		prop := cf.StructField()
		for _, agg := range []AggregateFunc{AggTotal, AggAverage, AggMin, AggMax} {
			aggs = append(aggs, dsql.AggregateExpr{
				Func:  agg.SQLFunc(),
				Col:   child.Table() + "." + cf.StorageKey(),
				Alias: snake(agg.String() + prop),
			})
		}
	}
	sqlText := dsql.GroupBySummary(entity.Table(), child.Table(), fk, parentCols, aggs)
	tuple := tupleTypeName(rm, m)
	return []jen.Code{
		jen.Var().Id("rows").Index().Op("*").Id(tuple),
		jen.If(jen.Err().Op(":=").Id("r").Dot("facade").Dot("Query").Call(
			jen.Id("ctx"), jen.Lit(sqlText), jen.Nil(), jen.Op("&").Id("rows"),
		).Op(";").Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Id("rows"), jen.Nil()),
	}, nil
}

func intentBody(rm *RepositoryModel, m *DerivedMethod) ([]jen.Code, error) {
	entity := rm.Entity
	intent := m.Intent
	bound, exprs, joins, err := predicateColumns(entity, intent.Predicate)
	if err != nil {
		return nil, err
	}
	where := renderWhere(intent.Predicate, exprs)

	// Contains/StartsWith/EndsWith need the wildcard baked into the bound
	// value itself; the SQL side is a plain LIKE @param (renderCondition).
	values := jen.Dict{}
	fields := make([]jen.Code, 0, len(bound))
	for i, b := range bound {
		fields = append(fields, jen.Id(b.goName).Add(b.goType))
		term := intent.Predicate.Terms[i]
		switch term.Op {
		case Contains, ContainsFold:
			values[jen.Id(b.goName)] = jen.Lit("%").Op("+").Id(b.argName).Op("+").Lit("%")
		case HasPrefix:
			values[jen.Id(b.goName)] = jen.Id(b.argName).Op("+").Lit("%")
		case HasSuffix:
			values[jen.Id(b.goName)] = jen.Lit("%").Op("+").Id(b.argName)
		default:
			values[jen.Id(b.goName)] = jen.Id(b.argName)
		}
	}

	switch intent.Verb {
	case VerbSelect:
		if m.Paginated {
			return pagedSelectBody(rm, m, entity, fields, values, where, joins)
		}
		var orderBy []dsql.OrderByClause
		for _, s := range intent.OrderBy {
			col, _, _, err := resolveColumn(entity, []string{s.Property}, ownerAlias)
			if err != nil {
				continue
			}
			orderBy = append(orderBy, dsql.OrderByClause{Column: col, Desc: s.Descending})
		}
		limit := 0
		if intent.First {
			limit = intent.Limit
		}
		sqlText := dsql.Select(rm.Dialect, []string{ownerAlias + ".*"}, entity.Table(), ownerAlias, joins, where, orderBy, limit, 0)
		paramsExpr := jen.Nil()
		if len(fields) > 0 {
			paramsExpr = jen.Struct(fields...).Values(values)
		}
		if intent.First {
			return []jen.Code{
				jen.Var().Id("dest").Add(entityQual(entity)),
				jen.Err().Op(":=").Id("r").Dot("facade").Dot("QuerySingle").Call(
					jen.Id("ctx"), jen.Lit(sqlText), paramsExpr, jen.Op("&").Id("dest")),
				jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Nil(), jen.Err())),
				jen.Return(jen.Op("&").Id("dest"), jen.Nil()),
			}, nil
		}
		return []jen.Code{
			jen.Var().Id("rows").Index().Op("*").Add(entityQual(entity)),
			jen.If(jen.Err().Op(":=").Id("r").Dot("facade").Dot("Query").Call(
				jen.Id("ctx"), jen.Lit(sqlText), paramsExpr, jen.Op("&").Id("rows"),
			).Op(";").Err().Op("!=").Nil()).Block(
				jen.Return(jen.Nil(), jen.Err()),
			),
			jen.Return(jen.Id("rows"), jen.Nil()),
		}, nil
	case VerbCount:
		sqlText := dsql.Count(entity.Table(), strings.ReplaceAll(where, ownerAlias+".", ""))
		paramsExpr := jen.Nil()
		if len(fields) > 0 {
			paramsExpr = jen.Struct(fields...).Values(values)
		}
		return []jen.Code{
			jen.Var().Id("count").Int64(),
			jen.Err().Op(":=").Id("r").Dot("facade").Dot("ExecuteScalar").Call(
				jen.Id("ctx"), jen.Lit(sqlText), paramsExpr, jen.Op("&").Id("count")),
			jen.Return(jen.Id("count"), jen.Err()),
		}, nil
	case VerbExists:
		sqlText := dsql.Exists(entity.Table(), strings.ReplaceAll(where, ownerAlias+".", ""))
		paramsExpr := jen.Nil()
		if len(fields) > 0 {
			paramsExpr = jen.Struct(fields...).Values(values)
		}
		return []jen.Code{
			jen.Var().Id("count").Int64(),
			jen.If(jen.Err().Op(":=").Id("r").Dot("facade").Dot("ExecuteScalar").Call(
				jen.Id("ctx"), jen.Lit(sqlText), paramsExpr, jen.Op("&").Id("count"),
			).Op(";").Err().Op("!=").Nil()).Block(
				jen.Return(jen.False(), jen.Err()),
			),
			jen.Return(jen.Id("count").Op(">").Lit(0), jen.Nil()),
		}, nil
	case VerbDelete:
		sqlText := dsql.Delete(entity.Table(), strings.ReplaceAll(where, ownerAlias+".", ""))
		paramsExpr := jen.Nil()
		if len(fields) > 0 {
			paramsExpr = jen.Struct(fields...).Values(values)
		}
		return []jen.Code{
			jen.Return(jen.Id("r").Dot("facade").Dot("Execute").Call(jen.Id("ctx"), jen.Lit(sqlText), paramsExpr)),
		}, nil
	default:
		return nil, fmt.Errorf("gen: emitter: unhandled verb %v", intent.Verb)
	}
}

// pagedSelectBody emits a method whose ORDER BY column and direction are
// chosen at runtime from a generation-time allow-list (never from the raw
// orderBy argument), and whose LIMIT/OFFSET travel as @take/@skip params —
// the "hard SQL-injection guard" a dynamic sort/page argument needs.
func pagedSelectBody(rm *RepositoryModel, m *DerivedMethod, entity *Type, fields []jen.Code, values jen.Dict, where string, joins []dsql.Join) ([]jen.Code, error) {
	baseSQL := dsql.Select(rm.Dialect, []string{ownerAlias + ".*"}, entity.Table(), ownerAlias, joins, where, nil, 0, 0)
	suffix := paginationPlaceholderClause(rm.Dialect)

	defaultCol := ownerAlias + "." + entity.ID.StorageKey()
	orderColumns := jen.Dict{}
	for _, f := range entity.Fields {
		if f.IsEdgeField() {
			continue
		}
		orderColumns[jen.Lit(f.StructField())] = jen.Lit(ownerAlias + "." + f.StorageKey())
	}
	orderColumns[jen.Lit(entity.ID.StructField())] = jen.Lit(defaultCol)

	fields = append(fields, jen.Id("Skip").Int(), jen.Id("Take").Int())
	values[jen.Id("Skip")] = jen.Id("skip")
	values[jen.Id("Take")] = jen.Id("take")

	return []jen.Code{
		jen.Id("orderColumns").Op(":=").Map(jen.String()).String().Values(orderColumns),
		jen.Id("col").Op(",").Id("ok").Op(":=").Id("orderColumns").Index(jen.Id("orderBy")),
		jen.If(jen.Op("!").Id("ok")).Block(jen.Id("col").Op("=").Lit(defaultCol)),
		jen.Id("dir").Op(":=").Lit("ASC"),
		jen.If(jen.Op("!").Id("ascending")).Block(jen.Id("dir").Op("=").Lit("DESC")),
		jen.Id("sqlText").Op(":=").Lit(baseSQL).Op("+").Lit(" ORDER BY ").Op("+").Id("col").Op("+").Lit(" ").Op("+").Id("dir").Op("+").Lit(suffix),
		jen.Var().Id("rows").Index().Op("*").Add(entityQual(entity)),
		jen.If(jen.Err().Op(":=").Id("r").Dot("facade").Dot("Query").Call(
			jen.Id("ctx"), jen.Id("sqlText"), jen.Struct(fields...).Values(values), jen.Op("&").Id("rows"),
		).Op(";").Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Id("rows"), jen.Nil()),
	}, nil
}

// =============================================================================
// EmitRelationshipHelper — <Entity>RelationshipHelper.g.go
// =============================================================================

// EmitRelationshipHelper renders AddTo<P>/RemoveFrom<P>/Set<T>/
// ValidateRelationshipConsistency for every bidirectional relationship on t
// (an O2M edge whose inverse ManyToOne/OneToOne is mapped_by). Returns nil
// if t has no bidirectional edges.
func EmitRelationshipHelper(t *Type) *jen.File {
	var edges []*Edge
	for _, e := range t.Edges {
		if e.O2M() && !e.IsInverse() {
			edges = append(edges, e)
		}
	}
	if len(edges) == 0 {
		return nil
	}

	f := newEmitterFile(strings.ToLower(t.Name))
	for _, e := range edges {
		emitAddTo(f, t, e)
		emitRemoveFrom(f, t, e)
		emitSet(f, t, e)
		emitValidateConsistency(f, t, e)
	}
	return f
}

// inverseField returns the scalar FK field on e's child entity, if the
// schema declared one explicitly — e is the parent's O2M collection edge,
// so the FK itself lives on e.Ref, the child's M2O edge pointing back.
func inverseField(e *Edge) *Field {
	if e.Ref == nil {
		return nil
	}
	return e.Ref.Field()
}

func emitAddTo(f *jen.File, parent *Type, e *Edge) {
	p := pascal(e.Name)
	child := e.Type
	fkField := inverseField(e)

	body := []jen.Code{
		jen.If(jen.Id("parent").Dot(p).Op("==").Nil()).Block(
			jen.Id("parent").Dot(p).Op("=").Index().Op("*").Add(entityQual(child)).Values(),
		),
		jen.For(jen.List(jen.Id("_"), jen.Id("existing")).Op(":=").Range().Id("parent").Dot(p)).Block(
			jen.If(jen.Id("existing").Op("==").Id("child")).Block(jen.Return()),
		),
		jen.Id("parent").Dot(p).Op("=").Append(jen.Id("parent").Dot(p), jen.Id("child")),
	}
	if fkField != nil {
		body = append(body, jen.Id("child").Dot(fkField.StructField()).Op("=").Id("parent").Dot(parent.ID.StructField()))
	}

	f.Func().Id("AddTo"+p).Params(
		jen.Id("parent").Op("*").Add(entityQual(parent)),
		jen.Id("child").Op("*").Add(entityQual(child)),
	).Block(body...)
}

func emitRemoveFrom(f *jen.File, parent *Type, e *Edge) {
	p := pascal(e.Name)
	child := e.Type
	fkField := inverseField(e)

	body := []jen.Code{
		jen.For(jen.Id("i").Op(",").Id("existing").Op(":=").Range().Id("parent").Dot(p)).Block(
			jen.If(jen.Id("existing").Op("==").Id("child")).Block(
				jen.Id("parent").Dot(p).Op("=").Append(
					jen.Id("parent").Dot(p).Index(jen.Op(":").Id("i")),
					jen.Id("parent").Dot(p).Index(jen.Id("i").Op("+").Lit(1).Op(":")).Op("...")),
				jen.Break(),
			),
		),
	}
	if fkField != nil && fkField.Nillable {
		body = append(body, jen.Id("child").Dot(fkField.StructField()).Op("=").Nil())
	} else if fkField != nil {
		body = append(body, jen.Comment("inverse FK is non-nullable; the reference is cleared to its zero value instead of nil"),
			jen.Id("child").Dot(fkField.StructField()).Op("=").Add(goType(fkField)).Call())
	}

	f.Func().Id("RemoveFrom"+p).Params(
		jen.Id("parent").Op("*").Add(entityQual(parent)),
		jen.Id("child").Op("*").Add(entityQual(child)),
	).Block(body...)
}

func emitSet(f *jen.File, parent *Type, e *Edge) {
	p := pascal(e.Name)
	child := e.Type

	f.Func().Id("Set"+pascal(child.Name)).Params(
		jen.Id("oldParent").Op("*").Add(entityQual(parent)),
		jen.Id("newParent").Op("*").Add(entityQual(parent)),
		jen.Id("child").Op("*").Add(entityQual(child)),
	).Block(
		jen.If(jen.Id("oldParent").Op("!=").Nil()).Block(
			jen.Id("RemoveFrom"+p).Call(jen.Id("oldParent"), jen.Id("child")),
		),
		jen.Id("AddTo"+p).Call(jen.Id("newParent"), jen.Id("child")),
	)
}

func emitValidateConsistency(f *jen.File, parent *Type, e *Edge) {
	p := pascal(e.Name)
	child := e.Type
	fkField := inverseField(e)
	if fkField == nil {
		return
	}

	f.Func().Id("ValidateRelationshipConsistency" + p).Params(
		jen.Id("parent").Op("*").Add(entityQual(parent)),
	).Error().Block(
		jen.For(jen.List(jen.Id("_"), jen.Id("child")).Op(":=").Range().Id("parent").Dot(p)).Block(
			jen.If(jen.Id("child").Dot(fkField.StructField()).Op("!=").Id("parent").Dot(parent.ID.StructField())).Block(
				jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit(p+": relationship is inconsistent: child %v does not reference parent %v"),
					jen.Id("child").Dot(child.ID.StructField()), jen.Id("parent").Dot(parent.ID.StructField()))),
			),
		),
		jen.Return(jen.Nil()),
	)
}

// =============================================================================
// EmitMetadataProvider — GeneratedMetadataProvider.g.go
// =============================================================================

// EmitMetadataProvider renders the single, compilation-wide
// npa.MetadataProvider implementation: an in-memory table from every
// entity's reflect.Type to its full npa.EntityMetadata.
func EmitMetadataProvider(nodes []*Type) *jen.File {
	sorted := append([]*Type(nil), nodes...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	f := newEmitterFile("metadata")

	f.Type().Id("GeneratedMetadataProvider").Struct(
		jen.Id("byType").Map(jen.Qual("reflect", "Type")).Qual("github.com/npagen/npagen", "EntityMetadata"),
		jen.Id("all").Index().Qual("github.com/npagen/npagen", "EntityMetadata"),
	)

	ctorBody := []jen.Code{
		jen.Id("p").Op(":=").Op("&").Id("GeneratedMetadataProvider").Values(jen.Dict{
			jen.Id("byType"): jen.Make(jen.Map(jen.Qual("reflect", "Type")).Qual("github.com/npagen/npagen", "EntityMetadata")),
		}),
	}
	for _, t := range sorted {
		ctorBody = append(ctorBody, jen.Id("p").Dot("register").Call(entityMetadataValue(t)))
	}
	ctorBody = append(ctorBody, jen.Return(jen.Id("p")))

	f.Func().Id("NewGeneratedMetadataProvider").Params().Op("*").Id("GeneratedMetadataProvider").Block(ctorBody...)

	f.Func().Params(jen.Id("p").Op("*").Id("GeneratedMetadataProvider")).Id("register").
		Params(jen.Id("m").Qual("github.com/npagen/npagen", "EntityMetadata")).Block(
		jen.Id("p").Dot("byType").Index(jen.Id("m").Dot("Type")).Op("=").Id("m"),
		jen.Id("p").Dot("all").Op("=").Append(jen.Id("p").Dot("all"), jen.Id("m")),
	)

	f.Func().Params(jen.Id("p").Op("*").Id("GeneratedMetadataProvider")).Id("GetByType").
		Params(jen.Id("t").Qual("reflect", "Type")).
		Params(jen.Qual("github.com/npagen/npagen", "EntityMetadata"), jen.Bool()).Block(
		jen.List(jen.Id("m"), jen.Id("ok")).Op(":=").Id("p").Dot("byType").Index(jen.Id("t")),
		jen.Return(jen.Id("m"), jen.Id("ok")),
	)

	f.Func().Params(jen.Id("p").Op("*").Id("GeneratedMetadataProvider")).Id("IsEntity").
		Params(jen.Id("t").Qual("reflect", "Type")).Bool().Block(
		jen.List(jen.Id("_"), jen.Id("ok")).Op(":=").Id("p").Dot("byType").Index(jen.Id("t")),
		jen.Return(jen.Id("ok")),
	)

	f.Func().Params(jen.Id("p").Op("*").Id("GeneratedMetadataProvider")).Id("All").
		Params().Index().Qual("github.com/npagen/npagen", "EntityMetadata").Block(
		jen.Return(jen.Id("p").Dot("all")),
	)

	return f
}

func entityMetadataValue(t *Type) jen.Code {
	propValues := make([]jen.Code, 0, len(t.Fields)+1)
	propValues = append(propValues, jen.Values(jen.Dict{
		jen.Id("Name"):   jen.Lit(t.ID.StructField()),
		jen.Id("Column"): jen.Lit(t.ID.StorageKey()),
	}))
	for _, fld := range t.Fields {
		if fld.IsEdgeField() {
			continue
		}
		propValues = append(propValues, jen.Values(jen.Dict{
			jen.Id("Name"):   jen.Lit(fld.StructField()),
			jen.Id("Column"): jen.Lit(fld.StorageKey()),
		}))
	}

	var relValues []jen.Code
	for _, e := range t.Edges {
		kind := "ManyToOne"
		switch {
		case e.O2M():
			kind = "OneToMany"
		case e.O2O():
			kind = "OneToOne"
		case e.M2M():
			kind = "ManyToMany"
		}
		relValues = append(relValues, jen.Values(jen.Dict{
			jen.Id("Name"):       jen.Lit(pascal(e.Name)),
			jen.Id("Kind"):       jen.Lit(kind),
			jen.Id("TargetType"): jen.Qual("reflect", "TypeOf").Call(entityQual(e.Type).Values()),
			jen.Id("Inverse"):    jen.Lit(e.Inverse),
		}))
	}

	return jen.Values(jen.Dict{
		jen.Id("Type"):          jen.Qual("reflect", "TypeOf").Call(entityQual(t).Values()),
		jen.Id("Table"):         jen.Lit(t.Table()),
		jen.Id("KeyProperty"):   jen.Lit(t.ID.StructField()),
		jen.Id("KeyColumn"):     jen.Lit(t.ID.StorageKey()),
		jen.Id("Properties"):    jen.Index().Qual("github.com/npagen/npagen", "PropertyMetadata").Values(propValues...),
		jen.Id("Relationships"): jen.Index().Qual("github.com/npagen/npagen", "RelationshipMetadata").Values(relValues...),
	})
}
