package gen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Verb is the operation a parsed repository method name requests.
type Verb int

const (
	VerbSelect Verb = iota
	VerbCount
	VerbExists
	VerbDelete
)

func (v Verb) String() string {
	switch v {
	case VerbSelect:
		return "Select"
	case VerbCount:
		return "Count"
	case VerbExists:
		return "Exists"
	case VerbDelete:
		return "Delete"
	default:
		return "Select"
	}
}

// verbTokens maps every recognized leading verb token to its Verb. Find,
// Get, Query, Search, Read and Stream all denote a row-returning select;
// the others each have a single reading.
var verbTokens = map[string]Verb{
	"Find":   VerbSelect,
	"Get":    VerbSelect,
	"Query":  VerbSelect,
	"Search": VerbSelect,
	"Read":   VerbSelect,
	"Stream": VerbSelect,
	"Count":  VerbCount,
	"Exists": VerbExists,
	"Delete": VerbDelete,
	"Remove": VerbDelete,
}

// opTokens maps every operator keyword the grammar recognizes to its Op.
// "Is" is deliberately absent: it is resolved positionally, either as a
// modifier prefix ("IsGreaterThan") or, trailing with nothing after it, as
// a bare equality.
var opTokens = map[string]Op{
	"Equals":             EQ,
	"Equal":              EQ,
	"Not":                NEQ,
	"GreaterThan":        GT,
	"GreaterThanOrEqual": GTE,
	"LessThan":           LT,
	"LessThanOrEqual":    LTE,
	"In":                 In,
	"NotIn":              NotIn,
	"Null":               IsNil,
	"NotNull":            NotNil,
	"Like":               Contains,
	"Contains":           Contains,
	"StartsWith":         HasPrefix,
	"EndsWith":           HasSuffix,
}

// opTokenOrder tries the longest operator keywords first, so a prefix like
// "GreaterThan" does not shadow "GreaterThanOrEqual" when both could match
// starting at the same position.
var opTokenOrder = []string{
	"GreaterThanOrEqual", "LessThanOrEqual", "NotIn", "NotNull", "StartsWith", "EndsWith",
	"GreaterThan", "LessThan", "Equals", "Equal", "Not", "In", "Null", "Like", "Contains",
}

// keywordArity gives the number of raw (single-capital-letter-split) words
// a multi-word grammar keyword spans in a method name — e.g. "OrderBy"
// spans the two raw words "Order" and "By", "GreaterThanOrEqual" spans
// four. Anything absent here is a single raw word.
var keywordArity = map[string]int{
	"OrderBy":            2,
	"IgnoreCase":         2,
	"GreaterThanOrEqual": 4,
	"LessThanOrEqual":    4,
	"GreaterThan":        2,
	"LessThan":           2,
	"NotIn":              2,
	"NotNull":            2,
	"StartsWith":         2,
	"EndsWith":           2,
}

func arityOf(kw string) int {
	if n, ok := keywordArity[kw]; ok {
		return n
	}
	return 1
}

// Term is one predicate comparison: a property path (resolved against the
// entity's fields/edges by longest match), an optional case-insensitivity
// modifier, and the operator to apply.
type Term struct {
	Property   string // the resolved Go struct-field name, e.g. "Email"
	Path       []string
	Op         Op
	IgnoreCase bool
}

// Sort is one OrderBy clause element: a property path plus direction.
type Sort struct {
	Property   string
	Descending bool
}

// Predicate is a flat list of Terms, left-to-right, joined by Conjunctions
// (len(Conjunctions) == len(Terms)-1). A conjunction is "And" or "Or"; the
// grammar does not mix precedence, it associates left to right.
type Predicate struct {
	Terms        []Term
	Conjunctions []string
}

// Intent is the parsed form of a derived-query method name: everything the
// Relationship Planner (4.E) and SQL Templater (4.F) need to synthesize a
// method body, without either of them re-parsing the name itself.
type Intent struct {
	Verb      Verb
	Distinct  bool
	First     bool // First or Top limit requested
	Limit     int  // 0 means "unspecified" (only meaningful when First is true)
	Predicate *Predicate
	OrderBy   []Sort
	Async     bool
}

// wordRE splits a PascalCase method name into its constituent raw words,
// keeping runs of digits together. Every capital letter starts a new word,
// so an acronym splits into single letters ("ID" becomes "I","D");
// resolveProperty and tryKeyword join raw words back together.
var wordRE = regexp.MustCompile(`[A-Z][a-z]*|[A-Z]+(?:[A-Z][a-z]|$)|[0-9]+`)

func splitWords(name string) []string {
	return wordRE.FindAllString(name, -1)
}

// ParseMethodName parses a derived-query method name against t's property
// surface (its own fields plus, for navigation chains, related entities
// reachable by t's edges), per 4.C's grammar:
//
//	Intent := Verb [Distinct] [Limit] ("By" Predicate)? ("OrderBy" Sort)? "Async"?
//
// A method name the grammar cannot account for in full returns an error.
// BuildRepositoryModel returns that error for a declared method, and the
// driver then drops the whole repository with a single diagnostic; the
// method is not skipped on its own.
func ParseMethodName(name string, t *Type) (*Intent, error) {
	words := splitWords(name)
	if len(words) == 0 {
		return nil, fmt.Errorf("gen: %q has no recognizable words", name)
	}
	p := &nameParser{words: words, typ: t, name: name}

	verb, ok := verbTokens[words[0]]
	if !ok {
		return nil, fmt.Errorf("gen: %q does not start with a recognized verb", name)
	}
	p.i = 1
	intent := &Intent{Verb: verb}

	if p.tryKeyword("Distinct") {
		intent.Distinct = true
	}

	if p.tryKeyword("First") || p.tryKeyword("Top") {
		intent.First = true
		intent.Limit = 1
		if n, ok := p.peekInt(); ok {
			intent.Limit = n
			p.i++
		}
	}

	if p.tryKeyword("By") {
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		intent.Predicate = pred
	}

	if p.tryKeyword("OrderBy") {
		sorts, err := p.parseSort()
		if err != nil {
			return nil, err
		}
		intent.OrderBy = sorts
	}

	if p.tryKeyword("Async") {
		intent.Async = true
	}

	if p.i != len(p.words) {
		return nil, fmt.Errorf("gen: %q has trailing tokens %v the grammar does not account for", name, p.words[p.i:])
	}
	return intent, nil
}

// nameParser walks a word stream left to right resolving it against a
// Type's property surface.
type nameParser struct {
	words []string
	i     int
	typ   *Type
	name  string
}

// tryKeyword consumes kw (which may span more than one raw word, per
// keywordArity) at the parser's current position if it matches there,
// without mutating position on a miss.
func (p *nameParser) tryKeyword(kw string) bool {
	n := arityOf(kw)
	if p.i+n > len(p.words) {
		return false
	}
	if strings.Join(p.words[p.i:p.i+n], "") != kw {
		return false
	}
	p.i += n
	return true
}

// tryOp consumes the longest matching operator keyword at the current
// position, if any.
func (p *nameParser) tryOp() (Op, bool) {
	for _, kw := range opTokenOrder {
		if p.tryKeyword(kw) {
			return opTokens[kw], true
		}
	}
	return 0, false
}

func (p *nameParser) peekInt() (int, bool) {
	if p.i >= len(p.words) {
		return 0, false
	}
	n, err := strconv.Atoi(p.words[p.i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parsePredicate parses a chain of Terms joined by And/Or.
func (p *nameParser) parsePredicate() (*Predicate, error) {
	pred := &Predicate{}
	for {
		term, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		pred.Terms = append(pred.Terms, term)
		if p.tryKeyword("And") {
			pred.Conjunctions = append(pred.Conjunctions, "And")
			continue
		}
		if p.tryKeyword("Or") {
			pred.Conjunctions = append(pred.Conjunctions, "Or")
			continue
		}
		break
	}
	return pred, nil
}

// parseTerm resolves one Term: a longest-match property path, an optional
// IgnoreCase modifier, an optional Is prefix, and an optional operator
// keyword. A bare property with nothing following defaults to EQ; a
// trailing Is with nothing after it also defaults to EQ (its only job was
// to mark the boundary).
func (p *nameParser) parseTerm() (Term, error) {
	path, err := p.resolveProperty()
	if err != nil {
		return Term{}, err
	}
	t := Term{Property: path[len(path)-1], Path: path, Op: EQ}

	if p.tryKeyword("IgnoreCase") {
		t.IgnoreCase = true
	}

	if p.tryKeyword("Is") {
		if op, ok := p.tryOp(); ok {
			t.Op = op
			if p.tryKeyword("IgnoreCase") {
				t.IgnoreCase = true
			}
			return t, nil
		}
		// Bare trailing "Is": equality, already the default.
		return t, nil
	}

	if op, ok := p.tryOp(); ok {
		t.Op = op
		if p.tryKeyword("IgnoreCase") {
			t.IgnoreCase = true
		}
	}
	return t, nil
}

// parseSort parses an OrderBy chain: PropertyPath [Asc|Desc] ("Then" ...)*.
func (p *nameParser) parseSort() ([]Sort, error) {
	var sorts []Sort
	for {
		path, err := p.resolveProperty()
		if err != nil {
			return nil, err
		}
		s := Sort{Property: path[len(path)-1]}
		switch {
		case p.tryKeyword("Desc"), p.tryKeyword("Descending"):
			s.Descending = true
		case p.tryKeyword("Asc"), p.tryKeyword("Ascending"):
		}
		sorts = append(sorts, s)
		if p.tryKeyword("Then") {
			continue
		}
		break
	}
	return sorts, nil
}

// resolveProperty greedily consumes the longest run of raw words that
// names a property on p.typ, descending through navigation edges for
// multi-level paths (e.g. "CustomerEmail" against a Customer edge with an
// Email field). Field/edge lookups require an exact name match, so this
// never needs to special-case grammar keywords: a join that happens to
// spell a keyword simply fails to resolve and the loop shrinks the
// candidate until it finds a real property, or gives up.
func (p *nameParser) resolveProperty() ([]string, error) {
	start := p.i
	typ := p.typ
	var path []string
	for p.i < len(p.words) {
		matched := false
		landedOnEdge := false
		for end := len(p.words); end > p.i; end-- {
			name := strings.Join(p.words[p.i:end], "")
			if f, ok := fieldByStructName(typ, name); ok {
				path = append(path, f.StructField())
				p.i = end
				matched = true
				break
			}
			if edge, ok := edgeByStructName(typ, name); ok {
				path = append(path, edge.Name)
				typ = edge.Type
				p.i = end
				matched = true
				landedOnEdge = true
				break
			}
		}
		if !matched {
			break
		}
		// A scalar field always ends the path; only an edge hop allows the
		// loop to keep descending into the related entity.
		if !landedOnEdge {
			break
		}
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("gen: %q: cannot resolve property starting at %q", p.name, strings.Join(p.words[start:], ""))
	}
	return path, nil
}

// fieldByStructName finds the field on typ (including its Id field) whose
// Go struct-field name (PascalCase) matches name exactly.
func fieldByStructName(typ *Type, name string) (*Field, bool) {
	return typ.FieldBy(func(f *Field) bool { return f != nil && f.StructField() == name })
}

// edgeByStructName finds the non-inverse edge on typ whose Go-facing
// navigation name (PascalCase of the schema-declared edge name) matches
// name exactly — the edge counterpart of fieldByStructName.
func edgeByStructName(typ *Type, name string) (*Edge, bool) {
	for _, e := range typ.Edges {
		if !e.IsInverse() && pascal(e.Name) == name {
			return e, true
		}
	}
	return nil, false
}
