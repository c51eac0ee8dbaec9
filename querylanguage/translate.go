// Package querylanguage implements the Compact Persistence Query Language
// (CPQL): a JPQL-flavored query language written against entity names and
// Go property names, translated to dialect SQL against table and column
// names by Translate.
package querylanguage

import (
	"fmt"
	"regexp"
	"strings"
)

// PropertyMeta describes one property of an entity: its Go name (as it
// appears in CPQL after a dot, e.g. "u.Email") and the SQL column it is
// stored under.
type PropertyMeta struct {
	Name   string
	Column string
}

// EntityMeta describes one CPQL entity name: its backing SQL table and the
// properties resolvable against it, in declaration order (the order
// SELECT-alias expansion emits them in).
type EntityMeta struct {
	Table      string
	Properties []PropertyMeta
}

func (e EntityMeta) column(prop string) (string, bool) {
	for _, p := range e.Properties {
		if strings.EqualFold(p.Name, prop) {
			return p.Column, true
		}
	}
	return "", false
}

// entityByName looks up meta case-insensitively by CPQL entity name.
func entityByName(meta map[string]EntityMeta, name string) (EntityMeta, bool) {
	if em, ok := meta[name]; ok {
		return em, true
	}
	for k, em := range meta {
		if strings.EqualFold(k, name) {
			return em, true
		}
	}
	return EntityMeta{}, false
}

// tokenRE splits CPQL into literals (left untouched), :param placeholders,
// dotted-or-bare identifiers, numbers, whitespace runs, and single other
// characters — enough granularity to rewrite entity/alias/property
// references without re-parsing SQL grammar from scratch.
var tokenRE = regexp.MustCompile(`'[^']*'|"[^"]*"|:[A-Za-z_][A-Za-z0-9_]*|[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)?|[0-9]+(?:\.[0-9]+)?|\s+|.`)

func tokenize(s string) []string {
	return tokenRE.FindAllString(s, -1)
}

// paramRE and aliasRE are used only to decide, cheaply, whether a query
// needs any rewriting at all.
var (
	paramRE = regexp.MustCompile(`:[A-Za-z_]`)
	aliasRE = regexp.MustCompile(`(?i)\b(?:FROM|JOIN|UPDATE)\s+[A-Za-z_][A-Za-z0-9_]*\s+(?:AS\s+)?([A-Za-z_][A-Za-z0-9_]{0,2})\b`)
)

var clauseKeywords = names(
	"SELECT", "FROM", "WHERE", "UPDATE", "DELETE", "INSERT", "INTO", "VALUES",
	"SET", "JOIN", "INNER", "LEFT", "RIGHT", "OUTER", "ON", "GROUP", "ORDER",
	"BY", "AND", "OR", "AS", "DISTINCT", "HAVING",
)

// isIdent reports whether tok looks like an identifier (possibly dotted),
// as opposed to punctuation, a literal, or whitespace.
func isIdent(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(tok string) bool { return tok != "" && strings.TrimSpace(tok) == "" }

// Translate rewrites a CPQL statement into dialect SQL. Without meta it
// only lowers the wire syntax (:param -> @param, short aliases stripped
// from the query text) while leaving entity/property names exactly as
// written and emitting `SELECT *` for bare-alias selects. With meta it
// additionally resolves entity names to tables, alias.Property references
// to columns, and rewrites aggregate calls.
//
// A statement with no :param placeholders and no recognizable FROM/JOIN
// alias is assumed to already be plain SQL and is returned unchanged — the
// one regression guarantee every other rewrite is built to preserve.
func Translate(cpql string, meta map[string]EntityMeta) (string, error) {
	if !paramRE.MatchString(cpql) && !aliasRE.MatchString(cpql) {
		return cpql, nil
	}
	if len(meta) == 0 {
		for _, m := range aliasRE.FindAllStringSubmatch(cpql, -1) {
			a := m[1]
			if _, reserved := clauseKeywords[strings.ToUpper(a)]; reserved {
				continue
			}
			cpql = regexp.MustCompile(`(?i)\bSELECT\s+`+a+`\s+FROM\b`).ReplaceAllString(cpql, "SELECT * FROM")
			cpql = regexp.MustCompile(`(?i)(\b(?:FROM|JOIN|UPDATE)\s+[A-Za-z_][A-Za-z0-9_]*)\s+(?:AS\s+)?`+a+`\b`).ReplaceAllString(cpql, "$1")
			cpql = regexp.MustCompile(`\b`+a+`\.`).ReplaceAllString(cpql, "")
		}
	}

	toks := tokenize(cpql)
	aliases := collectAliases(toks, meta)
	ambiguous := len(aliases) > 1

	var out strings.Builder
	for i := 0; i < len(toks); i++ {
		tok := toks[i]

		switch {
		case strings.HasPrefix(tok, ":"):
			out.WriteString("@" + tok[1:])
			continue

		case isIdent(tok) && strings.EqualFold(tok, "SELECT"):
			out.WriteString(tok)
			j, handled, rewritten, err := rewriteSelectList(toks, i+1, aliases, ambiguous)
			if err != nil {
				return "", fmt.Errorf("querylanguage: %w", err)
			}
			if handled {
				out.WriteString(" ")
				out.WriteString(rewritten)
				i = j - 1
				continue
			}
			continue

		case isIdent(tok) && isEntityKeyword(toks, i):
			// An entity/alias pair following FROM, JOIN, UPDATE,
			// DELETE FROM or INSERT INTO: rewrite the entity name to its
			// table; the alias token (if any) is left as-is.
			if em, ok := entityByName(meta, tok); ok {
				out.WriteString(em.Table)
				continue
			}
			out.WriteString(tok)
			continue

		case isIdent(tok) && strings.Contains(tok, "."):
			alias, prop, _ := strings.Cut(tok, ".")
			if em, ok := aliases[alias]; ok {
				col, ok := em.column(prop)
				if !ok {
					return "", fmt.Errorf("querylanguage: unknown property %q on alias %q", prop, alias)
				}
				if ambiguous {
					out.WriteString(em.Table + "." + col)
				} else {
					out.WriteString(col)
				}
				continue
			}
			out.WriteString(tok)
			continue

		case isIdent(tok) && strings.EqualFold(tok, "COUNT"):
			if j, rewritten, ok := rewriteCountStar(toks, i, aliases); ok {
				out.WriteString(rewritten)
				i = j - 1
				continue
			}
			out.WriteString(tok)
			continue

		default:
			out.WriteString(tok)
		}
	}
	return out.String(), nil
}

// isEntityKeyword reports whether toks[i] sits directly after FROM, JOIN,
// UPDATE, INTO, or a DELETE that is itself followed by FROM — the
// positions where a CPQL entity name (as opposed to an alias or property)
// appears.
func isEntityKeyword(toks []string, i int) bool {
	j := i - 1
	for j >= 0 && isSpace(toks[j]) {
		j--
	}
	if j < 0 {
		return false
	}
	return strings.EqualFold(toks[j], "FROM") || strings.EqualFold(toks[j], "JOIN") ||
		strings.EqualFold(toks[j], "UPDATE") || strings.EqualFold(toks[j], "INTO")
}

// collectAliases scans the full token stream for "<Entity> <alias>" pairs
// following FROM/JOIN/UPDATE/INTO, returning a map of alias -> EntityMeta
// for every entity meta recognizes.
func collectAliases(toks []string, meta map[string]EntityMeta) map[string]EntityMeta {
	aliases := map[string]EntityMeta{}
	for i, tok := range toks {
		if !isIdent(tok) || !isEntityKeyword(toks, i) {
			continue
		}
		em, ok := entityByName(meta, tok)
		if !ok {
			continue
		}
		// Look ahead, past whitespace and an optional AS, for an alias
		// token: a short identifier that isn't itself a clause keyword.
		j := i + 1
		for j < len(toks) && isSpace(toks[j]) {
			j++
		}
		if j < len(toks) && strings.EqualFold(toks[j], "AS") {
			j++
			for j < len(toks) && isSpace(toks[j]) {
				j++
			}
		}
		if j < len(toks) && isIdent(toks[j]) {
			if _, reserved := clauseKeywords[strings.ToUpper(toks[j])]; !reserved && !strings.Contains(toks[j], ".") {
				aliases[toks[j]] = em
			}
		}
	}
	return aliases
}

// rewriteSelectList handles the SELECT clause starting at index i (the
// first token after the SELECT keyword). If the clause is a bare alias
// ("SELECT u FROM ..."), it expands into one "alias.column AS Property"
// per known property and returns handled=true. Otherwise it falls through
// unrewritten (the generic per-token rewrite in Translate still applies to
// alias.Property references and aggregate calls inside the list) and
// returns handled=false.
func rewriteSelectList(toks []string, i int, aliases map[string]EntityMeta, ambiguous bool) (next int, handled bool, rewritten string, err error) {
	j := i
	for j < len(toks) && isSpace(toks[j]) {
		j++
	}
	if j < len(toks) && strings.EqualFold(toks[j], "DISTINCT") {
		return i, false, "", nil
	}
	if j >= len(toks) || !isIdent(toks[j]) || strings.Contains(toks[j], ".") {
		return i, false, "", nil
	}
	alias := toks[j]
	em, ok := aliases[alias]
	if !ok {
		return i, false, "", nil
	}
	k := j + 1
	for k < len(toks) && isSpace(toks[k]) {
		k++
	}
	if k >= len(toks) || !strings.EqualFold(toks[k], "FROM") {
		// Not a bare "SELECT alias FROM ...": e.g. "SELECT u.Email, u.Age".
		return i, false, "", nil
	}
	if len(em.Properties) == 0 {
		return i, false, "", nil
	}
	parts := make([]string, 0, len(em.Properties))
	for _, p := range em.Properties {
		col := p.Column
		if ambiguous {
			col = em.Table + "." + col
		} else {
			col = alias + "." + col
		}
		parts = append(parts, fmt.Sprintf("%s AS %s", col, p.Name))
	}
	return j + 1, true, strings.Join(parts, ", "), nil
}

// rewriteCountStar recognizes "COUNT(alias)" — counting whole rows through
// a bare alias rather than a specific column — and rewrites it to the
// dialect-portable "COUNT(*)".
func rewriteCountStar(toks []string, i int, aliases map[string]EntityMeta) (next int, rewritten string, ok bool) {
	j := i + 1
	for j < len(toks) && isSpace(toks[j]) {
		j++
	}
	if j >= len(toks) || toks[j] != "(" {
		return i, "", false
	}
	j++
	for j < len(toks) && isSpace(toks[j]) {
		j++
	}
	if j >= len(toks) || !isIdent(toks[j]) || strings.Contains(toks[j], ".") {
		return i, "", false
	}
	if _, known := aliases[toks[j]]; !known {
		return i, "", false
	}
	j++
	for j < len(toks) && isSpace(toks[j]) {
		j++
	}
	if j >= len(toks) || toks[j] != ")" {
		return i, "", false
	}
	return j + 1, "COUNT(*)", true
}

// names builds a membership set from a fixed list of strings.
func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}
