package gen

import (
	"errors"
	"fmt"
	"go/token"
	"sync"
)

// Diagnostic codes, stable across releases (SPEC_FULL.md section 7).
const (
	CodeDuplicateID          = "NPA0001"
	CodeUnresolvedTarget     = "NPA0002"
	CodeIllegalAttribute     = "NPA0003"
	CodeUnknownProperty      = "NPA0004"
	CodeUnsupportedOperator  = "NPA0005"
	CodeUnparseableMethod    = "NPA0006"
	CodeCpqlParseFailure     = "NPA0007"
	CodeCpqlRewriteFailure   = "NPA0008"
	CodeInternalInvariant    = "NPA0009"
	CodeMappedByUnresolved   = "NPA0010"
)

// Diagnostic is the common shape every diagnostic kind below satisfies. The
// driver (4.H) collects these into a flat, ordered slice; none of them
// abort a compilation.
type Diagnostic interface {
	error
	Code() string
	Location() token.Position
}

// sentinels, matched via errors.Is against each diagnostic kind.
var (
	ErrSchema           = errors.New("npa: schema diagnostic")
	ErrMethodResolution = errors.New("npa: method resolution diagnostic")
	ErrCpqlTranslation  = errors.New("npa: cpql translation diagnostic")
	ErrInternalInvariant = errors.New("npa: internal invariant diagnostic")
)

// SchemaDiagnostic reports a malformed entity: a duplicate Id property, an
// unresolved relationship target, or an illegal attribute combination.
// Per 4.B, it drops the offending entity; dependents fall through to a
// MethodResolutionDiagnostic instead of failing the whole compilation.
type SchemaDiagnostic struct {
	code    string
	Entity  string
	Field   string
	Message string
	Pos     token.Position
}

func (d *SchemaDiagnostic) Error() string {
	if d.Field != "" {
		return fmt.Sprintf("%s: schema error on %s.%s: %s", d.code, d.Entity, d.Field, d.Message)
	}
	return fmt.Sprintf("%s: schema error on %s: %s", d.code, d.Entity, d.Message)
}

func (d *SchemaDiagnostic) Is(target error) bool   { return target == ErrSchema }
func (d *SchemaDiagnostic) Code() string           { return d.code }
func (d *SchemaDiagnostic) Location() token.Position { return d.Pos }

// NewSchemaDiagnostic creates a SchemaDiagnostic with the given code.
func NewSchemaDiagnostic(code, entity, field, message string, pos token.Position) *SchemaDiagnostic {
	return &SchemaDiagnostic{code: code, Entity: entity, Field: field, Message: message, Pos: pos}
}

// IsSchemaDiagnostic reports whether err is a SchemaDiagnostic.
func IsSchemaDiagnostic(err error) bool {
	var d *SchemaDiagnostic
	return errors.As(err, &d)
}

// MethodResolutionDiagnostic reports a user-declared or derived method that
// cannot be mapped: an unknown property, or an operator applied to a
// property it cannot act on. The driver reports it both for a single
// skipped method and for a repository it drops because a declared method
// failed to parse.
type MethodResolutionDiagnostic struct {
	code       string
	Repository string
	Method     string
	Message    string
	Pos        token.Position
}

func (d *MethodResolutionDiagnostic) Error() string {
	return fmt.Sprintf("%s: method %s.%s cannot be resolved: %s", d.code, d.Repository, d.Method, d.Message)
}

func (d *MethodResolutionDiagnostic) Is(target error) bool   { return target == ErrMethodResolution }
func (d *MethodResolutionDiagnostic) Code() string           { return d.code }
func (d *MethodResolutionDiagnostic) Location() token.Position { return d.Pos }

// NewMethodResolutionDiagnostic creates a MethodResolutionDiagnostic.
func NewMethodResolutionDiagnostic(code, repository, method, message string, pos token.Position) *MethodResolutionDiagnostic {
	return &MethodResolutionDiagnostic{code: code, Repository: repository, Method: method, Message: message, Pos: pos}
}

// IsMethodResolutionDiagnostic reports whether err is a MethodResolutionDiagnostic.
func IsMethodResolutionDiagnostic(err error) bool {
	var d *MethodResolutionDiagnostic
	return errors.As(err, &d)
}

// CpqlTranslationDiagnostic reports a CPQL parse or rewrite failure. Per
// 4.D, the method is still emitted, but with a guarded body that returns an
// error at call time instead of running broken SQL.
type CpqlTranslationDiagnostic struct {
	code       string
	Repository string
	Method     string
	Cpql       string
	Message    string
	Pos        token.Position
}

func (d *CpqlTranslationDiagnostic) Error() string {
	return fmt.Sprintf("%s: cpql translation failed for %s.%s: %s", d.code, d.Repository, d.Method, d.Message)
}

func (d *CpqlTranslationDiagnostic) Is(target error) bool   { return target == ErrCpqlTranslation }
func (d *CpqlTranslationDiagnostic) Code() string           { return d.code }
func (d *CpqlTranslationDiagnostic) Location() token.Position { return d.Pos }

// NewCpqlTranslationDiagnostic creates a CpqlTranslationDiagnostic.
func NewCpqlTranslationDiagnostic(code, repository, method, cpql, message string, pos token.Position) *CpqlTranslationDiagnostic {
	return &CpqlTranslationDiagnostic{code: code, Repository: repository, Method: method, Cpql: cpql, Message: message, Pos: pos}
}

// IsCpqlTranslationDiagnostic reports whether err is a CpqlTranslationDiagnostic.
func IsCpqlTranslationDiagnostic(err error) bool {
	var d *CpqlTranslationDiagnostic
	return errors.As(err, &d)
}

// InternalInvariantDiagnostic reports a planner or emitter assertion that
// should never fail (e.g. a foreign-key column that was never resolved).
// Per 4.H, the single offending method is skipped and enough context to
// reproduce is attached; the rest of the repository still emits.
type InternalInvariantDiagnostic struct {
	code       string
	Component  string
	Invariant  string
	Context    string
	Pos        token.Position
}

func (d *InternalInvariantDiagnostic) Error() string {
	return fmt.Sprintf("%s: internal invariant violated in %s (%s): %s", d.code, d.Component, d.Invariant, d.Context)
}

func (d *InternalInvariantDiagnostic) Is(target error) bool   { return target == ErrInternalInvariant }
func (d *InternalInvariantDiagnostic) Code() string           { return d.code }
func (d *InternalInvariantDiagnostic) Location() token.Position { return d.Pos }

// NewInternalInvariantDiagnostic creates an InternalInvariantDiagnostic.
func NewInternalInvariantDiagnostic(component, invariant, context string, pos token.Position) *InternalInvariantDiagnostic {
	return &InternalInvariantDiagnostic{code: CodeInternalInvariant, Component: component, Invariant: invariant, Context: context, Pos: pos}
}

// IsInternalInvariantDiagnostic reports whether err is an InternalInvariantDiagnostic.
func IsInternalInvariantDiagnostic(err error) bool {
	var d *InternalInvariantDiagnostic
	return errors.As(err, &d)
}

// Sink accumulates diagnostics across a compilation. It is the only shared
// mutable resource the driver (4.H) touches across repository boundaries
// (SPEC_FULL.md section 5); every mutating method takes the lock.
type Sink struct {
	mu    sync.Mutex
	items []Diagnostic
}

// NewSink returns an empty, ready-to-use Sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add appends a diagnostic. Safe for concurrent use.
func (s *Sink) Add(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, d)
}

// All returns a snapshot of the accumulated diagnostics in insertion order.
func (s *Sink) All() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Diagnostic, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports how many diagnostics have been recorded so far.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
