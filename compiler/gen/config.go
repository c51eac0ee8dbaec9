package gen

import (
	"text/template"

	"github.com/npagen/npagen/schema/field"
)

// Annotations stores arbitrary, JSON-encodable metadata made available to
// every component from Config.Annotations, keyed by name.
type Annotations map[string]any

// Generator is the pluggable code-generation backend Graph.Gen drives once
// a Graph has been built. defaultGenerate (backed by JenniferGenerator) is
// the default.
type Generator interface {
	Generate(g *Graph) error
}

// Hook wraps a Generator to add before/after behavior (logging, metrics,
// cache invalidation) without changing Generate's signature — the same
// middleware shape net/http and most Go codegen tools use for this.
type Hook func(Generator) Generator

// Template is a user-supplied extension of generated output. The default
// Generator (defaultGenerate) executes every parsed Template against the
// Graph after the Jennifer-based output and writes the result to its own
// file; a custom Generator set via WithGenerator decides for itself.
type Template struct {
	// Name is the output file's base name: <Target>/<Name>.go.
	Name string
	// Source is the raw template body.
	Source string
	// tmpl is the compiled form, set by Parse.
	tmpl *template.Template
}

// GraphTemplate is a Template whose output is written to its own file
// (Format, a path relative to Config.Target) instead of being spliced into
// a per-entity section.
type GraphTemplate struct {
	Name   string
	Format string
}

// Config holds every setting that shapes a compilation run: the output
// package/target, the ID type default, which optional Features are turned
// on, the storage driver, and extension points (Hooks, Templates,
// Annotations, a custom Generator).
type Config struct {
	// Header is prepended to every generated file.
	Header string
	// Package is the import path generated code is emitted under.
	Package string
	// Schema is the import path of the package entities/repositories are
	// declared in.
	Schema string
	// Target is the output directory generated files are written to.
	Target string
	// IDType is the default type of an entity's Id field when the entity
	// does not declare one explicitly.
	IDType *field.TypeInfo
	// Features enabled for this run.
	Features []Feature
	// Storage is the configured storage/dialect driver.
	Storage *Storage
	// Hooks wrap the Generator before Generate is invoked.
	Hooks []Hook
	// Templates are custom templates the default Generator renders to
	// their own files.
	Templates []*Template
	// Annotations are exposed to every component keyed by name.
	Annotations Annotations
	// BuildFlags are passed through to the package loader (4.B's go/ast +
	// go/types front-end) when resolving the schema package.
	BuildFlags []string
	// Generator overrides the default JenniferGenerator-based backend.
	Generator Generator
}

// defaultIDType is used when neither WithIDType nor WithIDTypeInfo was
// supplied.
var defaultIDType = &field.TypeInfo{Type: field.TypeInt}

// defaultHeader is prepended to every generated file when Config.Header is
// left unset.
const defaultHeader = "// Code generated by npagen. DO NOT EDIT."

// DefaultConfig returns a Config with the generator's baseline defaults:
// the default file header and an int ID type.
func DefaultConfig() *Config {
	return &Config{
		Header: defaultHeader,
		IDType: &field.TypeInfo{Type: field.TypeInt},
	}
}

// Output groups the settings that control where and how generated code is
// written, split out from Config for callers (the Source Emitter) that
// only need the output-location subset.
type Output struct {
	Target  string
	Package string
	Header  string
}

// Output returns the output-location subset of c.
func (c *Config) Output() Output {
	return Output{Target: c.Target, Package: c.Package, Header: c.Header}
}

// SchemaOpts groups the settings the Metadata Extractor consults to locate
// and interpret the schema package.
type SchemaOpts struct {
	Schema  string
	IDType  *field.TypeInfo
	Storage *Storage
}

// SchemaOpts returns the schema-loading subset of c.
func (c *Config) SchemaOpts() SchemaOpts {
	return SchemaOpts{Schema: c.Schema, IDType: c.IDType, Storage: c.Storage}
}

// HasFeature reports whether name matches an enabled feature. Unlike
// FeatureEnabled, an unrecognized name is simply treated as disabled
// rather than returned as an error.
func (c *Config) HasFeature(name string) bool {
	enabled, _ := c.FeatureEnabled(name)
	return enabled
}

// FeatureEnabled reports whether name matches an enabled Feature. A name
// that is not a recognized feature at all is reported as a *ConfigError.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	known := false
	for _, f := range allFeatures {
		if f.Name == name {
			known = true
			break
		}
	}
	if !known {
		return false, NewConfigError("Features", name, "unknown feature name")
	}
	for _, f := range c.Features {
		if f.Name == name {
			return true, nil
		}
	}
	return false, nil
}
