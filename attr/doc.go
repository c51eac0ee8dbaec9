// Package attr reads structured attribute arguments off struct tags.
//
// Declarations in this generator carry their relational-mapping metadata as
// Go struct tags of the form:
//
//	Email string `npa:"Column,name=email,nullable"`
//
// The tag key ("npa") is fixed; the attribute name is the first
// comma-separated token, followed by zero or more positional tokens and
// zero or more "key=value" named tokens. Read depends only on the tag text:
// calling it twice on the same reflect.StructTag for the same attribute
// name returns equal results. Parsed tags are memoized in a package-level
// cache.
package attr
