// Package schema provides the shared annotation vocabulary used across the
// generator: the Annotation/Merger interfaces that carry free-form,
// JSON-encodable metadata from an entity's struct tags through to the
// Source Emitter, and CommentAnnotation, which ferries a field or edge's
// doc comment the same way.
//
// Entities and repositories are not declared through this package — they
// are plain Go types, recognized by their npa struct tags (see the attr
// and compiler/load packages):
//
//	type User struct {
//		_     struct{} `npa:"Entity;Table,users"`
//		Id    int64    `npa:"Id;GeneratedValue,strategy=identity"`
//		Email string   `npa:"Column,name=email,unique"`
//		Posts []*Post  `npa:"OneToMany,mapped_by=author"`
//	}
//
// Subpackages contribute the scalar type model (field) the extractor
// assigns to tagged struct fields, and the SQL-specific annotations
// (dialect/sqlschema) a Column/JoinColumn/JoinTable attribute can carry.
package schema
