package schema

// Annotation is extra, free-form metadata attached to an entity, field, or
// edge — surfaced to the generator as a `map[string]any` keyed by
// Annotation.Name() (compiler/load's Schema.Annotations /
// Field.Annotations / Edge.Annotations). sqlschema.Annotation and
// field.Annotation both implement this.
type Annotation interface {
	Name() string
}

// Merger is implemented by an Annotation that can combine with a later
// declaration of the same kind instead of simply being overwritten by it —
// used when an annotation is declared more than once for the same entity.
type Merger interface {
	Merge(Annotation) Annotation
}

// CommentAnnotation carries a doc comment extracted from source, attached
// to the declaration it documents and rendered back out by the Source
// Emitter (4.G) above the corresponding generated type/method.
type CommentAnnotation struct {
	Text string
}

// Name implements Annotation.
func (CommentAnnotation) Name() string { return "Comment" }

// Comment returns a CommentAnnotation carrying text.
func Comment(text string) *CommentAnnotation {
	return &CommentAnnotation{Text: text}
}
