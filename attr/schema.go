package attr

// Target names the kind of declaration an attribute may be attached to.
type Target int

const (
	// TargetStruct marks attributes that decorate an entity struct.
	TargetStruct Target = iota
	// TargetField marks attributes that decorate an entity field.
	TargetField
	// TargetInterface marks attributes that decorate a repository interface.
	TargetInterface
	// TargetMethod marks attributes that decorate a repository method.
	TargetMethod
)

// Spec describes one recognised attribute: its target kind and its
// positional/named argument names. Spec is used to validate attribute
// occurrences read by Read and to drive IDE-style documentation; it is not
// itself consulted by Read, which is tolerant of unknown attributes per
// 4.B ("Unknown attributes are warnings, not errors").
type Spec struct {
	Name       string
	Target     Target
	Positional []string
	Named      []string
}

// Recognized is the attribute schema from SPEC_FULL.md section 6. Any
// attribute name not in this table is still parsed by Read. The Metadata
// Extractor (compiler/load) looks up only the attribute names it acts on;
// any other attribute is ignored and no warning is reported for it.
var Recognized = []Spec{
	{Name: "Entity", Target: TargetStruct},
	{Name: "Table", Target: TargetStruct, Positional: []string{"name"}, Named: []string{"schema"}},
	{Name: "Repository", Target: TargetInterface},
	{Name: "Id", Target: TargetField},
	{Name: "GeneratedValue", Target: TargetField, Named: []string{"strategy"}},
	{Name: "Column", Target: TargetField, Positional: []string{"name"}, Named: []string{"sql_type", "length", "precision", "scale", "nullable", "unique"}},
	{Name: "ManyToOne", Target: TargetField, Named: []string{"cascade", "fetch", "optional"}},
	{Name: "OneToOne", Target: TargetField, Named: []string{"mapped_by", "cascade", "fetch", "orphan_removal"}},
	{Name: "OneToMany", Target: TargetField, Positional: []string{"mapped_by"}, Named: []string{"mapped_by", "cascade", "fetch", "orphan_removal"}},
	{Name: "ManyToMany", Target: TargetField, Named: []string{"mapped_by"}},
	{Name: "JoinColumn", Target: TargetField, Positional: []string{"name"}, Named: []string{"referenced_column", "nullable", "unique"}},
	{Name: "JoinTable", Target: TargetField, Positional: []string{"name"}, Named: []string{"schema", "join_columns", "inverse_join_columns"}},
	{Name: "Query", Target: TargetMethod, Positional: []string{"sql"}, Named: []string{"native", "timeout", "buffered"}},
	{Name: "StoredProcedure", Target: TargetMethod, Positional: []string{"procedure_name"}, Named: []string{"schema", "timeout"}},
	{Name: "MultiMapping", Target: TargetMethod, Positional: []string{"key_property"}, Named: []string{"split_on", "map_types"}},
	{Name: "BulkOperation", Target: TargetMethod, Named: []string{"batch_size", "use_transaction", "timeout"}},
}

// IsRecognized reports whether name is one of the attributes in Recognized.
func IsRecognized(name string) bool {
	for _, s := range Recognized {
		if s.Name == name {
			return true
		}
	}
	return false
}
