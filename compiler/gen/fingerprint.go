package gen

import (
	"hash/fnv"
	"sort"
)

// RepositoryFingerprint is a stable hash over the canonical projection of a
// RepositoryModel (4.H step 3): interface name, dialect, entity qualified
// name, key type, methods, properties and relationships. Only names and
// type kinds enter the hash; table and column names, and the fields of
// related entities, do not. The Driver computes it after planning and, on a
// cache hit, skips rendering (G) and reuses the cached source text.
type RepositoryFingerprint uint64

// ComputeRepositoryFingerprint derives the fingerprint for rm. Methods and
// relationships are set-like (hashed sorted by name, since BuildRepositoryModel
// already emits methods in sorted order regardless of declaration order);
// entity properties are list-like, since their declaration order is what
// fixes emitted column order (4.H), so they are hashed in Fields order.
func ComputeRepositoryFingerprint(rm *RepositoryModel) RepositoryFingerprint {
	h := fnv.New64a()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}

	write(rm.Interface)
	write(string(rm.Dialect))
	write(entityQualifiedName(rm.Entity))
	write(keyTypeName(rm.Entity))

	methodNames := make([]string, len(rm.Methods))
	for i, m := range rm.Methods {
		methodNames[i] = m.Name
	}
	sort.Strings(methodNames)
	write("methods")
	for _, n := range methodNames {
		write(n)
	}

	write("properties")
	for _, f := range rm.Entity.Fields {
		write(f.Name)
		write(f.Type.Type.String())
	}

	relKeys := make([]string, len(rm.Entity.Edges))
	for i, e := range rm.Entity.Edges {
		relKeys[i] = e.Name + ":" + e.Rel.Type.String() + ":" + e.Type.Name
	}
	sort.Strings(relKeys)
	write("relationships")
	for _, k := range relKeys {
		write(k)
	}

	return RepositoryFingerprint(h.Sum64())
}

func entityQualifiedName(t *Type) string {
	if t.Config != nil && t.Config.Package != "" {
		return t.Config.Package + "." + t.Name
	}
	return t.Name
}

func keyTypeName(t *Type) string {
	if t.HasCompositeID() {
		names := make([]string, 0, len(t.EdgeSchema.ID))
		for _, f := range t.EdgeSchema.ID {
			names = append(names, f.Type.Type.String())
		}
		sort.Strings(names)
		out := "composite("
		for i, n := range names {
			if i > 0 {
				out += ","
			}
			out += n
		}
		return out + ")"
	}
	if t.ID != nil {
		return t.ID.Type.Type.String()
	}
	return "unknown"
}
