package failure

import (
	"github.com/npagen/npagen"
	"github.com/npagen/npagen/schema/field"
)

// User holds a schema that causes a failure during load.
type User struct {
	npa.Schema
}

// Fields panics intentionally to test error handling during schema loading.
func (User) Fields() []npa.Field {
	// This panic will be caught by safeFields and returned as an error.
	panic("intentional panic in Fields() for testing error handling")
	return []npa.Field{
		field.String("name"),
	}
}
