package base

import (
	"github.com/npagen/npagen"
	"github.com/npagen/npagen/schema/field"
)

// BaseFields returns common base fields.
// This is a helper function, not a schema type.
func BaseFields() []npa.Field {
	return []npa.Field{
		field.Int("base_field"),
	}
}

// User holds the schema definition for the User entity.
type User struct {
	npa.Schema
}

// Fields of the User.
func (User) Fields() []npa.Field {
	return append(
		BaseFields(),
		field.String("user_field"),
	)
}
