package buildflags

import (
	"github.com/npagen/npagen"
	"github.com/npagen/npagen/schema/field"
)

// User holds the schema definition for the User entity.
type User struct {
	npa.Schema
}

// Fields of the User.
func (User) Fields() []npa.Field {
	return []npa.Field{
		field.String("name"),
	}
}
