package cycle

import (
	"github.com/npagen/npagen"
	"github.com/npagen/npagen/compiler/load/testdata/cycle/fakenpa"
	"github.com/npagen/npagen/schema/field"
)

// Enum is a custom type that creates a cycle.
type Enum = fakenpa.Enum

// Used is another custom type that creates a cycle.
type Used = fakenpa.Used

// User holds the schema definition for the User entity.
type User struct {
	npa.Schema
}

// Fields of the User.
// Uses Enum and Used types which create an import cycle.
func (User) Fields() []npa.Field {
	var _ Enum // Reference Enum type
	var _ Used // Reference Used type
	return []npa.Field{
		field.String("name"),
	}
}
