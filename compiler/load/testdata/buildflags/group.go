//go:build !hidegroups

package buildflags

import (
	"github.com/npagen/npagen"
	"github.com/npagen/npagen/schema/field"
)

// Group holds the schema definition for the Group entity.
type Group struct {
	npa.Schema
}

// Fields of the Group.
func (Group) Fields() []npa.Field {
	return []npa.Field{
		field.String("name"),
	}
}
