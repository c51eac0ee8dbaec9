package valid

import (
	"github.com/npagen/npagen"
	"github.com/npagen/npagen/schema/edge"
	"github.com/npagen/npagen/schema/field"
	"github.com/npagen/npagen/schema/index"
)

// User holds the schema definition for the User entity.
type User struct {
	npa.Schema
}

// Fields of the User.
func (User) Fields() []npa.Field {
	return []npa.Field{
		field.String("name"),
		field.String("email").Unique(),
		field.Int("age").Optional(),
	}
}

// Edges of the User.
func (User) Edges() []npa.Edge {
	return []npa.Edge{
		edge.To("groups", Group.Type),
		edge.To("tags", Tag.Type),
	}
}

// Indexes of the User.
func (User) Indexes() []npa.Index {
	return []npa.Index{
		index.Fields("name", "email").Unique(),
	}
}

// Group holds the schema definition for the Group entity.
type Group struct {
	npa.Schema
}

// Fields of the Group.
func (Group) Fields() []npa.Field {
	return []npa.Field{
		field.String("name"),
		field.String("description").Optional(),
	}
}

// Edges of the Group.
func (Group) Edges() []npa.Edge {
	return []npa.Edge{
		edge.From("users", User.Type).Ref("groups"),
	}
}

// Tag holds the schema definition for the Tag entity.
type Tag struct {
	npa.Schema
}

// Fields of the Tag.
func (Tag) Fields() []npa.Field {
	return []npa.Field{
		field.String("value"),
	}
}

// Edges of the Tag.
func (Tag) Edges() []npa.Edge {
	return []npa.Edge{
		edge.From("users", User.Type).Ref("tags"),
	}
}
