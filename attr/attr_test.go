package attr_test

import (
	"reflect"
	"testing"

	"github.com/npagen/npagen/attr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPositionalAndNamed(t *testing.T) {
	tag := reflect.StructTag(`npa:"Column,name=email,nullable,unique=false"`)

	args, ok := attr.Read(tag, "Column")
	require.True(t, ok)
	assert.Equal(t, "Column", args.Name)

	name, ok := args.String("name")
	require.True(t, ok)
	assert.Equal(t, "email", name)

	assert.True(t, args.Bool("nullable"))
	assert.False(t, args.Bool("unique"))
}

func TestReadMultipleAttributesOnOneField(t *testing.T) {
	tag := reflect.StructTag(`npa:"ManyToOne;JoinColumn,customer_id"`)

	_, ok := attr.Read(tag, "ManyToOne")
	require.True(t, ok)

	jc, ok := attr.Read(tag, "JoinColumn")
	require.True(t, ok)
	name, ok := jc.Pos(0)
	require.True(t, ok)
	assert.Equal(t, "customer_id", name)
}

func TestReadAbsent(t *testing.T) {
	tag := reflect.StructTag(`json:"email"`)

	_, ok := attr.Read(tag, "Column")
	assert.False(t, ok)
}

func TestIntTypeMismatch(t *testing.T) {
	tag := reflect.StructTag(`npa:"Column,length=not-a-number"`)
	args, ok := attr.Read(tag, "Column")
	require.True(t, ok)

	_, present, err := args.Int("length")
	assert.True(t, present)
	assert.Error(t, err)
}

func TestIsRecognized(t *testing.T) {
	assert.True(t, attr.IsRecognized("ManyToOne"))
	assert.False(t, attr.IsRecognized("NotAnAttribute"))
}
