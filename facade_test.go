package npa_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npagen/npagen"
)

type fakeMetadataProvider struct {
	entities []npa.EntityMetadata
}

func (p *fakeMetadataProvider) GetByType(t reflect.Type) (npa.EntityMetadata, bool) {
	for _, e := range p.entities {
		if e.Type == t {
			return e, true
		}
	}
	return npa.EntityMetadata{}, false
}

func (p *fakeMetadataProvider) IsEntity(t reflect.Type) bool {
	_, ok := p.GetByType(t)
	return ok
}

func (p *fakeMetadataProvider) All() []npa.EntityMetadata { return p.entities }

type widget struct{}

func TestGetMetadataFindsRegisteredType(t *testing.T) {
	provider := &fakeMetadataProvider{entities: []npa.EntityMetadata{
		{Type: reflect.TypeOf(widget{}), Table: "widgets", KeyProperty: "Id", KeyColumn: "id"},
	}}

	meta, ok := npa.GetMetadata[widget](provider)
	require.True(t, ok)
	assert.Equal(t, "widgets", meta.Table)
}

func TestGetMetadataMissesUnregisteredType(t *testing.T) {
	provider := &fakeMetadataProvider{}

	_, ok := npa.GetMetadata[widget](provider)
	assert.False(t, ok)
}

func TestMetadataProviderIsEntity(t *testing.T) {
	provider := &fakeMetadataProvider{entities: []npa.EntityMetadata{
		{Type: reflect.TypeOf(widget{}), Table: "widgets"},
	}}

	assert.True(t, provider.IsEntity(reflect.TypeOf(widget{})))
	assert.False(t, provider.IsEntity(reflect.TypeOf(0)))
}
