package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orneryd/gds/pkg/core"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := core.NewRegistry()
	r.Register(degreeEchoSpec{})

	algo, ok := r.Lookup("degreeEcho")
	require.True(t, ok)
	assert.Equal(t, "degreeEcho", algo.Name())

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_Names_IsSorted(t *testing.T) {
	r := core.NewRegistry()
	r.Register(streamOnlySpec{})
	r.Register(degreeEchoSpec{})

	assert.Equal(t, []string{"degreeEcho", "streamOnly"}, r.Names())
}

func TestRegistry_DuplicateRegistrationPanics(t *testing.T) {
	r := core.NewRegistry()
	r.Register(degreeEchoSpec{})
	assert.Panics(t, func() { r.Register(degreeEchoSpec{}) })
}
