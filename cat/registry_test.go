package cat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftl/sim-toolkit/sim"
)

func newTestRegistry(t *testing.T) (*Registry, *int) {
	created := 0
	registry := NewRegistry(func(slot sim.Slot, radio Radio, deps RadioDeps) *Service {
		created++
		broadcaster := &fakeBroadcaster{broadcasts: make(chan broadcast, 20)}
		return New(slot, radio, Collaborators{RadioDeps: deps, Broadcaster: broadcaster}, Options{})
	})
	t.Cleanup(registry.Close)
	return registry, &created
}

func TestRegistry_OneServicePerSlot(t *testing.T) {
	registry, created := newTestRegistry(t)

	first := registry.Service(sim.Slot(0), &fakeRadio{}, RadioDeps{})
	second := registry.Service(sim.Slot(1), &fakeRadio{}, RadioDeps{})
	again := registry.Service(sim.Slot(0), &fakeRadio{}, RadioDeps{})

	assert.Equal(t, 2, *created)
	assert.Same(t, first, again)
	assert.NotSame(t, first, second)
	assert.Equal(t, []sim.Slot{0, 1}, registry.Slots())

	actual, err := registry.Lookup(sim.Slot(1))
	require.NoError(t, err)
	assert.Same(t, second, actual)
}

func TestRegistry_Dispose(t *testing.T) {
	registry, _ := newTestRegistry(t)
	service := registry.Service(sim.Slot(0), &fakeRadio{}, RadioDeps{})

	err := registry.Dispose(sim.Slot(0))

	assert.NoError(t, err)
	assert.True(t, service.Disposed())
	_, err = registry.Lookup(sim.Slot(0))
	assert.ErrorIs(t, err, ErrUnknownSlot)
	assert.ErrorIs(t, registry.Dispose(sim.Slot(0)), ErrUnknownSlot)
}

func TestRegistry_Close(t *testing.T) {
	registry, _ := newTestRegistry(t)
	first := registry.Service(sim.Slot(0), &fakeRadio{}, RadioDeps{})
	second := registry.Service(sim.Slot(1), &fakeRadio{}, RadioDeps{})

	registry.Close()

	assert.True(t, first.Disposed())
	assert.True(t, second.Disposed())
	assert.Empty(t, registry.Slots())
}

func TestRegistry_RouteResponses(t *testing.T) {
	registry, _ := newTestRegistry(t)
	radio := &fakeRadio{}
	service := registry.Service(sim.Slot(0), radio, RadioDeps{})
	service.OnRilMessage(RawMessage{Kind: ProactiveCommand, Hex: setUpMenu})
	waitForResponses(t, radio, 1)

	err := registry.OnCmdResponse(sim.Slot(0), Response{Details: setUpMenuDetails, Result: OK, MenuSelection: 2})
	assert.NoError(t, err)
	assert.Equal(t, []string{"D30782020181900102"}, waitForEnvelopes(t, radio, 1))

	err = registry.OnCmdResponse(sim.Slot(1), Response{Details: setUpMenuDetails, Result: OK})
	assert.ErrorIs(t, err, ErrUnknownSlot)
	err = registry.OnEventResponse(sim.Slot(1), Response{Event: EventIdleScreen})
	assert.ErrorIs(t, err, ErrUnknownSlot)

	service.Dispose()
	err = registry.OnEventResponse(sim.Slot(0), Response{Event: EventIdleScreen})
	assert.ErrorIs(t, err, ErrServiceDisposed)
}
