package queries

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoQuery struct{ Text string }

func (echoQuery) Key() string { return "test.echo" }

type otherQuery struct{}

func (otherQuery) Key() string { return "test.other" }

func TestInMemoryBus_RoutesByKey(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[echoQuery, string](bus, echoQuery{}.Key(), HandlerFunc[echoQuery, string](func(_ context.Context, q echoQuery) (string, error) {
		return "echo:" + q.Text, nil
	}))

	got, err := Ask[echoQuery, string](context.Background(), bus, echoQuery{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "echo:hi", got)
	assert.Equal(t, []string{"test.echo"}, bus.Keys())
}

func TestInMemoryBus_Errors(t *testing.T) {
	bus := NewInMemoryBus()
	RegisterHandler[echoQuery, int](bus, echoQuery{}.Key(), HandlerFunc[echoQuery, int](func(context.Context, echoQuery) (int, error) {
		return 1, nil
	}))

	_, err := bus.Ask(context.Background(), otherQuery{})
	assert.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = Ask[echoQuery, string](context.Background(), bus, echoQuery{})
	assert.ErrorIs(t, err, ErrResultType)

	_, err = Ask[echoQuery, string](context.Background(), nil, echoQuery{})
	assert.ErrorIs(t, err, ErrNilBus)

	boom := errors.New("boom")
	bus.RegisterRaw("test.other", func(context.Context, Query) (any, error) { return nil, boom })
	_, err = bus.Ask(context.Background(), otherQuery{})
	assert.ErrorIs(t, err, boom)
}

func TestInMemoryBus_DuplicateRegistrationPanics(t *testing.T) {
	bus := NewInMemoryBus()
	h := func(context.Context, Query) (any, error) { return nil, nil }
	bus.RegisterRaw("k", h)
	assert.Panics(t, func() { bus.RegisterRaw("k", h) })
	assert.Panics(t, func() { bus.RegisterRaw("", h) })
}
