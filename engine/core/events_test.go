package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEvents(t *testing.T) {
	t.Helper()
	require.True(t, EventSystemInitialize())
	t.Cleanup(func() { _ = EventSystemShutdown() })
}

func TestEventRegisterAndFire(t *testing.T) {
	withEvents(t)

	var got []string
	a, b := "a", "b"
	assert.True(t, EventRegister(EVENT_CODE_RESIZED, &a, func(ctx EventContext) bool {
		got = append(got, "a")
		return false
	}))
	assert.True(t, EventRegister(EVENT_CODE_RESIZED, &b, func(ctx EventContext) bool {
		se := ctx.Data.(*SystemEvent)
		got = append(got, "b")
		return se.WindowWidth == 10
	}))
	assert.False(t, EventRegister(EVENT_CODE_RESIZED, &a, func(EventContext) bool { return false }))

	handled := EventFire(EventContext{Type: EVENT_CODE_RESIZED, Data: &SystemEvent{WindowWidth: 10}})
	assert.True(t, handled)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestEventHandledStopsPropagation(t *testing.T) {
	withEvents(t)

	calls := 0
	a, b := 1, 2
	EventRegister(EVENT_CODE_APPLICATION_QUIT, &a, func(EventContext) bool { calls++; return true })
	EventRegister(EVENT_CODE_APPLICATION_QUIT, &b, func(EventContext) bool { calls++; return true })

	assert.True(t, EventFire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT}))
	assert.Equal(t, 1, calls)
}

func TestEventUnregister(t *testing.T) {
	withEvents(t)

	calls := 0
	l := struct{ n int }{}
	EventRegister(EVENT_CODE_KEY_PRESSED, &l, func(EventContext) bool { calls++; return false })
	assert.True(t, EventUnregister(EVENT_CODE_KEY_PRESSED, &l))
	assert.False(t, EventUnregister(EVENT_CODE_KEY_PRESSED, &l))

	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_KEY_PRESSED}))
	assert.Zero(t, calls)
}

func TestEventFireWithoutSystem(t *testing.T) {
	assert.False(t, EventFire(EventContext{Type: EVENT_CODE_KEY_PRESSED}))
}
