package event

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hompulse/console/internal/log"
)

func TestPublishReachesSubscribers(t *testing.T) {
	em := NewEventManager(log.NewWriterLogger(&bytes.Buffer{}, log.LevelError))

	var got []interface{}
	em.Subscribe(PartnerChanged, func(e Event) { got = append(got, e.Data) })
	em.Subscribe(ProductChanged, func(e Event) { t.Fatal("unexpected product event") })

	em.Publish(Event{Type: PartnerChanged, Data: "retailers"})
	require.Len(t, got, 1)
	assert.Equal(t, "retailers", got[0])
}

func TestPanickingHandlerIsIsolated(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWriterLogger(&buf, log.LevelError)
	em := NewEventManager(logger)

	called := false
	em.Subscribe(LoggedOut, func(Event) { panic("boom") })
	em.Subscribe(LoggedOut, func(Event) { called = true })

	assert.NotPanics(t, func() { em.Publish(Event{Type: LoggedOut}) })
	assert.True(t, called)

	require.NoError(t, logger.Close())
	assert.Contains(t, buf.String(), "Panic in event handler")
}

func TestNilManager(t *testing.T) {
	var em *EventManager
	assert.NotPanics(t, func() { em.Publish(Event{Type: RoleChanged}) })
}
