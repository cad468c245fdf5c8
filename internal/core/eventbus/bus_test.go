package eventbus_test

import (
	"errors"
	"testing"
	"time"

	"github.com/colonyops/matrix/internal/core/eventbus"
	"github.com/colonyops/matrix/internal/core/eventbus/testbus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestRegisterDebugLogger(t *testing.T) {
	tb := testbus.New(t)

	// Register with a nop logger; must not panic.
	eventbus.RegisterDebugLogger(tb.EventBus, zerolog.Nop())

	tb.PublishTasksChanged(eventbus.TasksChangedPayload{Reason: "create", TaskID: "a", Count: 1})
	tb.PublishStoreSaved(eventbus.StoreSavedPayload{Count: 1, At: time.Now()})

	tb.AssertPublished(t, eventbus.EventStoreSaved)
}

func TestSubscriberPanicIsRecovered(t *testing.T) {
	tb := testbus.New(t)

	panicked := make(chan eventbus.Event, 1)
	tb.OnPanic(func(e eventbus.Event, _ any, _ any) { panicked <- e })
	tb.SubscribeStoreSeeded(func(eventbus.StoreSeededPayload) { panic("boom") })

	tb.PublishStoreSeeded(eventbus.StoreSeededPayload{Reason: "no data"})

	select {
	case e := <-panicked:
		assert.Equal(t, eventbus.EventStoreSeeded, e)
	case <-time.After(time.Second):
		t.Fatal("panic hook did not fire")
	}

	// the recording subscriber registered before the panicking one still ran
	tb.AssertPublished(t, eventbus.EventStoreSeeded)
}

func TestDropWhenBufferFull(t *testing.T) {
	bus := eventbus.New(1) // not started, so nothing drains

	var dropped []eventbus.Event
	bus.OnDrop(func(e eventbus.Event, _ any) { dropped = append(dropped, e) })

	bus.PublishTasksChanged(eventbus.TasksChangedPayload{})
	bus.PublishTasksChanged(eventbus.TasksChangedPayload{})

	assert.Equal(t, []eventbus.Event{eventbus.EventTasksChanged}, dropped)
}

func TestNilBusSwallowsEvents(t *testing.T) {
	var bus *eventbus.EventBus
	assert.NotPanics(t, func() {
		bus.PublishTasksChanged(eventbus.TasksChangedPayload{})
	})
}

func TestSaveIndicator(t *testing.T) {
	tb := testbus.New(t)
	ind := eventbus.NewSaveIndicator(tb.EventBus)

	assert.False(t, ind.Status().Failing)

	tb.PublishStoreSaveFailed(eventbus.StoreSaveFailedPayload{Err: errors.New("disk full")})
	assert.Eventually(t, func() bool { return ind.Status().Failing }, time.Second, 5*time.Millisecond)
	assert.EqualError(t, ind.Status().LastErr, "disk full")

	now := time.Now()
	tb.PublishStoreSaved(eventbus.StoreSavedPayload{At: now})
	assert.Eventually(t, func() bool { return !ind.Status().Failing }, time.Second, 5*time.Millisecond)
	assert.Equal(t, now, ind.Status().LastSave)
}
