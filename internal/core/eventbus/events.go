package eventbus

import "time"

// Events defines all event types and their payload structs.
var Events = map[string]any{
	// Keep list sorted A-Z
	"store.save-failed": StoreSaveFailedPayload{},
	"store.saved":       StoreSavedPayload{},
	"store.seeded":      StoreSeededPayload{},
	"tasks.changed":     TasksChangedPayload{},
}

const (
	EventStoreSaveFailed Event = "store.save-failed"
	EventStoreSaved      Event = "store.saved"
	EventStoreSeeded     Event = "store.seeded"
	EventTasksChanged    Event = "tasks.changed"
)

// TasksChangedPayload is emitted after the store commits a mutation.
type TasksChangedPayload struct {
	Reason string // create, patch, delete, order
	TaskID string // empty for order changes
	Count  int    // collection size after the commit
}

// StoreSavedPayload is emitted after a snapshot reached durable storage.
type StoreSavedPayload struct {
	Count int
	At    time.Time
}

// StoreSaveFailedPayload is emitted when durable storage rejected a snapshot.
// The in-memory board is unaffected.
type StoreSaveFailedPayload struct {
	Count int
	Err   error
	At    time.Time
}

// StoreSeededPayload is emitted when the store fell back to seed data on load.
type StoreSeededPayload struct {
	Reason string
}

func (bus *EventBus) PublishTasksChanged(p TasksChangedPayload) {
	bus.send(EventTasksChanged, p)
}

func (bus *EventBus) SubscribeTasksChanged(fn func(TasksChangedPayload)) {
	bus.subscribe(EventTasksChanged, func(p any) { fn(p.(TasksChangedPayload)) })
}

func (bus *EventBus) PublishStoreSaved(p StoreSavedPayload) {
	bus.send(EventStoreSaved, p)
}

func (bus *EventBus) SubscribeStoreSaved(fn func(StoreSavedPayload)) {
	bus.subscribe(EventStoreSaved, func(p any) { fn(p.(StoreSavedPayload)) })
}

func (bus *EventBus) PublishStoreSaveFailed(p StoreSaveFailedPayload) {
	bus.send(EventStoreSaveFailed, p)
}

func (bus *EventBus) SubscribeStoreSaveFailed(fn func(StoreSaveFailedPayload)) {
	bus.subscribe(EventStoreSaveFailed, func(p any) { fn(p.(StoreSaveFailedPayload)) })
}

func (bus *EventBus) PublishStoreSeeded(p StoreSeededPayload) {
	bus.send(EventStoreSeeded, p)
}

func (bus *EventBus) SubscribeStoreSeeded(fn func(StoreSeededPayload)) {
	bus.subscribe(EventStoreSeeded, func(p any) { fn(p.(StoreSeededPayload)) })
}
