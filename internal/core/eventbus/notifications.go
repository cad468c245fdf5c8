package eventbus

import (
	"sync"
	"time"
)

// SaveStatus is the state behind the optional "couldn't save" indicator.
type SaveStatus struct {
	Failing  bool
	LastErr  error
	LastSave time.Time // zero until the first successful save
}

// SaveIndicator tracks durable save outcomes published on the bus. It never
// interrupts the session; consumers poll Status to show a transient badge.
type SaveIndicator struct {
	mu     sync.RWMutex
	status SaveStatus
}

// NewSaveIndicator subscribes an indicator to bus.
func NewSaveIndicator(bus *EventBus) *SaveIndicator {
	ind := &SaveIndicator{}
	if bus == nil {
		return ind
	}

	bus.SubscribeStoreSaved(func(p StoreSavedPayload) {
		ind.mu.Lock()
		ind.status = SaveStatus{LastSave: p.At}
		ind.mu.Unlock()
	})

	bus.SubscribeStoreSaveFailed(func(p StoreSaveFailedPayload) {
		ind.mu.Lock()
		ind.status.Failing = true
		ind.status.LastErr = p.Err
		ind.mu.Unlock()
	})

	return ind
}

// Status returns the latest save state.
func (ind *SaveIndicator) Status() SaveStatus {
	ind.mu.RLock()
	defer ind.mu.RUnlock()
	return ind.status
}
