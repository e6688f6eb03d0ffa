package schema

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Notifier fans schema change events out to in-process listeners. It
// satisfies ChangePublisher.
type Notifier struct {
	mu        sync.RWMutex
	listeners []func(context.Context, uuid.UUID, map[string]any)
}

// NewNotifier constructs a schema notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Register adds a listener. Nil listeners are ignored.
func (n *Notifier) Register(listener func(context.Context, uuid.UUID, map[string]any)) {
	if listener == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, listener)
}

// Notify emits a schema change event to all registered listeners.
func (n *Notifier) Notify(ctx context.Context, actorID uuid.UUID, metadata map[string]any) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, listener := range n.listeners {
		listener(ctx, actorID, metadata)
	}
}
