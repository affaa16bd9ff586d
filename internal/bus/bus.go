// In-process stand-in for the host runtime's cross-context message channel.
// Every message is fire-and-await-reply; the bus is injected so the
// coordinator and page agent can be tested with fakes.

package bus

import (
	"context"
	"fmt"
	"sync"
)

// Kind is a logical message kind on the channel.
type Kind string

const (
	KindGetSettings    Kind = "get-settings"
	KindUpdateSettings Kind = "update-settings"
	KindAutofillStart  Kind = "autofill-start"
	KindDetectPlatform Kind = "detect-platform"
	KindAutofillData   Kind = "autofill-data"
	KindLogActivity    Kind = "log-activity"
)

// Handler serves one message kind. Its reply is delivered to the requester.
type Handler func(ctx context.Context, payload interface{}) (interface{}, error)

type Bus struct {
	mu       sync.RWMutex
	handlers map[Kind]Handler
}

func New() *Bus {
	return &Bus{handlers: make(map[Kind]Handler)}
}

// Handle registers the single handler for a kind; a later registration
// replaces an earlier one.
func (b *Bus) Handle(kind Kind, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = h
}

// Request sends a message and awaits the reply. The handler runs on its own
// goroutine so a slow receiver never blocks the sender past ctx.
func (b *Bus) Request(ctx context.Context, kind Kind, payload interface{}) (interface{}, error) {
	b.mu.RLock()
	h, ok := b.handlers[kind]
	b.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("bus: no handler registered for %q", kind)
	}

	type reply struct {
		value interface{}
		err   error
	}
	ch := make(chan reply, 1)
	go func() {
		value, err := h(ctx, payload)
		ch <- reply{value: value, err: err}
	}()

	select {
	case r := <-ch:
		return r.value, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
