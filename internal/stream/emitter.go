package stream

import (
	"sync"
	"time"

	"github.com/studiohaven/cms-api/internal/errs"
)

// IdleTimeout is how long a subscriber connection may stay open
// without activity before the server tears it down.
const IdleTimeout = 600 * 1000 * 60 * time.Millisecond

const sendBuffer = 16

// Emitter is one live push channel to a subscribed recipient.
// Completion, timeout and send failure all end with Close; the
// owning handler deregisters the emitter when Done fires.
type Emitter struct {
	id        string
	events    chan []byte
	done      chan struct{}
	closeOnce sync.Once
	createdAt time.Time
}

func NewEmitter(id string) *Emitter {
	return &Emitter{
		id:        id,
		events:    make(chan []byte, sendBuffer),
		done:      make(chan struct{}),
		createdAt: time.Now(),
	}
}

func (e *Emitter) ID() string {
	return e.id
}

// Send queues a payload for delivery. It fails when the emitter is
// closed or the subscriber cannot keep up with the buffer.
func (e *Emitter) Send(payload []byte) error {
	select {
	case <-e.done:
		return errs.Newf(errs.KindDelivery, "emitter %s is closed", e.id)
	default:
	}

	select {
	case e.events <- payload:
		return nil
	default:
		return errs.Newf(errs.KindDelivery, "emitter %s buffer full", e.id)
	}
}

// Events is the receive side consumed by the SSE handler.
func (e *Emitter) Events() <-chan []byte {
	return e.events
}

// Done is closed exactly once, from any teardown trigger.
func (e *Emitter) Done() <-chan struct{} {
	return e.done
}

func (e *Emitter) Close() {
	e.closeOnce.Do(func() {
		close(e.done)
	})
}
