package admin

import (
	"sync"

	"studio/internal/events"
	"studio/internal/models"
)

// opState is the isolated status record of one admin operation.
type opState struct {
	flow string
	pub  events.Publisher

	mu     sync.Mutex
	status models.Status
}

func newOpState(flow string, pub events.Publisher) *opState {
	return &opState{flow: flow, pub: pub, status: models.Idle()}
}

// begin moves the operation to sending unless an attempt is already pending.
func (o *opState) begin() bool {
	o.mu.Lock()
	if o.status.Pending() {
		o.mu.Unlock()
		return false
	}
	o.status = models.Sending()
	o.mu.Unlock()
	events.PublishStatus(o.pub, o.flow, models.Sending())
	return true
}

func (o *opState) finish(st models.Status) models.Status {
	o.mu.Lock()
	o.status = st
	o.mu.Unlock()
	events.PublishStatus(o.pub, o.flow, st)
	return st
}

func (o *opState) get() models.Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// reject records a client-side validation failure; nothing was sent. It
// reports false when another attempt is still pending.
func (o *opState) reject(msg string) (models.Status, bool) {
	o.mu.Lock()
	if o.status.Pending() {
		st := o.status
		o.mu.Unlock()
		return st, false
	}
	o.status = models.Failed(msg)
	st := o.status
	o.mu.Unlock()
	events.PublishStatus(o.pub, o.flow, st)
	return st, true
}
