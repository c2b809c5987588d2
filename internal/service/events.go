package service

import (
	"supplytrace/internal/model"
)

// EventPublisher receives ledger notifications after the mutation that caused
// them has committed. Implementations must not block the caller.
type EventPublisher interface {
	Publish(event model.Event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(model.Event) {}

// NopPublisher discards every event.
func NopPublisher() EventPublisher { return nopPublisher{} }

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return NopPublisher()
	}
	return p
}
