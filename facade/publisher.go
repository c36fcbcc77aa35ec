// Package facade wraps pubsub.Broker in the convenience layer spec.md
// §1 and §9 treat as an external collaborator of the core: lifetime-
// scoped subscriber handles, typed publisher handles, and an explicit
// (never implicit) process-wide singleton. None of this package's
// behavior is part of the core's contract — it is sugar over the
// operations in pubsub's exported API.
package facade

import "github.com/alreschas/pubsub-go/pubsub"

// Publisher is a lightweight, topic-bound publish handle — the Go
// analogue of the source's template<DataType> Publisher
// (original_source/src/pubsub.hpp).
type Publisher[T any] struct {
	broker *pubsub.Broker
	topic  string
	sender int
}

// NewPublisher returns a Publisher bound to topic on b, with anonymous
// sender attribution. Use WithSender to set a sender ID, typically so a
// serialized bridge can recognize and suppress its own echoes.
func NewPublisher[T any](b *pubsub.Broker, topic string) Publisher[T] {
	return Publisher[T]{broker: b, topic: topic, sender: pubsub.AnonymousSender}
}

// WithSender returns a copy of p that attributes published messages to
// senderID.
func (p Publisher[T]) WithSender(senderID int) Publisher[T] {
	p.sender = senderID
	return p
}

// Publish sends value on the typed and serialized planes.
func (p Publisher[T]) Publish(value T) error {
	return pubsub.Publish(p.broker, p.topic, value, pubsub.Global, p.sender)
}

// PublishLocal sends value on the typed plane only; it never reaches
// serialized-bridge subscribers.
func (p Publisher[T]) PublishLocal(value T) error {
	return pubsub.Publish(p.broker, p.topic, value, pubsub.Local, p.sender)
}
