package facade

import (
	"sync"

	"github.com/alreschas/pubsub-go/pubsub"
)

// Subscriber is a Close-once handle over one typed subscription. The
// source's Subscriber was move-only RAII that closed on destruction
// (original_source/src/pubsub.hpp); Go has no destructors, so Close is
// the caller's job — call it from a defer the same way you'd close a
// file.
type Subscriber struct {
	broker *pubsub.Broker
	topic  string
	id     pubsub.HandlerID
	once   sync.Once
}

// Subscribe registers callback on topic and returns a handle that can
// pause, resume, or permanently close the subscription.
func Subscribe[T any](b *pubsub.Broker, topic string, callback func(pubsub.Message[T]), maxQueue int) (*Subscriber, error) {
	id, err := pubsub.Subscribe(b, topic, callback, maxQueue)
	if err != nil {
		return nil, err
	}
	return &Subscriber{broker: b, topic: topic, id: id}, nil
}

// Close removes the subscription. Safe to call more than once and safe
// to call on a nil *Subscriber.
func (s *Subscriber) Close() {
	if s == nil || s.id == pubsub.InvalidHandlerID {
		return
	}
	s.once.Do(func() { s.broker.CloseSubscribe(s.topic, s.id) })
}

// Pause halts delivery without losing the subscription; Resume picks up
// only messages published after it is called.
func (s *Subscriber) Pause() {
	if s == nil {
		return
	}
	s.broker.PauseSubscribe(s.topic, s.id)
}

func (s *Subscriber) Resume() {
	if s == nil {
		return
	}
	s.broker.ResumeSubscribe(s.topic, s.id)
}

// SerializedSubscriber mirrors Subscriber for the cross-topic serialized
// bridge (the source's Subscriber_serialized).
type SerializedSubscriber struct {
	broker *pubsub.Broker
	id     pubsub.HandlerID
	once   sync.Once
}

// SubscribeSerialized attaches sink across every topic on b. exceptSender
// suppresses echoes from that sender ID; pass pubsub.AnonymousSender to
// exclude nothing.
func SubscribeSerialized(b *pubsub.Broker, sink func(topic, payload string), exceptSender, maxQueue int) *SerializedSubscriber {
	id := b.SubscribeSerialized(sink, exceptSender, maxQueue)
	return &SerializedSubscriber{broker: b, id: id}
}

func (s *SerializedSubscriber) Close() {
	if s == nil || s.id == pubsub.InvalidHandlerID {
		return
	}
	s.once.Do(func() { s.broker.CloseSubscribeSerialized(s.id) })
}
