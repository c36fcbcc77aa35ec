package pubsub

import "errors"

var (
	// ErrTopicTypeMismatch is returned when a topic already bound to one
	// type is subscribed to or published on at a different type.
	ErrTopicTypeMismatch = errors.New("pubsub: topic already bound to a different type")

	// ErrSerializerNotInstalled is returned by a channel's serialized
	// publish path when the topic has no codec installed.
	// Broker.PublishSerialized logs it and drops the message instead of
	// returning it, and bridge subscribers skip such topics silently.
	ErrSerializerNotInstalled = errors.New("pubsub: no serializer installed for topic")
)
