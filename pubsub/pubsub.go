package pubsub

// This file is the narrow external API spec.md §6 describes: what the
// core exposes to a facade (typed publisher handles, RAII-style
// subscriber handles, a process-wide singleton) without the core itself
// knowing about any of that sugar. Go can't attach extra type
// parameters to a method, so the typed operations are free functions
// taking *Broker rather than Broker methods — the direct equivalent of
// the source's template<DataType> member functions.

// CloseSubscribe removes a typed subscriber from topic. Silently
// ignored if topic or handlerID is unknown (spec.md §7).
func (b *Broker) CloseSubscribe(topic string, id HandlerID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.reg.channels[topic]; ok {
		ch.closeSubscriber(id)
	}
}

// PauseSubscribe halts dispatch to a subscriber without removing it.
// Silently ignored if topic or handlerID is unknown.
func (b *Broker) PauseSubscribe(topic string, id HandlerID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.reg.channels[topic]; ok {
		ch.pauseSubscriber(id)
	}
}

// ResumeSubscribe resumes a paused subscriber; only messages published
// after Resume are delivered. Silently ignored if topic or handlerID is
// unknown.
func (b *Broker) ResumeSubscribe(topic string, id HandlerID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.reg.channels[topic]; ok {
		ch.resumeSubscriber(id)
	}
}

// SubscribeSerialized attaches sink across every current and future
// topic, observing every GLOBAL, non-excluded publication as
// (topic, encoded payload). exceptSender suppresses echoes from that
// sender ID; pass AnonymousSender to exclude nothing. Returns a bridge
// ID valid across every channel; CloseSubscribeSerialized removes it
// from all of them in one call.
func (b *Broker) SubscribeSerialized(sink func(topic, payload string), exceptSender, maxQueue int) HandlerID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reg.subscribeAllSerialized(sink, exceptSender, maxQueue)
}

// CloseSubscribeSerialized removes a bridge subscription from every
// topic channel.
func (b *Broker) CloseSubscribeSerialized(id HandlerID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reg.closeAllSerialized(id)
}

// PublishSerialized injects an externally-encoded payload; send_type is
// implicitly Global (spec.md §6). Silently dropped if topic has never
// been touched or has no serializer installed.
func (b *Broker) PublishSerialized(topic, raw string, senderID int) {
	b.mu.Lock()
	b.reg.publishSerialized(topic, raw, Global, senderID)
	b.mu.Unlock()
	b.notify()
}

// Subscribe registers a typed callback on topic. The topic's bound type
// is fixed by the first Subscribe or Publish against it; a call at a
// different type later returns ErrTopicTypeMismatch and InvalidHandlerID.
func Subscribe[T any](b *Broker, topic string, callback func(Message[T]), maxQueue int) (HandlerID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, err := getOrCreate[T](b.reg, topic)
	if err != nil {
		return InvalidHandlerID, err
	}
	return ch.Subscribe(callback, maxQueue), nil
}

// Publish appends value to topic. sendType controls whether the value
// also reaches serialized-bridge subscribers (Global) or stays on the
// typed plane only (Local).
func Publish[T any](b *Broker, topic string, value T, sendType SendType, senderID int) error {
	b.mu.Lock()
	ch, err := getOrCreate[T](b.reg, topic)
	if err != nil {
		b.mu.Unlock()
		return err
	}
	ch.publish(value, sendType, senderID)
	b.mu.Unlock()
	b.notify()
	return nil
}

// GetLatest returns a copy of the newest buffered value for topic, or
// false if topic has never been published to or is bound to a different
// type. Unlike Subscribe and Publish, GetLatest never creates topic.
func GetLatest[T any](b *Broker, topic string) (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var zero T
	ch, ok, err := lookup[T](b.reg, topic)
	if err != nil || !ok {
		return zero, false
	}
	return ch.getLatest()
}

// SetSerializer installs or replaces topic's codec. Existing bridge
// subscribers read the codec at dispatch time rather than at
// subscription time, so replacing it affects messages dispatched from
// this point on, including ones already buffered (spec.md §4.1, Open
// Question (i)).
func SetSerializer[T any](b *Broker, topic string, codec Codec[T]) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, err := getOrCreate[T](b.reg, topic)
	if err != nil {
		return err
	}
	ch.setSerializer(codec)
	return nil
}
