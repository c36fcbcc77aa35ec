package pubsub

// bridgeDescriptor is what the registry remembers about an all-topics
// serialized subscriber so it can replay the subscription into any topic
// channel created after the subscription was made (spec.md §4.2).
type bridgeDescriptor struct {
	id           HandlerID
	sink         func(topic, payload string)
	exceptSender int
	maxQueue     int
}

// registry owns the topic -> channel map and the process-wide (within
// this Broker) list of all-topics serialized-bridge subscribers. Every
// method assumes the caller holds the owning Broker's mutex.
type registry struct {
	channels      map[string]topicChannel
	bridgeCounter HandlerID
	bridges       []bridgeDescriptor
	pool          WorkerPool
	maxBuffer     int
}

func newRegistry(pool WorkerPool, maxBuffer int) *registry {
	return &registry{
		channels:      make(map[string]topicChannel),
		bridgeCounter: typedHandlerTop,
		pool:          pool,
		maxBuffer:     maxBuffer,
	}
}

// getOrCreate returns topic's channel, creating it (with the default
// codec and every currently-known all-topics bridge already attached)
// if this is the first touch. ErrTopicTypeMismatch if topic is already
// bound to a different type.
func getOrCreate[T any](r *registry, topic string) (*channel[T], error) {
	if existing, ok := r.channels[topic]; ok {
		ch, ok := existing.(*channel[T])
		if !ok {
			return nil, ErrTopicTypeMismatch
		}
		return ch, nil
	}
	ch := newChannel[T](topic, r.pool, r.maxBuffer)
	r.channels[topic] = ch
	for _, b := range r.bridges {
		ch.subscribeBridge(b.sink, b.exceptSender, b.id, b.maxQueue)
	}
	return ch, nil
}

// lookup returns topic's channel without creating it. Used by
// operations that must not fabricate a topic as a side effect, such as
// GetLatest.
func lookup[T any](r *registry, topic string) (*channel[T], bool, error) {
	existing, ok := r.channels[topic]
	if !ok {
		return nil, false, nil
	}
	ch, ok := existing.(*channel[T])
	if !ok {
		return nil, false, ErrTopicTypeMismatch
	}
	return ch, true, nil
}

func (r *registry) subscribeAllSerialized(sink func(topic, payload string), exceptSender, maxQueue int) HandlerID {
	r.bridgeCounter++
	id := r.bridgeCounter
	d := bridgeDescriptor{id: id, sink: sink, exceptSender: exceptSender, maxQueue: maxQueue}
	r.bridges = append(r.bridges, d)
	for _, ch := range r.channels {
		ch.subscribeBridge(d.sink, d.exceptSender, d.id, d.maxQueue)
	}
	return id
}

func (r *registry) closeAllSerialized(id HandlerID) {
	for _, ch := range r.channels {
		ch.closeSubscriber(id)
	}
	for i, b := range r.bridges {
		if b.id == id {
			r.bridges = append(r.bridges[:i], r.bridges[i+1:]...)
			break
		}
	}
}

// publishSerialized routes raw to topic's channel. Dropped silently if
// the topic has never been touched — there is no codec to decode with
// and no typed subscriber to serve (spec.md §4.2).
func (r *registry) publishSerialized(topic, raw string, sendType SendType, senderID int) {
	ch, ok := r.channels[topic]
	if !ok {
		return
	}
	if err := ch.publishSerialized(raw, sendType, senderID); err != nil {
		logger.Debug("pubsub: publish_serialized dropped", "topic", topic, "error", err)
	}
}

func (r *registry) dispatchOnce() bool {
	progressing := false
	for _, ch := range r.channels {
		if ch.dispatchOnce() {
			progressing = true
		}
	}
	return progressing
}

func (r *registry) waitAllInFlight() {
	for _, ch := range r.channels {
		ch.waitInFlight()
	}
}
