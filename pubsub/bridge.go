package pubsub

// subscribeBridge attaches a serialized-bridge subscriber: sink receives
// (topic, encoded payload) for every GLOBAL publication on this topic
// except those sent by exceptSender (unless exceptSender is
// AnonymousSender, which excludes nothing). id is assigned by the
// registry so the same bridge carries one ID across every topic channel
// (spec.md §3, §4.1, §4.2).
//
// A bridge attached after at least one publish immediately re-delivers
// the single newest buffered message in encoded form — its cursor starts
// at max(0, len(buffer)-1) rather than len(buffer).
func (c *channel[T]) subscribeBridge(sink func(topic, payload string), exceptSender int, id HandlerID, maxQueue int) {
	if _, exists := c.subs[id]; exists {
		return
	}
	topic := c.topic
	callback := func(msg Message[T]) {
		if msg.SendType == Local {
			return
		}
		if exceptSender != AnonymousSender && msg.SenderID == exceptSender {
			return
		}
		if c.serializer == nil {
			return
		}
		payload, err := c.serializer.Encode(msg.Data)
		if err != nil {
			logger.Warn("pubsub: bridge encode failed", "topic", topic, "error", err)
			return
		}
		sink(topic, payload)
	}

	cursor := len(c.buffer) - 1
	if cursor < 0 {
		cursor = 0
	}
	c.subs[id] = &subscriber[T]{
		handlerID: id,
		callback:  callback,
		cursor:    cursor,
		maxQueue:  maxQueue,
		active:    true,
	}
}
