package pubsub

import "reflect"

// topicChannel is the type-erased view of a *channel[T] the registry
// needs to hold many topics of different bound types in one map
// (spec.md §9's "variant over known primitive types plus an opaque
// bucket", rendered here as a narrow interface rather than a downcast).
type topicChannel interface {
	dispatchOnce() bool
	closeSubscriber(id HandlerID)
	pauseSubscriber(id HandlerID)
	resumeSubscriber(id HandlerID)
	subscribeBridge(sink func(topic, payload string), exceptSender int, id HandlerID, maxQueue int)
	publishSerialized(raw string, sendType SendType, senderID int) error
	waitInFlight()
	typeTag() reflect.Type
}

// channel owns one topic's shared message buffer, its subscriber set,
// and its codec. Every method assumes the caller holds the owning
// Broker's mutex; the channel keeps no lock of its own — spec.md §5
// describes a single mutex shared by the registry and every per-channel
// operation, so there is nothing left for a per-channel lock to guard.
type channel[T any] struct {
	topic             string
	buffer            []Message[T]
	maxBuffer         int
	subs              map[HandlerID]*subscriber[T]
	nextTypedID       HandlerID
	serializer        Codec[T]
	oldestDeliverable int
	pool              WorkerPool
}

func newChannel[T any](topic string, pool WorkerPool, maxBuffer int) *channel[T] {
	return &channel[T]{
		topic:      topic,
		buffer:     nil,
		maxBuffer:  maxBuffer,
		subs:       make(map[HandlerID]*subscriber[T]),
		serializer: defaultCodec[T](),
		pool:       pool,
	}
}

func (c *channel[T]) typeTag() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Subscribe registers a typed callback. Its cursor starts at the current
// buffer size, so only messages published after this call are delivered
// (spec.md §4.1).
func (c *channel[T]) Subscribe(callback func(Message[T]), maxQueue int) HandlerID {
	c.nextTypedID++
	id := c.nextTypedID
	c.subs[id] = &subscriber[T]{
		handlerID: id,
		callback:  callback,
		cursor:    len(c.buffer),
		maxQueue:  maxQueue,
		active:    true,
	}
	return id
}

func (c *channel[T]) closeSubscriber(id HandlerID) {
	s, ok := c.subs[id]
	if !ok {
		return
	}
	if s.inFlight != nil {
		s.inFlight.Wait()
	}
	delete(c.subs, id)
}

func (c *channel[T]) pauseSubscriber(id HandlerID) {
	if s, ok := c.subs[id]; ok {
		s.active = false
	}
}

func (c *channel[T]) resumeSubscriber(id HandlerID) {
	if s, ok := c.subs[id]; ok {
		s.active = true
	}
}

func (c *channel[T]) setSerializer(codec Codec[T]) {
	c.serializer = codec
}

func (c *channel[T]) getLatest() (T, bool) {
	var zero T
	if len(c.buffer) == 0 {
		return zero, false
	}
	return c.buffer[len(c.buffer)-1].Data, true
}

func (c *channel[T]) waitInFlight() {
	for _, s := range c.subs {
		if s.inFlight != nil {
			s.inFlight.Wait()
		}
	}
}

// publishSerialized decodes raw with the installed codec and publishes
// the result. A no-op (ErrSerializerNotInstalled) if none is installed —
// the serialized plane silently drops for topics without a codec
// (spec.md §4.5).
func (c *channel[T]) publishSerialized(raw string, sendType SendType, senderID int) error {
	if c.serializer == nil {
		return ErrSerializerNotInstalled
	}
	v, err := c.serializer.Decode(raw)
	if err != nil {
		return err
	}
	c.publish(v, sendType, senderID)
	return nil
}

// publish appends one message, compacts the buffer down to what is
// still owed, enforces max_buffer by dropping the oldest entry if
// needed, and trims each subscriber's own backlog to its max_queue
// (spec.md §4.1). The rebase arithmetic mirrors the source's
// get_new_sndmsg_idx exactly: it runs on every publish, not only when a
// message is actually discarded, because it is also what keeps a
// bounded subscriber's backlog from silently growing past max_queue.
func (c *channel[T]) publish(data T, sendType SendType, senderID int) {
	c.buffer = append(c.buffer, Message[T]{Data: data, SenderID: senderID, SendType: sendType})

	deleted := c.oldestDeliverable
	if deleted > len(c.buffer) {
		deleted = len(c.buffer)
	}
	if deleted > 0 {
		rest := make([]Message[T], len(c.buffer)-deleted)
		copy(rest, c.buffer[deleted:])
		c.buffer = rest
	}
	for _, s := range c.subs {
		window := effectiveWindow(s.maxQueue, len(c.buffer))
		s.cursor = rebaseCursor(s.cursor, deleted, len(c.buffer), window)
	}
	c.oldestDeliverable = 0

	if c.maxBuffer > 0 && len(c.buffer) > c.maxBuffer {
		trimmed := make([]Message[T], len(c.buffer)-1)
		copy(trimmed, c.buffer[1:])
		c.buffer = trimmed
		for _, s := range c.subs {
			if !s.active {
				s.cursor = len(c.buffer)
				continue
			}
			window := effectiveWindow(s.maxQueue, len(c.buffer))
			s.cursor = rebaseCursor(s.cursor, 1, len(c.buffer), window)
		}
		return
	}

	for _, s := range c.subs {
		if !s.active {
			s.cursor = len(c.buffer)
			continue
		}
		if s.maxQueue > 0 && s.cursor+s.maxQueue < len(c.buffer) {
			s.cursor = len(c.buffer) - s.maxQueue
		}
	}
}

// dispatchOnce makes a single pass over every subscriber, submitting at
// most one callback each, and returns whether any callback is currently
// in flight (spec.md §4.1).
func (c *channel[T]) dispatchOnce() bool {
	if len(c.subs) == 0 {
		c.oldestDeliverable = len(c.buffer)
		return false
	}

	progressing := false
	for _, s := range c.subs {
		if !s.active {
			continue
		}
		if s.inFlight != nil && !s.inFlight.Finished() {
			progressing = true
			continue
		}
		if s.cursor < len(c.buffer) {
			msg := c.buffer[s.cursor]
			cb := s.callback
			s.inFlight = c.pool.Submit(func() { cb(msg) })
			s.cursor++
			progressing = true
		}
	}

	stillOwed := false
	for _, s := range c.subs {
		if s.active && s.cursor == c.oldestDeliverable {
			stillOwed = true
			break
		}
	}
	if !stillOwed {
		minCursor := -1
		for _, s := range c.subs {
			if !s.active {
				continue
			}
			if minCursor == -1 || s.cursor < minCursor {
				minCursor = s.cursor
			}
		}
		if minCursor == -1 {
			c.oldestDeliverable = len(c.buffer)
		} else {
			c.oldestDeliverable = minCursor
		}
	}
	return progressing
}

// effectiveWindow treats max_queue = 0 as "as large as the current
// buffer", i.e. unbounded.
func effectiveWindow(maxQueue, bufSize int) int {
	if maxQueue == 0 {
		return bufSize
	}
	return maxQueue
}

// rebaseCursor computes a subscriber's new cursor after deleted entries
// are dropped from the front of the buffer, clamped so the subscriber
// never ends up owing more than window entries (spec.md §4.1's rebase
// rule).
func rebaseCursor(oldCursor, deleted, bufSize, window int) int {
	floor := window
	if bufSize < floor {
		floor = bufSize
	}
	newIdx := bufSize - floor
	if oldCursor > deleted+newIdx {
		newIdx = oldCursor - deleted
	}
	return newIdx
}
