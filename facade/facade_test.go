package facade

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alreschas/pubsub-go/pubsub"
)

func newTestBroker(t *testing.T) *pubsub.Broker {
	t.Helper()
	b := pubsub.New(pubsub.Options{PollInterval: 5 * time.Millisecond})
	b.Run()
	t.Cleanup(b.Stop)
	return b
}

func TestPublisherPublishAndLocal(t *testing.T) {
	b := newTestBroker(t)
	received := make(chan pubsub.Message[string], 2)
	_, err := pubsub.Subscribe(b, "greetings", func(m pubsub.Message[string]) { received <- m }, 0)
	require.NoError(t, err)

	pub := NewPublisher[string](b, "greetings").WithSender(5)
	require.NoError(t, pub.Publish("hi"))
	require.NoError(t, pub.PublishLocal("local-only"))

	for i := 0; i < 2; i++ {
		select {
		case m := <-received:
			assert.Equal(t, 5, m.SenderID)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for delivery")
		}
	}
}

func TestSubscriberCloseIsIdempotentAndNilSafe(t *testing.T) {
	b := newTestBroker(t)
	sub, err := Subscribe[int](b, "nums", func(pubsub.Message[int]) {}, 0)
	require.NoError(t, err)

	sub.Close()
	sub.Close()

	var nilSub *Subscriber
	nilSub.Close()
	nilSub.Pause()
	nilSub.Resume()
}

func TestSubscriberPauseResume(t *testing.T) {
	b := newTestBroker(t)
	var got []int
	sub, err := Subscribe[int](b, "nums", func(m pubsub.Message[int]) { got = append(got, m.Data) }, 0)
	require.NoError(t, err)

	sub.Pause()
	require.NoError(t, pubsub.Publish(b, "nums", 1, pubsub.Global, pubsub.AnonymousSender))
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, got)

	sub.Resume()
	require.NoError(t, pubsub.Publish(b, "nums", 2, pubsub.Global, pubsub.AnonymousSender))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, []int{2}, got)
}

func TestSerializedSubscriberCloseIsIdempotent(t *testing.T) {
	b := newTestBroker(t)
	sub := SubscribeSerialized(b, func(topic, payload string) {}, pubsub.AnonymousSender, 0)
	sub.Close()
	sub.Close()

	var nilSub *SerializedSubscriber
	nilSub.Close()
}

func TestSingletonRejectsImplicitInit(t *testing.T) {
	assert.Nil(t, Instance())

	b := Init(pubsub.Options{})
	assert.Same(t, b, Instance())

	Shutdown()
	assert.Nil(t, Instance())
}

func TestInitStopsPreviousInstance(t *testing.T) {
	first := Init(pubsub.Options{})
	second := Init(pubsub.Options{})
	defer Shutdown()

	assert.NotSame(t, first, second)
	assert.Same(t, second, Instance())
}
