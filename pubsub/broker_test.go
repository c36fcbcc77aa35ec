package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokerRunIsIdempotent(t *testing.T) {
	b := New(Options{})
	b.Run()
	b.Run()
	b.Stop()
}

func TestBrokerStopIsIdempotent(t *testing.T) {
	b := New(Options{})
	b.Stop()
	b.Stop()
}

func TestBrokerPublishSubscribeEndToEnd(t *testing.T) {
	b := New(Options{PollInterval: 5 * time.Millisecond})
	b.Run()
	defer b.Stop()

	received := make(chan int, 1)
	_, err := Subscribe[int](b, "nums", func(m Message[int]) { received <- m.Data }, 0)
	require.NoError(t, err)

	require.NoError(t, Publish(b, "nums", 42, Global, AnonymousSender))

	select {
	case v := <-received:
		assert.Equal(t, 42, v)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delivery")
	}
}

func TestBrokerStopWaitsForInFlightCallback(t *testing.T) {
	b := New(Options{PollInterval: 5 * time.Millisecond})
	b.Run()

	started := make(chan struct{})
	finished := make(chan struct{})
	_, err := Subscribe[int](b, "slow", func(m Message[int]) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		close(finished)
	}, 0)
	require.NoError(t, err)
	require.NoError(t, Publish(b, "slow", 1, Global, AnonymousSender))

	<-started
	b.Stop()
	select {
	case <-finished:
	default:
		t.Fatal("Stop returned before the in-flight callback finished")
	}
}

func TestSubscribeTypeMismatchReturnsInvalidHandlerID(t *testing.T) {
	b := New(Options{})
	b.Run()
	defer b.Stop()

	_, err := Subscribe[int](b, "typed", func(Message[int]) {}, 0)
	require.NoError(t, err)

	id, err := Subscribe[string](b, "typed", func(Message[string]) {}, 0)
	assert.ErrorIs(t, err, ErrTopicTypeMismatch)
	assert.Equal(t, InvalidHandlerID, id)
}

func TestGetLatestNeverCreatesTopic(t *testing.T) {
	b := New(Options{})
	_, ok := GetLatest[int](b, "never-touched")
	assert.False(t, ok)
	assert.NotContains(t, b.reg.channels, "never-touched")
}

func TestSetSerializerTakesEffectImmediately(t *testing.T) {
	b := New(Options{PollInterval: 5 * time.Millisecond})
	b.Run()
	defer b.Stop()

	payloads := make(chan string, 1)
	b.SubscribeSerialized(func(topic, payload string) { payloads <- payload }, AnonymousSender, 0)

	type point struct{ X int }
	require.NoError(t, Publish(b, "pt", point{X: 1}, Global, AnonymousSender))

	err := SetSerializer[point](b, "pt", CodecFunc[point]{
		EncodeFunc: func(p point) (string, error) { return "custom", nil },
		DecodeFunc: func(s string) (point, error) { return point{}, nil },
	})
	require.NoError(t, err)
	require.NoError(t, Publish(b, "pt", point{X: 2}, Global, AnonymousSender))

	select {
	case p := <-payloads:
		assert.Equal(t, "custom", p)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for bridge delivery")
	}
}
