package pubsub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPoolSubmitRunsCallback(t *testing.T) {
	p := NewWorkerPool(0)
	done := make(chan struct{})
	h := p.Submit(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never ran")
	}
	h.Wait()
	assert.True(t, h.Finished())
}

func TestWorkerPoolHandleSurvivesPanic(t *testing.T) {
	p := NewWorkerPool(0)
	h := p.Submit(func() { panic("boom") })
	h.Wait()
	assert.True(t, h.Finished())

	fh, ok := h.(*futureHandle)
	if assert.True(t, ok) {
		assert.NotNil(t, fh.Recovered())
	}
}

func TestWorkerPoolBoundedConcurrencyStillCompletesAll(t *testing.T) {
	p := NewWorkerPool(2)
	const n = 5
	results := make(chan int, n)
	handles := make([]Handle, 0, n)
	for i := 0; i < n; i++ {
		i := i
		handles = append(handles, p.Submit(func() { results <- i }))
	}
	for _, h := range handles {
		h.Wait()
	}
	close(results)
	count := 0
	for range results {
		count++
	}
	assert.Equal(t, n, count)
}
