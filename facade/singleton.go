package facade

import (
	"sync"

	"github.com/alreschas/pubsub-go/pubsub"
)

// mu and instance hold the optional process-wide broker. spec.md §9
// deliberately rejects the source's lazy getInstance(): callers must
// Init before Instance returns anything, and tests should construct
// their own locally-owned pubsub.Broker (pubsub.New) instead of reaching
// for this package at all.
var (
	mu       sync.Mutex
	instance *pubsub.Broker
)

// Init starts the process-wide broker with opts and returns it. Calling
// Init again without an intervening Shutdown stops the running instance
// first.
func Init(opts pubsub.Options) *pubsub.Broker {
	mu.Lock()
	defer mu.Unlock()
	if instance != nil {
		instance.Stop()
	}
	instance = pubsub.New(opts)
	instance.Run()
	return instance
}

// Instance returns the process-wide broker, or nil if Init has not been
// called yet.
func Instance() *pubsub.Broker {
	mu.Lock()
	defer mu.Unlock()
	return instance
}

// Shutdown stops and clears the process-wide broker. Safe to call when
// none is running.
func Shutdown() {
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		return
	}
	instance.Stop()
	instance = nil
}
