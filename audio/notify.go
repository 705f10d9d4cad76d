// Output route change notifications
//
// Sinks publish an event whenever an output device is opened, closed
// or reconfigured. Interested parties register a channel in the
// manner of os/signal; the engine only ever logs these events, no
// corrective action is taken on a route change.

package audio

import (
	"sync"
	"time"
)

const (
	RouteOpened       = "opened"
	RouteClosed       = "closed"
	RouteReconfigured = "reconfigured"
)

// A route change event from an output backend
type RouteEvent struct {
	Backend string
	Change  string
	Created time.Time
}

var (
	routeLock  = &sync.Mutex{}
	routeChans = map[chan<- RouteEvent]bool{}
)

// Register a channel to receive route change events. Delivery is
// best effort, events are dropped if the channel is not ready.
func Notify(c chan<- RouteEvent) {
	routeLock.Lock()
	defer routeLock.Unlock()
	routeChans[c] = true
}

// Remove a channel from route change notifications
func Unnotify(c chan<- RouteEvent) {
	routeLock.Lock()
	defer routeLock.Unlock()
	delete(routeChans, c)
}

// Publish a route change to all registered channels
func routeChanged(backend, change string) {
	routeLock.Lock()
	defer routeLock.Unlock()
	event := RouteEvent{
		Backend: backend,
		Change:  change,
		Created: time.Now().UTC(),
	}
	for c := range routeChans {
		select {
		case c <- event:
		default:
		}
	}
}
