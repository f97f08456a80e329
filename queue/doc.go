// Package queue implements a process-wide event queue. Events are published
// by type and held until somebody drains the queue, at which point each one
// is handed to the single handler registered for it.
//
// # Register handlers
//
// queue uses Go's own type system to route events. An event is identified by
// a pair of types: a kind, usually an empty struct that names what happened,
// and the type of the payload it carries:
//
//	type UserCreated struct{}
//
//	queue.Register[UserCreated](func(u User) {
//	    fmt.Println("neat! got a user!")
//	})
//
// # Publish and drain
//
// Publishing only enqueues. Nothing runs until the queue is drained, and the
// drain runs handlers on the goroutine that called it:
//
//	queue.Publish[UserCreated](User{Name: "ada"})
//	queue.Drain() // neat! got a user!
//
// Events published from inside a handler are delivered by the same Drain
// call, so a drain always leaves the queue empty.
//
// # Ownership
//
// A handler owns the payload it receives. When an event has no handler the
// queue disposes of the payload with Release, which calls Release on payloads
// that implement Releaser.
package queue
