// Package emitter provides independent, typed publish/subscribe endpoints
// on top of the process-wide queue in package queue.
//
// Each Emitter has its own handlers. A handler is registered for a pair of
// types, an event kind and a payload type, and only a Trigger with the same
// pair reaches it:
//
//	type Greeted struct{}
//
//	e := emitter.New()
//	emitter.On[Greeted](e, func(name string) {
//	    fmt.Println("hello,", name)
//	})
//	emitter.Trigger[Greeted](e, "ada")
//	queue.Drain() // hello, ada
//
// Triggering only enqueues. Handlers run on whichever goroutine drains the
// default queue, one at a time, in the order events were triggered.
//
// An emitter stays registered for as long as the value New returned, or a
// copy of it, is reachable. Once it is closed or collected, triggers aimed
// at it are dropped. Payloads that are dropped, for this or any other reason,
// are passed to queue.Release.
package emitter
