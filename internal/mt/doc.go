// Package mt implements the parallel range scheduler used by every pipeline
// stage.
//
// Work is expressed as a count of items split into contiguous, non-overlapping
// scopes. Each scope runs on its own goroutine but only Workers scopes execute
// at once: worker slots are held by a weighted semaphore.
//
// # Groups and barriers
//
// A Group collects scopes dispatched by StartScopes or StartSubLoops, including
// scopes dispatched from inside a running scope. Wait returns once all of them
// returned, then fires OnComplete exactly once.
//
//	g := sched.NewGroup(ctx, "probe")
//	g.OnComplete = func() { merge() }
//	g.StartSubLoops(n, sched.ChunkSize(), func(s mt.Scope) { ... })
//	if err := g.Wait(); err != nil { ... }
//
// # Cancellation
//
// Cancellation is cooperative. A scope that already acquired a slot always
// runs to completion; scopes still waiting for a slot are dropped once the
// context is done and Wait reports the context error.
package mt
