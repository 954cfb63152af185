/*
Package executor sends JSON requests to the todo server and tracks the ones in flight.

# Overview

Execute performs a single request and returns a types.RequestResult. Transport
errors never surface as Go errors; they are reported in RequestResult.Error with
a zero status.

Tracker wraps Execute with a pending set:
  - Send registers a handle and returns the network call without running it
  - Finish removes the handle exactly once and resolves the result
  - HasPending, PendingCount and Pending expose the set read-only

Splitting Send from Finish lets the TUI run the call inside a tea.Cmd while the
continuation still runs on the Update goroutine.

# Resolution

A 200 response is decoded as JSON. Empty, invalid and null bodies produce the
notification "Could not parse JSON: <body>" and the continuation is skipped.
Every other status notifies the raw body, or "An error occurred." when the body
is empty.

# Example Usage

	tracker := executor.NewTracker("http://127.0.0.1:8077", executor.NotifierFunc(func(msg string) {
		fmt.Fprintln(os.Stderr, msg)
	}))

	err := tracker.Do(ctx, "/todos", types.TodoUpdate{Hash: h, Completed: true}, func(resp executor.Response) {
		fmt.Println(resp.String("hash"))
	})

# Thread Safety

Tracker methods are safe to call concurrently.
*/
package executor
