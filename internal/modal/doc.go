// Package modal orchestrates the selection → analysis → display lifecycle.
//
// A single outstanding-request token is the only concurrency-correctness
// mechanism: superseding a request (retry, pause, or a new analysis)
// replaces the token, and any response whose id no longer matches is
// silently discarded. Malformed results consume a bounded retry budget
// before converting to a terminal error. All presentation state flows
// through the observable store; the controller never reads UI state back.
package modal
