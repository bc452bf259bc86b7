// Package timers provides owned, cancelable debounce handles.
//
// Every debounce in the core (content-change notification, restoration
// retry, translation fill passes) is a field on its owning context and is
// cleared on teardown, rather than an ambient timer id floating free.
package timers
