// Package notify delivers lifecycle events to independent subscribers.
//
// The Dispatcher is the NotificationSink handed to the coordinator. Publish only enqueues; a single
// Run loop drains the queue in publication order and fans each event out to all subscribers, each
// delivery retried with exponential backoff. A failing subscriber never affects the others or the
// operation that produced the event.
package notify
