// Package notify publishes domain events to the notification queue.
//
// The queue is a Redis Stream: the API process appends events with XADD and
// the worker process consumes them under a consumer group, so delivery is
// durable and at-least-once. Publishing is fire-and-forget from the caller's
// perspective: a broker outage degrades to a logged warning and never fails
// the state change that triggered the event.
package notify
