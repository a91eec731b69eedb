// Package events fans terminal notifications out to stream subscribers.
//
// Hub implements terminal.Sink. Each notification is encoded once and
// queued to every subscriber in order; a subscriber that lets its queue
// fill up is disconnected.
package events
