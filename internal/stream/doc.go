// Package stream owns the live detection connection.
//
// A Manager holds at most one physical connection. It reconnects after an
// error or unexpected close with a fixed delay, up to a bounded number of
// attempts, and then gives up for the rest of its lifetime. Decoded records
// and lifecycle changes are delivered in receive order on the Events channel.
//
// Closing a Manager (Close, or cancelling the context passed to Connect) is
// intentional and never triggers a reconnect.
package stream
