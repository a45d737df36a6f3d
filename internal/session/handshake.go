// Package session implements the bounded handshake queue that sits between
// the listener and the worker pool.
package session

// Handshake is a client's two channel paths, parsed at the rendezvous
// boundary before it ever reaches the queue — a typed value so invalid
// handshakes never enter the queue.
type Handshake struct {
	ReqPath  string
	RespPath string
}
