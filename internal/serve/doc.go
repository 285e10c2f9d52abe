// Package serve exposes the animation to remote viewers: a websocket stream
// with one text message per frame, and an SSH server running the live view
// per session.
package serve
