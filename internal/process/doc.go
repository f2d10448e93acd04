// Package process terminates browser process trees left behind after a
// browser connection is closed.
package process
