// Package connerr holds the single sentinel error that marks "tear this
// connection down", shared by the handler and keepalive packages so neither
// has to import the other just to raise it.
package connerr

import "errors"

// ErrDisconnect marks an error as an intentional connection teardown rather
// than an unexpected failure; errors.Is(err, ErrDisconnect) tells the
// pipeline whether to log at Info or Warn.
var ErrDisconnect = errors.New("disconnect")
