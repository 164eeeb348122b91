// Package server binds the ingress middleware chain to the matcher and the
// mock responder / proxy client, and mounts the optional admin API.
package server

import (
	"popshop/middleware"
)

// AdminOptions configures the optional bearer-authenticated admin surface.
type AdminOptions struct {
	Enabled bool
	Path    string // default /__popshop
	Secret  []byte
}

// Options bundles every runtime-configurable knob for StartServer: the
// listen address, the ingress middleware chain, and the admin surface.
type Options struct {
	Host string
	Port int

	ConfigPath string // used by the admin API's manual reload trigger

	Middleware middleware.Config
	Admin      AdminOptions

	RingBufferSize int // default 50
}

const defaultAdminPath = "/__popshop"
const defaultRingBufferSize = 50

// WithDefaults fills in zero-valued fields with their documented defaults.
func (o Options) WithDefaults() Options {
	o.Middleware = o.Middleware.WithDefaults()
	if o.Admin.Path == "" {
		o.Admin.Path = defaultAdminPath
	}
	if o.RingBufferSize <= 0 {
		o.RingBufferSize = defaultRingBufferSize
	}
	if o.Port == 0 {
		o.Port = 8080
	}
	if o.Host == "" {
		o.Host = "127.0.0.1"
	}
	return o
}
