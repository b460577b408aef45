// Package server holds the process-wide singletons spec.md section 3 calls
// "Server singletons": the listener's client table, the RSA key pair, server
// configuration, connection mode, online-player counters, and the exit
// signal — everything shared by reference across the pipeline's worker
// pool.
package server

import (
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"mcgate/internal/audit"
	"mcgate/internal/config"
	"mcgate/internal/crypto"
	"mcgate/internal/registry"
)

// ConnectionKind distinguishes the login flow a fresh connection should run,
// per spec.md section 3's ConnectionMode.
type ConnectionKind uint8

const (
	ConnectionOffline ConnectionKind = iota
	ConnectionVelocity
)

// ConnectionMode is Offline or Velocity{secret}. The secret is an immutable
// shared byte string, matching spec.md section 9's note that it must never
// be copied per-connection.
type ConnectionMode struct {
	Kind           ConnectionKind
	VelocitySecret []byte
}

// ModeFromConfig derives a ConnectionMode from the loaded YAML config.
func ModeFromConfig(cfg config.ServerConfig) ConnectionMode {
	if cfg.IsVelocity() {
		return ConnectionMode{Kind: ConnectionVelocity, VelocitySecret: []byte(cfg.VelocitySecret)}
	}
	return ConnectionMode{Kind: ConnectionOffline}
}

// Storage holds the live connection/player counters the Status handler
// reports. Both counters are atomic and are not confined to one phase:
// Connections is incremented by the accept loop, OnlinePlayers by the Config
// handler when a client enters Play, and both are decremented when the
// scheduler destroys a client.
type Storage struct {
	Connections   atomic.Int64
	OnlinePlayers atomic.Int64
}

// ExitSignal is an atomic boolean set by the SIGINT/SIGTERM handler and
// polled once per tick by the scheduler.
type ExitSignal struct {
	flag atomic.Bool
}

// Set marks the signal as raised.
func (s *ExitSignal) Set() { s.flag.Store(true) }

// Raised reports whether shutdown has been requested.
func (s *ExitSignal) Raised() bool { return s.flag.Load() }

// KeepAliveSettings configures the keep-alive module's send period.
type KeepAliveSettings struct {
	Period time.Duration
}

// DefaultKeepAliveSettings is spec.md section 3's default of 8 seconds.
func DefaultKeepAliveSettings() KeepAliveSettings {
	return KeepAliveSettings{Period: 8 * time.Second}
}

// Resources bundles every process-wide singleton the pipeline's systems
// read or write, so handler functions take one struct instead of a long
// parameter list (the Go analogue of the ECS world's singleton components).
type Resources struct {
	Listener  net.Listener
	Clients   *ClientTable
	KeyPair   *crypto.KeyPair
	Config    config.ServerConfig
	Favicon   string
	Mode      ConnectionMode
	Storage   *Storage
	KeepAlive KeepAliveSettings
	Exit      *ExitSignal

	Registry registry.Provider
	Audit    audit.Sink
}

// NewResources assembles Resources from a loaded config and a freshly
// generated RSA key pair. The listener is attached separately once bound
// (see cmd/mcgate), since binding can fail and callers need the error
// before committing to the rest of startup. A favicon load failure is
// non-fatal — the status response simply omits it.
func NewResources(cfg config.ServerConfig, keyPair *crypto.KeyPair, reg registry.Provider, auditSink audit.Sink) *Resources {
	period := time.Duration(cfg.KeepAlivePeriodSeconds) * time.Second
	if period <= 0 {
		period = DefaultKeepAliveSettings().Period
	}
	favicon, err := cfg.LoadFavicon()
	if err != nil {
		slog.Warn("loading favicon failed, status response will omit it", "error", err)
	}
	return &Resources{
		Clients:   NewClientTable(),
		KeyPair:   keyPair,
		Config:    cfg,
		Favicon:   favicon,
		Mode:      ModeFromConfig(cfg),
		Storage:   &Storage{},
		KeepAlive: KeepAliveSettings{Period: period},
		Exit:      &ExitSignal{},
		Registry:  reg,
		Audit:     auditSink,
	}
}
