package config

import (
	"encoding/hex"
	"fmt"
	"net"
	"time"
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version     int             `yaml:"version"`
	Hubs        map[string]*Hub `yaml:"hubs,omitempty"` // Keyed by user-chosen nickname
	Preferences *Preferences    `yaml:"preferences,omitempty"`
}

// Hub represents user-defined metadata for a single hub, keyed by its
// nickname in the Registry.
type Hub struct {
	Address    string    `yaml:"address"`               // Hub IP address
	HubID      string    `yaml:"hub_id,omitempty"`      // 4-byte identifier as 8 hex digits
	ListenPort int       `yaml:"listen_port,omitempty"` // Preferred TCP callback port
	DeviceID   int       `yaml:"device_id,omitempty"`   // Default device identifier
	LastSeen   time.Time `yaml:"last_seen,omitempty"`   // Last successful session
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	AcceptTimeout int  `yaml:"accept_timeout"` // Hub dial-back wait in seconds
	LogFrames     bool `yaml:"log_frames"`     // Log every frame at info level
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Hubs:    make(map[string]*Hub),
		Preferences: &Preferences{
			AcceptTimeout: 60,
		},
	}
}

// ResolveHub resolves a --hub flag value: a registry nickname wins over
// a literal IP address. Returns the address, the registry entry when
// one matched, or an error when the value is neither.
func (r *Registry) ResolveHub(value string) (net.IP, *Hub, error) {
	if hub, ok := r.Hubs[value]; ok {
		ip := net.ParseIP(hub.Address)
		if ip == nil {
			return nil, nil, fmt.Errorf("hub %q has invalid address %q in the config file", value, hub.Address)
		}
		return ip, hub, nil
	}

	if ip := net.ParseIP(value); ip != nil {
		return ip, nil, nil
	}

	return nil, nil, fmt.Errorf("%q is neither a configured hub nickname nor an IP address", value)
}

// HubIDBytes decodes the hub's 8-hex-digit identifier. An empty value
// returns ok=false so the caller can fall back to the protocol default.
func (h *Hub) HubIDBytes() ([4]byte, bool, error) {
	var id [4]byte
	if h.HubID == "" {
		return id, false, nil
	}
	raw, err := hex.DecodeString(h.HubID)
	if err != nil || len(raw) != 4 {
		return id, false, fmt.Errorf("hub_id %q must be exactly 8 hex digits", h.HubID)
	}
	copy(id[:], raw)
	return id, true, nil
}

// RecordSession updates the metadata after a successful session.
func (r *Registry) RecordSession(nickname, address string) {
	if r.Hubs == nil {
		r.Hubs = make(map[string]*Hub)
	}
	hub, ok := r.Hubs[nickname]
	if !ok {
		hub = &Hub{}
		r.Hubs[nickname] = hub
	}
	hub.Address = address
	hub.LastSeen = time.Now()
}
