package config

import (
	"net"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "sofactl") {
		t.Errorf("GetConfigDir() = %v, should contain 'sofactl'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Hubs == nil {
		t.Error("NewRegistry().Hubs should not be nil")
	}
	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}
	if reg.Preferences.AcceptTimeout != 60 {
		t.Errorf("NewRegistry().Preferences.AcceptTimeout = %v, want 60", reg.Preferences.AcceptTimeout)
	}
}

func TestResolveHub(t *testing.T) {
	reg := NewRegistry()
	reg.Hubs["living-room"] = &Hub{Address: "192.168.40.65", HubID: "03862a23"}
	reg.Hubs["broken"] = &Hub{Address: "not-an-ip"}

	tests := []struct {
		name      string
		value     string
		wantIP    string
		wantEntry bool
		wantErr   bool
	}{
		{name: "nickname", value: "living-room", wantIP: "192.168.40.65", wantEntry: true},
		{name: "literal ip", value: "10.0.0.9", wantIP: "10.0.0.9"},
		{name: "nickname with bad address", value: "broken", wantErr: true},
		{name: "garbage", value: "no-such-hub", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip, entry, err := reg.ResolveHub(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ResolveHub(%q) = %v, want error", tt.value, ip)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveHub(%q) error = %v", tt.value, err)
			}
			if !ip.Equal(net.ParseIP(tt.wantIP)) {
				t.Errorf("ResolveHub(%q) ip = %v, want %v", tt.value, ip, tt.wantIP)
			}
			if (entry != nil) != tt.wantEntry {
				t.Errorf("ResolveHub(%q) entry = %v, want entry %v", tt.value, entry, tt.wantEntry)
			}
		})
	}
}

func TestHubIDBytes(t *testing.T) {
	tests := []struct {
		name    string
		hubID   string
		want    [4]byte
		wantOK  bool
		wantErr bool
	}{
		{name: "valid", hubID: "03862a23", want: [4]byte{0x03, 0x86, 0x2A, 0x23}, wantOK: true},
		{name: "empty falls back", hubID: "", wantOK: false},
		{name: "too short", hubID: "0386", wantErr: true},
		{name: "not hex", hubID: "zzzzzzzz", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := &Hub{HubID: tt.hubID}
			got, ok, err := hub.HubIDBytes()
			if tt.wantErr {
				if err == nil {
					t.Errorf("HubIDBytes() ok=%v, want error", ok)
				}
				return
			}
			if err != nil {
				t.Fatalf("HubIDBytes() error = %v", err)
			}
			if ok != tt.wantOK {
				t.Errorf("HubIDBytes() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("HubIDBytes() = % x, want % x", got, tt.want)
			}
		})
	}
}

func TestRegistryYAMLRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reg.Hubs["den"] = &Hub{
		Address:    "192.168.40.65",
		HubID:      "03862a23",
		ListenPort: 8002,
		DeviceID:   2,
	}

	data, err := yaml.Marshal(reg)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}

	var got Registry
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}

	hub := got.Hubs["den"]
	if hub == nil {
		t.Fatal("hub 'den' lost in round trip")
	}
	if hub.Address != "192.168.40.65" || hub.HubID != "03862a23" || hub.ListenPort != 8002 {
		t.Errorf("round-tripped hub = %+v", hub)
	}
}

func TestRecordSession(t *testing.T) {
	reg := NewRegistry()

	reg.RecordSession("den", "192.168.40.65")
	hub := reg.Hubs["den"]
	if hub == nil {
		t.Fatal("RecordSession() did not create the hub entry")
	}
	if hub.Address != "192.168.40.65" {
		t.Errorf("hub.Address = %q, want 192.168.40.65", hub.Address)
	}
	if hub.LastSeen.IsZero() {
		t.Error("hub.LastSeen not set")
	}

	// Updating must preserve the other fields.
	hub.HubID = "03862a23"
	reg.RecordSession("den", "192.168.40.70")
	if reg.Hubs["den"].HubID != "03862a23" {
		t.Error("RecordSession() clobbered the hub id")
	}
	if reg.Hubs["den"].Address != "192.168.40.70" {
		t.Errorf("hub.Address = %q, want updated address", reg.Hubs["den"].Address)
	}
}
