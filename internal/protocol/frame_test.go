package protocol

import (
	"bytes"
	"errors"
	"net"
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want byte
	}{
		{name: "empty input", data: nil, want: 0x00},
		{name: "single byte", data: []byte{0x42}, want: 0x42},
		{name: "wraps at 256", data: []byte{0xFF, 0x01}, want: 0x00},
		{name: "wraps repeatedly", data: []byte{0xFF, 0xFF, 0xFF, 0xFF}, want: 0xFC},
		{
			name: "captured discovery frame body",
			data: []byte{
				0xA5, 0x5A, 0x0C, 0xC3, 0xE0, 0xDF,
				0x03, 0x86, 0x2A, 0x23,
				0xC0, 0xA8, 0x28, 0x55,
				0x1F, 0x42,
			},
			want: 0xA9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Checksum(tt.data); got != tt.want {
				t.Errorf("Checksum() = 0x%02x, want 0x%02x", got, tt.want)
			}
		})
	}
}

func TestChecksumOrderInvariant(t *testing.T) {
	a := []byte{0x10, 0xFE, 0x33, 0x80, 0x7F}
	b := []byte{0x7F, 0x80, 0x33, 0xFE, 0x10}
	if Checksum(a) != Checksum(b) {
		t.Errorf("checksum not order invariant: 0x%02x vs 0x%02x", Checksum(a), Checksum(b))
	}
}

func TestEncodeDiscovery(t *testing.T) {
	// Golden frame from the original packet capture: hub id 03862a23,
	// local IP 192.168.40.85, listening port 8002 (0x1f42).
	want := []byte{
		0xA5, 0x5A, 0x0C, 0xC3, 0xE0, 0xDF,
		0x03, 0x86, 0x2A, 0x23,
		0xC0, 0xA8, 0x28, 0x55,
		0x1F, 0x42,
		0xA9,
	}

	got, err := EncodeDiscovery(DefaultHubID, net.IPv4(192, 168, 40, 85), 8002)
	if err != nil {
		t.Fatalf("EncodeDiscovery() error = %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("EncodeDiscovery() = % x, want % x", got, want)
	}
}

func TestEncodeDiscoveryPortVariation(t *testing.T) {
	base, err := EncodeDiscovery(DefaultHubID, net.IPv4(192, 168, 40, 85), 8002)
	if err != nil {
		t.Fatalf("EncodeDiscovery() error = %v", err)
	}
	other, err := EncodeDiscovery(DefaultHubID, net.IPv4(192, 168, 40, 85), 9000)
	if err != nil {
		t.Fatalf("EncodeDiscovery() error = %v", err)
	}

	if len(base) != DiscoveryFrameSize || len(other) != DiscoveryFrameSize {
		t.Fatalf("frame sizes = %d, %d, want %d", len(base), len(other), DiscoveryFrameSize)
	}

	// Changing only the port may change only bytes 14-15 and the checksum.
	for i := 0; i < 14; i++ {
		if base[i] != other[i] {
			t.Errorf("byte %d changed with port: 0x%02x vs 0x%02x", i, base[i], other[i])
		}
	}
	if other[14] != 0x23 || other[15] != 0x28 {
		t.Errorf("port bytes = %02x %02x, want 23 28 (9000 big-endian)", other[14], other[15])
	}
	if other[16] != Checksum(other[:16]) {
		t.Errorf("checksum byte = 0x%02x, want 0x%02x", other[16], Checksum(other[:16]))
	}
}

func TestEncodeDiscoveryRejectsNonIPv4(t *testing.T) {
	if _, err := EncodeDiscovery(DefaultHubID, net.ParseIP("fe80::1"), 8002); err == nil {
		t.Error("EncodeDiscovery() accepted an IPv6 address")
	}
}

func TestEncodeCommand(t *testing.T) {
	tests := []struct {
		name    string
		device  int
		button  int
		want    []byte
		wantErr bool
	}{
		{
			name:   "volume up",
			device: 0x02,
			button: 0xB6,
			want:   []byte{0xA5, 0x5A, 0x02, 0x3F, 0x02, 0xB6, 0xF8},
		},
		{
			name:   "volume down",
			device: 0x02,
			button: 0xB9,
			want:   []byte{0xA5, 0x5A, 0x02, 0x3F, 0x02, 0xB9, 0xFB},
		},
		{
			name:   "zero values",
			device: 0x00,
			button: 0x00,
			want:   []byte{0xA5, 0x5A, 0x02, 0x3F, 0x00, 0x00, 0x40},
		},
		{name: "device too large", device: 256, button: 0xB6, wantErr: true},
		{name: "device negative", device: -1, button: 0xB6, wantErr: true},
		{name: "button too large", device: 0x02, button: 300, wantErr: true},
		{name: "button negative", device: 0x02, button: -5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EncodeCommand(tt.device, tt.button)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("EncodeCommand(%d, %d) accepted out-of-range value", tt.device, tt.button)
				}
				var rangeErr *ErrValueRange
				if !errors.As(err, &rangeErr) {
					t.Errorf("error type = %T, want *ErrValueRange", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EncodeCommand() error = %v", err)
			}
			if len(got) != CommandFrameSize {
				t.Errorf("frame size = %d, want %d", len(got), CommandFrameSize)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("EncodeCommand() = % x, want % x", got, tt.want)
			}
			if got[6] != Checksum(got[:6]) {
				t.Errorf("checksum byte = 0x%02x, want 0x%02x", got[6], Checksum(got[:6]))
			}
		})
	}
}

func TestAuthRequest(t *testing.T) {
	want := []byte{0xA5, 0x5A, 0x00, 0x01, 0x00}
	got := AuthRequest()
	if !bytes.Equal(got, want) {
		t.Errorf("AuthRequest() = % x, want % x", got, want)
	}

	// Mutating the returned slice must not affect later calls.
	got[0] = 0x00
	if !bytes.Equal(AuthRequest(), want) {
		t.Error("AuthRequest() returned shared backing storage")
	}
}

func TestIsValidResponse(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want bool
	}{
		{name: "empty", data: nil, want: false},
		{name: "too short with header", data: []byte{0xA5, 0x5A, 0x00, 0x01}, want: false},
		{name: "minimum valid", data: []byte{0xA5, 0x5A, 0x00, 0x00, 0x00}, want: true},
		{name: "longer valid", data: []byte{0xA5, 0x5A, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, want: true},
		{name: "bad first byte", data: []byte{0xA6, 0x5A, 0x00, 0x00, 0x00}, want: false},
		{name: "bad second byte", data: []byte{0xA5, 0x5B, 0x00, 0x00, 0x00}, want: false},
		{name: "swapped header", data: []byte{0x5A, 0xA5, 0x00, 0x00, 0x00}, want: false},
		{name: "long with bad header", data: make([]byte, 64), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidResponse(tt.data); got != tt.want {
				t.Errorf("IsValidResponse(% x) = %v, want %v", tt.data, got, tt.want)
			}
		})
	}
}
