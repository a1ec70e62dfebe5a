package discovery

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/muurk/sofactl/internal/protocol"
)

func TestLocalReachableAddrFallback(t *testing.T) {
	tests := []struct {
		name string
		hub  net.IP
	}{
		{name: "nil hub address", hub: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEmitter(tt.hub)
			got := e.LocalReachableAddr()
			if !got.Equal(net.IPv4(127, 0, 0, 1)) {
				t.Errorf("LocalReachableAddr() = %v, want 127.0.0.1", got)
			}
		})
	}
}

func TestLocalReachableAddrIsIPv4(t *testing.T) {
	e := NewEmitter(net.IPv4(192, 0, 2, 1))
	got := e.LocalReachableAddr()
	if got.To4() == nil {
		t.Errorf("LocalReachableAddr() = %v, not an IPv4 address", got)
	}
}

func TestAnnounceDeliversDatagram(t *testing.T) {
	// Loopback UDP listener standing in for the hub's discovery port.
	listener, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to open loopback listener: %v", err)
	}
	defer listener.Close()

	port := listener.LocalAddr().(*net.UDPAddr).Port

	e := &Emitter{
		HubAddr: net.IPv4(127, 0, 0, 1),
		Port:    port,
		Timeout: time.Second,
	}

	sent, err := e.Announce(protocol.DefaultHubID, 8002)
	if err != nil {
		t.Fatalf("Announce() error = %v", err)
	}
	if len(sent) != protocol.DiscoveryFrameSize {
		t.Errorf("Announce() frame size = %d, want %d", len(sent), protocol.DiscoveryFrameSize)
	}

	if err := listener.SetReadDeadline(time.Now().Add(2 * time.Second)); err != nil {
		t.Fatalf("failed to set read deadline: %v", err)
	}

	buf := make([]byte, 64)
	n, _, err := listener.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("datagram not received: %v", err)
	}

	if !bytes.Equal(buf[:n], sent) {
		t.Errorf("received % x, want % x", buf[:n], sent)
	}
	if buf[0] != 0xA5 || buf[1] != 0x5A {
		t.Errorf("datagram header = %02x %02x, want a5 5a", buf[0], buf[1])
	}
}

func TestAnnounceWithoutHubAddr(t *testing.T) {
	e := NewEmitter(nil)

	frame, err := e.Announce(protocol.DefaultHubID, 8002)
	if err == nil {
		t.Fatal("Announce() with no hub address should fail")
	}

	// The frame is still returned for inspection.
	if len(frame) != protocol.DiscoveryFrameSize {
		t.Errorf("frame size = %d, want %d", len(frame), protocol.DiscoveryFrameSize)
	}
}
