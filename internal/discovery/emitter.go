package discovery

import (
	"fmt"
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/sofactl/internal/logging"
	"github.com/muurk/sofactl/internal/protocol"
)

// DefaultSendTimeout bounds the one-shot datagram send.
const DefaultSendTimeout = 5 * time.Second

// Emitter sends the discovery announcement to a single hub.
type Emitter struct {
	// HubAddr is the hub's IP address.
	HubAddr net.IP

	// Port is the hub's UDP discovery port. Zero means the protocol
	// default (8102); only tests override this.
	Port int

	// Timeout bounds the datagram send. Zero means DefaultSendTimeout.
	Timeout time.Duration
}

func (e *Emitter) port() int {
	if e.Port > 0 {
		return e.Port
	}
	return protocol.DiscoveryPort
}

// NewEmitter creates an emitter for the given hub with default settings.
func NewEmitter(hubAddr net.IP) *Emitter {
	return &Emitter{
		HubAddr: hubAddr,
		Timeout: DefaultSendTimeout,
	}
}

// LocalReachableAddr returns the local IPv4 address the hub can dial
// back to. It "connects" a throwaway UDP socket to the hub's discovery
// port so the kernel picks the outbound interface, then reads the local
// endpoint back; no packet is sent. Falls back to 127.0.0.1 when the
// route cannot be resolved, which keeps offline frame inspection working.
func (e *Emitter) LocalReachableAddr() net.IP {
	loopback := net.IPv4(127, 0, 0, 1)
	if e.HubAddr == nil {
		return loopback
	}

	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{
		IP:   e.HubAddr,
		Port: e.port(),
	})
	if err != nil {
		logging.Warn("No route to hub, falling back to loopback",
			zap.String("hub", e.HubAddr.String()),
			zap.Error(err),
		)
		return loopback
	}
	defer conn.Close()

	local, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || local.IP.To4() == nil {
		return loopback
	}
	return local.IP
}

// Announce builds the discovery frame for the given hub identifier and
// listening port and sends it as a single datagram to hub:8102. The
// encoded frame is returned for logging even when the send fails.
// No retry is attempted; a lost datagram means restarting the session.
func (e *Emitter) Announce(hubID [4]byte, listenPort uint16) ([]byte, error) {
	localIP := e.LocalReachableAddr()

	frame, err := protocol.EncodeDiscovery(hubID, localIP, listenPort)
	if err != nil {
		return nil, fmt.Errorf("failed to build discovery frame: %w", err)
	}

	if e.HubAddr == nil {
		return frame, fmt.Errorf("no hub address configured")
	}

	conn, err := net.DialUDP("udp4", nil, &net.UDPAddr{
		IP:   e.HubAddr,
		Port: e.port(),
	})
	if err != nil {
		return frame, fmt.Errorf("failed to open discovery socket: %w", err)
	}
	defer conn.Close()

	timeout := e.Timeout
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return frame, fmt.Errorf("failed to set send deadline: %w", err)
	}

	if _, err := conn.Write(frame); err != nil {
		return frame, fmt.Errorf("discovery send to %s:%d failed: %w", e.HubAddr, e.port(), err)
	}

	logging.Debug("Discovery announcement sent",
		zap.String("hub", e.HubAddr.String()),
		zap.String("callback_ip", localIP.String()),
		zap.Uint16("callback_port", listenPort),
	)

	return frame, nil
}
