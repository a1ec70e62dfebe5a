package protocol

// Frame layout constants, verified against packet captures of the
// official app (see doc.go for the full frame format).
const (
	// MagicByte0 and MagicByte1 form the fixed header of every frame.
	MagicByte0 = 0xA5
	MagicByte1 = 0x5A

	// CmdDiscovery is the command byte of the UDP discovery frame.
	CmdDiscovery = 0xC3

	// discoveryLength is the fixed length byte of the discovery frame:
	// the byte count from the command byte through the end of the
	// IP+port payload, exclusive of the checksum.
	discoveryLength = 0x0C

	// discoveryIdent is the fixed 16-bit identifier that follows the
	// command byte in the discovery frame.
	discoveryIdentHi = 0xE0
	discoveryIdentLo = 0xDF

	// cmdFrameByte2 and cmdFrameByte3 are the fixed prefix of command
	// frames, immediately after the magic header.
	cmdFrameByte2 = 0x02
	cmdFrameByte3 = 0x3F

	// DiscoveryFrameSize is the total size of an encoded discovery frame.
	DiscoveryFrameSize = 17

	// CommandFrameSize is the total size of an encoded command frame.
	CommandFrameSize = 7

	// MinResponseSize is the minimum length of a hub response frame.
	MinResponseSize = 5
)

// Network defaults.
const (
	// DiscoveryPort is the hub's well-known UDP discovery port.
	DiscoveryPort = 8102

	// DefaultListenPort is the default TCP port the controller listens
	// on for the hub's dial-back connection.
	DefaultListenPort = 8002

	// DefaultDeviceID is the device identifier commands are addressed
	// to unless the caller overrides it.
	DefaultDeviceID = 0x02
)

// DefaultHubID is the 4-byte hub identifier observed in captures. The
// captures are ambiguous about whether this value identifies the phone
// or the hub, so it is treated as an opaque configurable value.
var DefaultHubID = [4]byte{0x03, 0x86, 0x2A, 0x23}

// authRequest is the fixed 5-byte frame the client sends to initiate
// the authentication exchange.
var authRequest = [5]byte{MagicByte0, MagicByte1, 0x00, 0x01, 0x00}
