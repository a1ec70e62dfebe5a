package protocol

import (
	"encoding/binary"
	"fmt"
	"net"
)

// ErrValueRange reports a device or button value outside 0-255. Values
// are rejected before encoding, never truncated to a byte.
type ErrValueRange struct {
	Field string
	Value int
}

func (e *ErrValueRange) Error() string {
	return fmt.Sprintf("%s value %d out of range (0-255)", e.Field, e.Value)
}

// Checksum returns the low byte of the unsigned sum of all input bytes.
// The accumulation itself is unbounded; only the final result is
// truncated to 8 bits.
func Checksum(b []byte) byte {
	var sum uint32
	for _, v := range b {
		sum += uint32(v)
	}
	return byte(sum)
}

// EncodeDiscovery builds the 17-byte UDP discovery frame advertising the
// controller's callback address and TCP listening port:
//
//	A5 5A 0C C3 E0 DF <hubid:4> <ip:4> <port:2> <chk>
//
// ip must be an IPv4 address; the port is encoded big-endian.
func EncodeDiscovery(hubID [4]byte, ip net.IP, port uint16) ([]byte, error) {
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("discovery frame requires an IPv4 address, got %v", ip)
	}

	frame := make([]byte, 0, DiscoveryFrameSize)
	frame = append(frame, MagicByte0, MagicByte1)
	frame = append(frame, discoveryLength, CmdDiscovery)
	frame = append(frame, discoveryIdentHi, discoveryIdentLo)
	frame = append(frame, hubID[:]...)
	frame = append(frame, ip4...)
	frame = binary.BigEndian.AppendUint16(frame, port)
	frame = append(frame, Checksum(frame))
	return frame, nil
}

// EncodeCommand builds the 7-byte TCP command frame for a button press:
//
//	A5 5A 02 3F <device> <button> <chk>
//
// device and button must each be in 0-255; out-of-range values are a
// caller contract violation and are rejected with *ErrValueRange.
func EncodeCommand(device, button int) ([]byte, error) {
	if device < 0 || device > 0xFF {
		return nil, &ErrValueRange{Field: "device", Value: device}
	}
	if button < 0 || button > 0xFF {
		return nil, &ErrValueRange{Field: "button", Value: button}
	}

	frame := make([]byte, 0, CommandFrameSize)
	frame = append(frame, MagicByte0, MagicByte1)
	frame = append(frame, cmdFrameByte2, cmdFrameByte3)
	frame = append(frame, byte(device), byte(button))
	frame = append(frame, Checksum(frame))
	return frame, nil
}

// AuthRequest returns a fresh copy of the fixed authentication request
// frame A5 5A 00 01 00.
func AuthRequest() []byte {
	frame := make([]byte, len(authRequest))
	copy(frame, authRequest[:])
	return frame
}

// IsValidResponse reports whether an inbound byte sequence is accepted
// as a hub response: at least MinResponseSize bytes beginning with the
// magic header. Nothing beyond the header is validated because the
// response format is not fully reverse-engineered.
func IsValidResponse(b []byte) bool {
	return len(b) >= MinResponseSize &&
		b[0] == MagicByte0 &&
		b[1] == MagicByte1
}
