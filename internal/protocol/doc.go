// Package protocol implements the SofaBaton hub binary protocol.
//
// This package handles construction and validation of the binary frames
// exchanged with a SofaBaton remote-control hub. The protocol was
// reverse-engineered from packet captures of the official phone app and
// from the decompiled APK; it runs in clear binary over UDP (discovery)
// and TCP (control session).
//
// # Frame Format
//
// Every frame starts with the fixed two-byte magic header 0xA5 0x5A and
// ends with a checksum byte, which is the low byte of the unsigned sum of
// all preceding frame bytes:
//
//	Discovery (client->hub, UDP 8102, 17 bytes):
//	    A5 5A 0C C3 E0 DF <hubid:4> <ip:4> <port:2> <chk>
//	Auth request (client->hub, TCP, 5 bytes, fixed):
//	    A5 5A 00 01 00
//	Auth response (hub->client, TCP):
//	    >= 5 bytes beginning with A5 5A; remainder unknown
//	Command (client->hub, TCP, 7 bytes):
//	    A5 5A 02 3F <device:1> <button:1> <chk>
//
// Multi-byte fields are big-endian. The discovery frame advertises the
// controller's callback IPv4 address and TCP listening port; the hub
// dials back to that endpoint to open the control session.
//
// # Inbound Validation
//
// Responses from the hub are validated only for minimum length and the
// magic header. The response payload format has not been fully
// reverse-engineered, so no checksum or structural validation is applied
// beyond the header. Do not tighten this without new capture evidence.
//
// # Command Catalog
//
// Button presses are one-byte codes addressed to a one-byte device
// identifier. LookupButton resolves the symbolic names used by the CLI
// and the interactive remote; unrecognised names may also be given as
// literal hex byte values.
//
// # Thread Safety
//
// All functions are stateless and safe for concurrent use.
package protocol
