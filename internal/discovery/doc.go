// Package discovery emits the UDP dial-back announcement for SofaBaton hubs.
//
// SofaBaton hubs do not advertise themselves; instead the controller
// sends a single UDP discovery frame to the hub's well-known port 8102.
// The frame carries the controller's IPv4 address and TCP listening
// port, and the hub responds by opening a TCP connection back to that
// endpoint.
//
// # Announcement Process
//
//  1. Determine the local address the hub can reach (routing table probe)
//  2. Build the 17-byte discovery frame via the protocol package
//  3. Send it as a one-shot datagram with a short write deadline
//
// There is no retry: if the datagram is lost the caller restarts the
// whole session sequence. The TCP listener must already be bound before
// the announcement is sent, or the hub's callback can race the bind.
//
// # Local Address Selection
//
// LocalReachableAddr opens a transient "connected" UDP socket towards
// the hub purely so the OS routing table selects the outbound interface;
// nothing is transmitted on it. When no route exists the loopback
// address is returned instead of an error, so the frame bytes can still
// be built and inspected offline.
package discovery
