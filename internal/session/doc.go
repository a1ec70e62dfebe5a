// Package session drives the TCP control session with a SofaBaton hub.
//
// A session owns the TCP listening socket and, once the hub has dialled
// back, the connected peer socket. It moves through an explicit state
// machine:
//
//	Idle -> Listening -> Connected -> Authenticating -> Authenticated -> Closed
//
// Failed is reachable from every non-terminal state. Each method
// validates the current state before touching the network, so a
// SendCommand on an unauthenticated session is rejected without any
// socket I/O.
//
// # Sequence
//
//	s := session.New(cfg, obs)
//	defer s.Stop()
//	s.StartListening()          // bind before discovery, or the hub's
//	s.SendDiscovery()           // callback can race the bind
//	s.WaitForPeer(0)            // accept exactly one peer
//	s.Authenticate(0)           // client-initiated fixed handshake
//	s.SendButton(code)          // Authenticated self-loop
//
// # Failure Semantics
//
// Every network operation carries exactly one bounded deadline and zero
// automatic retries. All failures are terminal for the session: the
// caller must restart the whole sequence (discovery, accept,
// authenticate) to recover. The deliberate exceptions: argument
// validation in SendCommand never touches the session state, the
// optional command response read ignores its timeout because the hub's
// acknowledgement is fire-and-forget, and a ReadRaw timeout is
// non-fatal so a monitor loop can poll a quiet hub.
//
// # Concurrency
//
// A session is single-threaded by design: discovery, accept, auth and
// commands run strictly sequentially and never overlap. Stop is the one
// exception - it is idempotent and safe to call from any state, so a
// signal handler can release both sockets while a blocking call is in
// flight. An operation that loses that race comes back with a state
// error, and the session stays Closed rather than moving to Failed.
package session
