package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"runtime"
	"sync"
)

// Handler answers a single Request. It never panics: any internal failure
// should be reported via Response{Status: "error"}.
type Handler func(*Request) *Response

// CmdSubscribe is the pseudo-command a long-lived connection sends to
// switch from request/response into receiving every broadcast Event
// instead, until it disconnects.
const CmdSubscribe = "subscribe"

// SendRequest connects to the daemon at socketPath and returns its reply.
func SendRequest(socketPath string, req *Request) (*Response, error) {
	conn, err := dial(socketPath)
	if err != nil {
		return nil, fmt.Errorf("ipc: connect to daemon: %w", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	dec := json.NewDecoder(conn)

	if err := enc.Encode(req); err != nil {
		return nil, fmt.Errorf("ipc: send request: %w", err)
	}

	var resp Response
	if err := dec.Decode(&resp); err != nil {
		return nil, fmt.Errorf("ipc: decode response: %w", err)
	}
	return &resp, nil
}

// Subscribe opens a connection at socketPath, sends the subscribe
// pseudo-request and streams every Event the daemon broadcasts until the
// connection errors or ctx-equivalent caller-side close. Used by
// long-lived watch/stream CLI commands.
func Subscribe(socketPath string, events chan<- Event) error {
	conn, err := dial(socketPath)
	if err != nil {
		return fmt.Errorf("ipc: connect to daemon: %w", err)
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	if err := enc.Encode(&Request{Command: CmdSubscribe}); err != nil {
		return fmt.Errorf("ipc: send subscribe: %w", err)
	}

	dec := json.NewDecoder(conn)
	for {
		var ev Event
		if err := dec.Decode(&ev); err != nil {
			return fmt.Errorf("ipc: decode event: %w", err)
		}
		events <- ev
	}
}

// Server accepts connections at socketPath and dispatches each request to
// handler. A connection that sends CmdSubscribe instead receives every
// Event broadcast via Publish until it disconnects.
type Server struct {
	handler Handler

	mu   sync.Mutex
	subs map[chan Event]struct{}
}

// NewServer returns a Server around handler.
func NewServer(handler Handler) *Server {
	return &Server{handler: handler, subs: make(map[chan Event]struct{})}
}

// Publish broadcasts ev to every currently-subscribed connection. A
// subscriber whose buffer is full misses ev rather than blocking the
// publisher; it stays subscribed.
func (s *Server) Publish(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// ListenAndServe blocks accepting connections until Accept returns an
// error. The listener is not exposed to the caller, so it stays open until
// that happens or the process exits.
func (s *Server) ListenAndServe(socketPath string) error {
	if runtime.GOOS != "windows" {
		os.Remove(socketPath)
	}
	ln, err := listen(socketPath)
	if err != nil {
		return fmt.Errorf("ipc: listen: %w", err)
	}
	defer ln.Close()
	if runtime.GOOS != "windows" {
		defer os.Remove(socketPath)
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("ipc: accept: %w", err)
		}
		go s.serve(conn)
	}
}

func (s *Server) serve(conn net.Conn) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	var req Request
	if err := dec.Decode(&req); err != nil {
		enc.Encode(&Response{Status: "error", Message: "invalid request: " + err.Error()})
		return
	}

	if req.Command == CmdSubscribe {
		s.streamEvents(conn, enc)
		return
	}
	enc.Encode(s.handler(&req))
}

// streamEvents registers conn as a subscriber and pushes every Publish
// call's Event until the connection closes.
func (s *Server) streamEvents(conn net.Conn, enc *json.Encoder) {
	ch := make(chan Event, 16)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}()

	for ev := range ch {
		if err := enc.Encode(ev); err != nil {
			return
		}
	}
}
