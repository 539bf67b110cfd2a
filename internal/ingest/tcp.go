package ingest

import (
	"bytes"
	"context"
	"io"
	"net"

	"github.com/aryorithm/blackbox/internal/logging"
	"github.com/aryorithm/blackbox/internal/metrics"
)

const (
	// readMax is the size of each session's reusable read buffer.
	readMax = 4096
	// frameMax bounds the sticky buffer; a partial frame larger than this
	// without a newline is discarded rather than grown without limit.
	frameMax = 8192
)

// TCPReceiver accepts connections and runs one session per connection.
type TCPReceiver struct {
	listener net.Listener
	limit    RateLimiter
	ring     Sink
	log      *logging.Logger
}

// ListenTCP binds addr (host:port) and returns a receiver ready to Run.
func ListenTCP(addr string, limit RateLimiter, ring Sink, log *logging.Logger) (*TCPReceiver, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	log.Info("tcp receiver listening", logging.Protocol("tcp"))
	return &TCPReceiver{listener: ln, limit: limit, ring: ring, log: log}, nil
}

// Run accepts connections until ctx is cancelled or the listener closes.
func (r *TCPReceiver) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		r.listener.Close()
	}()

	for {
		conn, err := r.listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.log.Warn("tcp accept error", logging.Error(err))
			continue
		}

		source := peerAddr(conn)
		if !r.limit.ShouldAllow(source) {
			r.log.Warn("tcp connection rejected", logging.Source(source), logging.Reason("rate_limit"))
			conn.Close()
			continue
		}

		sess := newSession(conn, source, r.ring, r.log)
		go sess.run()
	}
}

// Close releases the underlying listener.
func (r *TCPReceiver) Close() error {
	return r.listener.Close()
}

func peerAddr(conn net.Conn) string {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		return conn.RemoteAddr().String()
	}
	return host
}

// session owns one accepted TCP connection's read loop and the sticky
// buffer carrying a partial frame across reads. Its lifetime is the
// lifetime of its run() goroutine; no session table is kept.
type session struct {
	conn   net.Conn
	source string
	ring   Sink
	log    *logging.Logger
	sticky []byte
}

func newSession(conn net.Conn, source string, ring Sink, log *logging.Logger) *session {
	return &session{
		conn:   conn,
		source: source,
		ring:   ring,
		log:    log,
		sticky: make([]byte, 0, 4096),
	}
}

func (s *session) run() {
	defer s.conn.Close()

	buf := make([]byte, readMax)
	for {
		n, err := s.conn.Read(buf)
		if n > 0 {
			metrics.InboundChunksTotal.Inc()
			s.processChunk(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				s.log.Warn("tcp read error", logging.Source(s.source), logging.Error(err))
			}
			return
		}
	}
}

// processChunk applies the newline framing algorithm to one freshly read
// chunk, pushing every complete frame found and carrying any trailing
// partial frame forward in the sticky buffer.
func (s *session) processChunk(chunk []byte) {
	start := 0
	for {
		k := bytes.IndexByte(chunk[start:], '\n')
		if k < 0 {
			s.sticky = append(s.sticky, chunk[start:]...)
			if len(s.sticky) > frameMax {
				s.log.Warn("tcp frame too large without newline, dropping buffer", logging.Source(s.source))
				s.sticky = s.sticky[:0]
			}
			return
		}

		end := start + k
		if len(s.sticky) == 0 {
			s.push(chunk[start:end])
		} else {
			s.sticky = append(s.sticky, chunk[start:end]...)
			s.push(s.sticky)
			s.sticky = s.sticky[:0]
		}

		start = end + 1
		if start >= len(chunk) {
			return
		}
	}
}

func (s *session) push(frame []byte) {
	if !s.ring.Push(frame, s.source) {
		metrics.PacketsDroppedTotal.WithLabelValues("ring_full").Inc()
	}
}
