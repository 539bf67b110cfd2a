// Package ingest implements the network-facing producers (C3 UDP
// Receiver, C4 TCP Receiver + Session) that turn wire bytes into ring
// buffer events. Grounded on the event-driven accept/read loop shape of
// the original tcp_server.cpp, adapted to Go's net package and
// goroutine-per-connection model in place of a single-threaded
// io_context.
package ingest

import (
	"context"
	"net"

	"github.com/aryorithm/blackbox/internal/logging"
	"github.com/aryorithm/blackbox/internal/metrics"
	"github.com/aryorithm/blackbox/internal/model"
)

// RateLimiter admits or denies a source address.
type RateLimiter interface {
	ShouldAllow(source string) bool
}

// Sink accepts a raw payload from a given source into the ring buffer.
type Sink interface {
	Push(payload []byte, source string) bool
}

// UDPReceiver binds a UDP socket and pushes one ring event per datagram
// received, with no reassembly.
type UDPReceiver struct {
	conn  *net.UDPConn
	limit RateLimiter
	ring  Sink
	log   *logging.Logger
}

// ListenUDP binds addr (host:port) and returns a receiver ready to Run.
func ListenUDP(addr string, limit RateLimiter, ring Sink, log *logging.Logger) (*UDPReceiver, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}
	log.Info("udp receiver listening", logging.Protocol("udp"))
	return &UDPReceiver{conn: conn, limit: limit, ring: ring, log: log}, nil
}

// Run reads datagrams until ctx is cancelled or the socket is closed.
func (r *UDPReceiver) Run(ctx context.Context) {
	buf := make([]byte, model.PayloadMax)
	go func() {
		<-ctx.Done()
		r.conn.Close()
	}()

	for {
		n, peer, err := r.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.log.Warn("udp read error", logging.Error(err))
			continue
		}

		source := peer.IP.String()
		metrics.PacketsReceivedTotal.WithLabelValues("udp").Inc()

		if !r.limit.ShouldAllow(source) {
			metrics.PacketsDroppedTotal.WithLabelValues("rate_limited").Inc()
			continue
		}

		if !r.ring.Push(buf[:n], source) {
			metrics.PacketsDroppedTotal.WithLabelValues("ring_full").Inc()
		}
	}
}

// Close releases the underlying socket.
func (r *UDPReceiver) Close() error {
	return r.conn.Close()
}
