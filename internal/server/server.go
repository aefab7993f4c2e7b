// Package server implements the TCP front end: a listener that submits
// every accepted connection to a worker pool, where it's served as a loop
// of decode-request / dispatch-to-engine / encode-response until the peer
// disconnects or sends something the codec can't parse.
package server

import (
	"bufio"
	"errors"
	"io"
	"net"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kvignite/ignite/internal/codec"
	"github.com/kvignite/ignite/internal/engine"
	"github.com/kvignite/ignite/internal/pool"
	"github.com/kvignite/ignite/internal/protocol"
)

// Server listens on one TCP address and dispatches every connection's
// requests to a shared engine handle.
type Server struct {
	addr   string
	engine engine.Contract
	pool   pool.Pool
	log    *zap.SugaredLogger

	listener net.Listener
}

// New builds a Server. eng is the cheaply-shareable engine handle every
// connection's requests are served against; p is the pool connections are
// submitted to (typically an *internal/pool.FixedPool).
func New(addr string, eng engine.Contract, p pool.Pool, log *zap.SugaredLogger) *Server {
	return &Server{addr: addr, engine: eng, pool: p, log: log}
}

// ListenAndServe binds addr and accepts connections until Close is called
// or Accept fails for another reason. Each accepted connection is submitted
// to the pool and served independently; ListenAndServe itself never blocks
// on a connection's lifetime.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.log.Infow("listening", "addr", s.addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		s.pool.Submit(func() { s.serve(conn) })
	}
}

// Close stops accepting new connections. Connections already in flight run
// to completion.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

// serve runs one connection's Reading -> Dispatching -> Writing loop until
// the peer closes the connection or sends a request the codec can't
// decode. There's no explicit state enum: the loop body's own read/dispatch/
// write sequence is the state machine.
func (s *Server) serve(conn net.Conn) {
	defer conn.Close()

	connID := uuid.NewString()
	log := s.log.With("connId", connID, "remote", conn.RemoteAddr().String())
	log.Infow("connection opened")

	writer := bufio.NewWriter(conn)
	dec := codec.NewDecoder(bufio.NewReader(conn))

	for {
		var req protocol.Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				log.Infow("connection closed by peer")
				return
			}
			log.Errorw("malformed request, closing connection", "error", err)
			return
		}

		log.Infow("request received", "op", req.Op, "key", req.Key)
		resp := s.dispatch(req)

		if _, err := codec.Encode(writer, resp); err != nil {
			log.Errorw("failed to encode response, closing connection", "error", err)
			return
		}
		if err := writer.Flush(); err != nil {
			log.Errorw("failed to flush response, closing connection", "error", err)
			return
		}
	}
}

// dispatch runs one request against the engine and shapes its outcome into
// the matching Response variant. Engine failures (other than Get's
// successful "absent" case) become Response.*.Err, not a closed connection
// -- only transport-level failures end the connection, per the propagation
// policy.
func (s *Server) dispatch(req protocol.Request) protocol.Response {
	switch req.Op {
	case protocol.OpSet:
		err := s.engine.Set(req.Key, req.Value)
		return protocol.NewSetResponse(resultOf(err))

	case protocol.OpGet:
		value, found, err := s.engine.Get(req.Key)
		if err != nil {
			return protocol.NewGetResponse(protocol.ErrResult(err.Error()))
		}
		return protocol.NewGetResponse(protocol.OkValue(value, found))

	case protocol.OpRemove:
		err := s.engine.Remove(req.Key)
		return protocol.NewRemoveResponse(resultOf(err))

	default:
		return protocol.Response{Op: req.Op, Result: protocol.ErrResult("unknown operation")}
	}
}

func resultOf(err error) protocol.Result {
	if err != nil {
		return protocol.ErrResult(err.Error())
	}
	return protocol.OkUnit()
}
