// Package client implements the persistent-connection client: one TCP
// connection pairing a buffered writer with a streaming decoder, matching
// original_source/src/client.rs's KvsClient field-for-field (BufWriter +
// StreamDeserializer over a BufReader).
package client

import (
	"bufio"
	"errors"
	"io"
	"net"

	"github.com/kvignite/ignite/internal/codec"
	"github.com/kvignite/ignite/internal/protocol"
	"github.com/kvignite/ignite/pkg/kverrors"
)

// Client holds one connection to a server and the buffered writer/decoder
// pair built over it. Not safe for concurrent use by multiple goroutines --
// callers wanting concurrent requests open one Client per goroutine, same
// as the server handles one connection per pool job.
type Client struct {
	conn   net.Conn
	writer *bufio.Writer
	dec    *codec.Decoder
}

// Connect dials addr and returns a Client ready to issue requests.
func Connect(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, kverrors.NewIo(err, "failed to connect to server").WithPath(addr)
	}
	return &Client{
		conn:   conn,
		writer: bufio.NewWriter(conn),
		dec:    codec.NewDecoder(bufio.NewReader(conn)),
	}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Set sets key to value.
func (c *Client) Set(key, value string) error {
	resp, err := c.roundTrip(protocol.NewSetRequest(key, value))
	if err != nil {
		return err
	}
	if resp.Op != protocol.OpSet {
		return kverrors.NewUnexpected("client received an unexpected response").WithKey(key)
	}
	if !resp.Result.IsOk() {
		return kverrors.NewString(resp.Result.Error())
	}
	return nil
}

// Get returns key's value and whether it was present.
func (c *Client) Get(key string) (string, bool, error) {
	resp, err := c.roundTrip(protocol.NewGetRequest(key))
	if err != nil {
		return "", false, err
	}
	if resp.Op != protocol.OpGet {
		return "", false, kverrors.NewUnexpected("client received an unexpected response").WithKey(key)
	}
	if !resp.Result.IsOk() {
		return "", false, kverrors.NewString(resp.Result.Error())
	}
	if !resp.Result.Found {
		return "", false, nil
	}
	return *resp.Result.Value, true, nil
}

// Remove removes key, returning the server's KeyNotFound (as a StringError)
// if it was absent.
func (c *Client) Remove(key string) error {
	resp, err := c.roundTrip(protocol.NewRemoveRequest(key))
	if err != nil {
		return err
	}
	if resp.Op != protocol.OpRemove {
		return kverrors.NewUnexpected("client received an unexpected response").WithKey(key)
	}
	if !resp.Result.IsOk() {
		return kverrors.NewString(resp.Result.Error())
	}
	return nil
}

// roundTrip writes req, flushes, and decodes exactly one Response.
func (c *Client) roundTrip(req protocol.Request) (protocol.Response, error) {
	if _, err := codec.Encode(c.writer, req); err != nil {
		return protocol.Response{}, kverrors.NewIo(err, "failed to write request")
	}
	if err := c.writer.Flush(); err != nil {
		return protocol.Response{}, kverrors.NewIo(err, "failed to flush request")
	}

	var resp protocol.Response
	if err := c.dec.Decode(&resp); err != nil {
		if errors.Is(err, io.EOF) {
			return protocol.Response{}, kverrors.NewUnexpected("connection closed before a response arrived")
		}
		return protocol.Response{}, kverrors.NewSerde(err, "failed to decode response")
	}
	return resp, nil
}
