// Package network lets a TLS listener answer plain HTTP requests with a
// redirect to the same URL over HTTPS.
package network

import (
	"bufio"
	"bytes"
	"net"
	"net/http"
	"sync"
)

// peekSize is how much of the first read is inspected for a plain HTTP request.
const peekSize = 2048

// AutoHttpsConn inspects the first bytes a client sends. A plain HTTP request
// is answered with a 307 to its https:// URL and the connection is closed;
// anything else, normally a TLS handshake, is passed through untouched.
type AutoHttpsConn struct {
	net.Conn

	firstBuf []byte
	bufStart int

	readRequestOnce sync.Once
}

// NewAutoHttpsConn wraps conn.
func NewAutoHttpsConn(conn net.Conn) net.Conn {
	return &AutoHttpsConn{
		Conn: conn,
	}
}

func (c *AutoHttpsConn) readRequest() {
	buf := make([]byte, peekSize)
	n, err := c.Conn.Read(buf)
	c.firstBuf = buf[:n]
	if err != nil {
		return
	}

	request, err := http.ReadRequest(bufio.NewReader(bytes.NewReader(c.firstBuf)))
	if err != nil {
		return
	}

	resp := http.Response{
		StatusCode: http.StatusTemporaryRedirect,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
	}
	resp.Header.Set("Location", "https://"+request.Host+request.RequestURI)
	resp.Header.Set("Connection", "close")
	_ = resp.Write(c.Conn)
	_ = c.Conn.Close()
	c.firstBuf = nil
}

// Read returns the inspected bytes first, then reads from the connection.
func (c *AutoHttpsConn) Read(buf []byte) (int, error) {
	c.readRequestOnce.Do(c.readRequest)

	if c.firstBuf != nil {
		n := copy(buf, c.firstBuf[c.bufStart:])
		c.bufStart += n
		if c.bufStart >= len(c.firstBuf) {
			c.firstBuf = nil
		}
		return n, nil
	}

	return c.Conn.Read(buf)
}

// AutoHttpsListener wraps every accepted connection in an AutoHttpsConn.
type AutoHttpsListener struct {
	net.Listener
}

// NewAutoHttpsListener wraps listener. Put it underneath tls.NewListener.
func NewAutoHttpsListener(listener net.Listener) net.Listener {
	return &AutoHttpsListener{
		Listener: listener,
	}
}

func (l *AutoHttpsListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return NewAutoHttpsConn(conn), nil
}
