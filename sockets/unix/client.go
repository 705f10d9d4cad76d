package unix

import (
	"bufio"
	"bytes"
	"net"
	"sync"

	"fmsynth/logger"

	"github.com/rs/xid"
)

// Map for storing client connections
type Clients map[string]*Client

// Convenience add client connection to map
func (c Clients) Add(client *Client) {
	c[client.id] = client
}

// Convenience delete client connection from map
func (c Clients) Del(id string) {
	delete(c, id)
}

// A unix socket client, events are newline delimited JSON
type Client struct {
	// Unexported Fields
	id     string
	conn   net.Conn
	buf    *bufio.Reader
	lock   *sync.Mutex
	closed bool
}

// Returns the clients ID
func (c *Client) ID() string {
	return c.id
}

// Connect to a Unix socket
func (c *Client) Connect(address string) error {
	conn, err := net.Dial("unix", address)
	if err != nil {
		return err
	}
	c.conn = conn
	return nil
}

// Read one event from the socket, blocking until a full line
// arrives. Returns an error once the connection closes.
func (c *Client) Read() ([]byte, error) {
	if c.buf == nil {
		c.buf = bufio.NewReader(c.conn)
	}
	b, err := c.buf.ReadBytes('\n') // EOF on connection close
	if err != nil {
		return nil, err
	}
	return bytes.TrimRight(b, "\n"), nil
}

// Writes one event to the socket, delimiting it with a newline
func (c *Client) Write(b []byte) (int, error) {
	if len(b) == 0 || b[len(b)-1] != '\n' {
		b = append(b, '\n')
	}
	return c.conn.Write(b)
}

// Close the Client, closing the connection. Safe to call more than
// once.
func (c *Client) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		return nil
	}
	logger.Debug("close unix socket client")
	c.closed = true
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Constructs a new Client
func NewClient() *Client {
	return &Client{
		id:   xid.New().String(),
		lock: &sync.Mutex{},
	}
}

// Constructs a new client with an already open connection
func NewClientWithConn(conn net.Conn) *Client {
	client := NewClient()
	client.conn = conn
	return client
}
