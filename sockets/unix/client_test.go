package unix

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientReadWrite(t *testing.T) {
	local, remote := net.Pipe()
	client := NewClientWithConn(local)
	defer client.Close()
	peer := NewClientWithConn(remote)
	defer peer.Close()
	go func() {
		peer.Write([]byte(`{"type":"play"}`))
	}()
	b, err := client.Read()
	require.NoError(t, err)
	// The newline delimiter is stripped
	assert.Equal(t, `{"type":"play"}`, string(b))
}

func TestClientWriteDelimits(t *testing.T) {
	local, remote := net.Pipe()
	client := NewClientWithConn(local)
	defer client.Close()
	defer remote.Close()
	go func() {
		client.Write([]byte("event"))
		client.Write([]byte("delimited\n"))
	}()
	p := make([]byte, 64)
	n, err := remote.Read(p)
	require.NoError(t, err)
	assert.Equal(t, "event\n", string(p[:n]))
	n, err = remote.Read(p)
	require.NoError(t, err)
	// An existing trailing newline is not doubled
	assert.Equal(t, "delimited\n", string(p[:n]))
}

func TestClientReadClosedConn(t *testing.T) {
	local, remote := net.Pipe()
	client := NewClientWithConn(local)
	remote.Close()
	_, err := client.Read()
	assert.Error(t, err)
}

func TestClientCloseIdempotent(t *testing.T) {
	local, _ := net.Pipe()
	client := NewClientWithConn(local)
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
}

func TestClientID(t *testing.T) {
	assert.NotEmpty(t, NewClient().ID())
	assert.NotEqual(t, NewClient().ID(), NewClient().ID())
}
