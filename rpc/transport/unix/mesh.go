package unix

import (
	"fmt"
	"net"
	"os"

	"github.com/ValentinKolb/dCTG/rpc/serializer"
	"github.com/ValentinKolb/dCTG/rpc/transport"
	"github.com/ValentinKolb/dCTG/rpc/transport/base"
)

// peerConnector implements the IPeerConnector interface for Unix sockets
type peerConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IPeerConnector)
// --------------------------------------------------------------------------

func (c *peerConnector) GetName() string {
	return "unix"
}

func (c *peerConnector) Listen(endpoint string) (net.Listener, error) {
	// Remove a stale socket file from a previous run
	if err := os.Remove(endpoint); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove stale socket %s: %v", endpoint, err)
	}

	listener, err := net.Listen("unix", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket: %v", err)
	}
	return listener, nil
}

func (c *peerConnector) Connect(endpoint string) (net.Conn, error) {
	return net.Dial("unix", endpoint)
}

func (c *peerConnector) UpgradeConnection(conn net.Conn) error {
	return nil
}

// --------------------------------------------------------------------------
// Mesh Transport Factory Method
// --------------------------------------------------------------------------

// NewUnixMeshTransport creates a new Unix socket mesh transport
func NewUnixMeshTransport(codec serializer.IRecordCodec, cfg base.MeshConfig) (transport.IMeshTransport, error) {
	return base.NewBaseMeshTransport(&peerConnector{}, codec, cfg)
}
