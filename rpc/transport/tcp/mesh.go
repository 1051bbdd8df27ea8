package tcp

import (
	"fmt"
	"net"

	"github.com/ValentinKolb/dCTG/rpc/serializer"
	"github.com/ValentinKolb/dCTG/rpc/transport"
	"github.com/ValentinKolb/dCTG/rpc/transport/base"
)

// peerConnector implements the IPeerConnector interface for TCP sockets
type peerConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IPeerConnector)
// --------------------------------------------------------------------------

func (c *peerConnector) GetName() string {
	return "tcp"
}

func (c *peerConnector) Listen(endpoint string) (net.Listener, error) {
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create TCP socket: %v", err)
	}
	return listener, nil
}

func (c *peerConnector) Connect(endpoint string) (net.Conn, error) {
	return net.Dial("tcp", endpoint)
}

// UpgradeConnection disables Nagle's algorithm: the mesh exchanges many
// small fixed-size records whose latency dominates the walk phase.
func (c *peerConnector) UpgradeConnection(conn net.Conn) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil // Not a TCP connection, nothing to upgrade
	}
	return tcpConn.SetNoDelay(true)
}

// --------------------------------------------------------------------------
// Mesh Transport Factory Method
// --------------------------------------------------------------------------

// NewTCPMeshTransport creates a new TCP mesh transport
func NewTCPMeshTransport(codec serializer.IRecordCodec, cfg base.MeshConfig) (transport.IMeshTransport, error) {
	return base.NewBaseMeshTransport(&peerConnector{}, codec, cfg)
}
