// Package rpc contains the inter-process machinery of dCTG: the fixed-size
// wire message (common), its binary record codec (serializer), and the peer
// mesh transport implementations (transport) that move records between the
// cooperating processes.
package rpc
