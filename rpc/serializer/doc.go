// Package serializer implements the wire codec for the dCTG record protocol.
//
// Unlike a general-purpose serializer, the codec emits records of identical
// size for every message kind. This is deliberate: the receive side reads
// exactly RecordSize bytes per record and never has to match on a length
// prefix, which keeps the polling loop branch-free and the send buffer pool
// accountable in whole records.
package serializer
