package common

import (
	"github.com/ValentinKolb/dCTG/lib/kmer"
)

// --------------------------------------------------------------------------
// Message Structure
// --------------------------------------------------------------------------

// Message is the single record type exchanged between processes. Which fields
// are meaningful depends on the kind; the wire representation has identical
// size for every kind so that the receive side never has to match on length.
type Message struct {
	// Kind of message
	MsgType MessageType

	// SrcRank is the sender process id
	SrcRank uint32

	// CursorID is the sender-local cursor index (lookup request/reply only)
	CursorID uint64

	// Ok reports whether a lookup reply carries a k-mer (reply only)
	Ok bool

	// Kmer payload; zero value for done tokens
	Kmer kmer.Kmer
}

// --------------------------------------------------------------------------
// Message Factory Functions
// --------------------------------------------------------------------------

// NewInsertMessage creates an insert routed to the key's owner.
func NewInsertMessage(srcRank int, k kmer.Kmer) Message {
	return Message{
		MsgType: MsgTInsert,
		SrcRank: uint32(srcRank),
		Kmer:    k,
	}
}

// NewLookupReqMessage creates a lookup request for the given successor key.
func NewLookupReqMessage(srcRank int, cursorID uint64, key kmer.Kmer) Message {
	return Message{
		MsgType:  MsgTLookupReq,
		SrcRank:  uint32(srcRank),
		CursorID: cursorID,
		Kmer:     key,
	}
}

// NewLookupReplyMessage creates the reply to a lookup request. Ok is false if
// the owner's shard does not hold the key; the k-mer payload is then the zero
// sentinel.
func NewLookupReplyMessage(srcRank int, cursorID uint64, k kmer.Kmer, ok bool) Message {
	return Message{
		MsgType:  MsgTLookupReply,
		SrcRank:  uint32(srcRank),
		CursorID: cursorID,
		Ok:       ok,
		Kmer:     k,
	}
}

// NewDoneMessage creates a done token announcing that the sender finished all
// of its local cursors.
func NewDoneMessage(srcRank int) Message {
	return Message{
		MsgType: MsgTDone,
		SrcRank: uint32(srcRank),
	}
}

// --------------------------------------------------------------------------
// Message Type Definition
// --------------------------------------------------------------------------

// MessageType defines the kind of a wire record.
type MessageType uint8

const (
	MsgTUnknown MessageType = iota

	MsgTInsert      // route a k-mer to its owning shard
	MsgTLookupReq   // resolve a successor key on its owner
	MsgTLookupReply // answer to a lookup request
	MsgTDone        // sender finished all local cursors
)

// String returns the string representation of a MessageType.
func (t MessageType) String() string {
	switch t {
	case MsgTInsert:
		return "insert"
	case MsgTLookupReq:
		return "lookupReq"
	case MsgTLookupReply:
		return "lookupReply"
	case MsgTDone:
		return "done"
	default:
		return "unknown"
	}
}
