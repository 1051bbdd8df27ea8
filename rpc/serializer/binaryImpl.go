package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/dCTG/lib/kmer"
	"github.com/ValentinKolb/dCTG/rpc/common"
)

// Record layout (big endian):
//   kind     1 byte
//   srcRank  4 bytes
//   cursorID 8 bytes
//   ok       1 byte
//   klen     1 byte
//   bext     1 byte
//   fext     1 byte
//   packed   kmer.PackedBytes bytes
const (
	offKind     = 0
	offSrcRank  = 1
	offCursorID = 5
	offOk       = 13
	offKlen     = 14
	offBext     = 15
	offFext     = 16
	offPacked   = 17

	// RecordSize is the wire size of every record, independent of its kind.
	RecordSize = offPacked + kmer.PackedBytes
)

// NewRecordCodec creates the binary record codec.
func NewRecordCodec() IRecordCodec {
	return &recordCodecImpl{}
}

// recordCodecImpl implements IRecordCodec with the fixed binary layout above.
type recordCodecImpl struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRecordCodec)
// --------------------------------------------------------------------------

func (c recordCodecImpl) Encode(msg common.Message, record *[RecordSize]byte) {
	record[offKind] = byte(msg.MsgType)
	binary.BigEndian.PutUint32(record[offSrcRank:offCursorID], msg.SrcRank)
	binary.BigEndian.PutUint64(record[offCursorID:offOk], msg.CursorID)
	if msg.Ok {
		record[offOk] = 1
	} else {
		record[offOk] = 0
	}
	record[offKlen] = msg.Kmer.Len
	record[offBext] = msg.Kmer.BackwardExt
	record[offFext] = msg.Kmer.ForwardExt
	copy(record[offPacked:], msg.Kmer.Packed[:])
}

func (c recordCodecImpl) Decode(record *[RecordSize]byte, msg *common.Message) error {
	kind := common.MessageType(record[offKind])
	switch kind {
	case common.MsgTInsert, common.MsgTLookupReq, common.MsgTLookupReply, common.MsgTDone:
	default:
		return fmt.Errorf("unknown message kind %d", record[offKind])
	}
	if record[offKlen] > kmer.MaxLen {
		return fmt.Errorf("k-mer length %d exceeds maximum %d", record[offKlen], kmer.MaxLen)
	}

	msg.MsgType = kind
	msg.SrcRank = binary.BigEndian.Uint32(record[offSrcRank:offCursorID])
	msg.CursorID = binary.BigEndian.Uint64(record[offCursorID:offOk])
	msg.Ok = record[offOk] != 0
	msg.Kmer = kmer.Kmer{
		Len:         record[offKlen],
		BackwardExt: record[offBext],
		ForwardExt:  record[offFext],
	}
	copy(msg.Kmer.Packed[:], record[offPacked:])
	return nil
}
