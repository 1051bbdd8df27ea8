package serializer

import "github.com/ValentinKolb/dCTG/rpc/common"

// IRecordCodec is the interface for the fixed-size record codec. Every
// implementation must produce records of exactly RecordSize bytes for every
// message kind; all processes of a run agree on the codec at startup.
type IRecordCodec interface {
	// Encode serializes a Message into the provided record buffer.
	Encode(msg common.Message, record *[RecordSize]byte)
	// Decode deserializes a record into a Message.
	// It returns an error if the record is malformed.
	Decode(record *[RecordSize]byte, msg *common.Message) error
}
