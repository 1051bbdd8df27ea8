package base

import (
	"encoding/binary"
	"io"
	"net"

	"github.com/ValentinKolb/dCTG/rpc/serializer"
)

// Frame tags. Data frames carry one fixed-size record; control frames carry
// a single uint64 and never enter the delivery queue.
const (
	frameData         byte = 1 // payload: one RecordSize record
	frameHello        byte = 2 // payload: rank of the dialing peer
	frameReduce       byte = 3 // payload: contribution towards rank 0
	frameReduceResult byte = 4 // payload: reduce result from rank 0
)

// writeDataFrame writes a tag byte followed by one record.
func writeDataFrame(conn net.Conn, record []byte) error {
	b := net.Buffers{{frameData}, record}
	_, err := b.WriteTo(conn)
	return err
}

// writeCtrlFrame writes a tag byte followed by one big endian uint64.
func writeCtrlFrame(conn net.Conn, tag byte, value uint64) error {
	buf := make([]byte, 9)
	buf[0] = tag
	binary.BigEndian.PutUint64(buf[1:], value)
	_, err := conn.Write(buf)
	return err
}

// readFrame reads one frame. For data frames the record buffer is filled and
// value is zero; for control frames the record buffer is untouched.
func readFrame(conn net.Conn, record *[serializer.RecordSize]byte) (tag byte, value uint64, err error) {
	var tagBuf [1]byte
	if _, err := io.ReadFull(conn, tagBuf[:]); err != nil {
		return 0, 0, err
	}

	switch tagBuf[0] {
	case frameData:
		if _, err := io.ReadFull(conn, record[:]); err != nil {
			return 0, 0, err
		}
		return frameData, 0, nil
	default:
		var valBuf [8]byte
		if _, err := io.ReadFull(conn, valBuf[:]); err != nil {
			return 0, 0, err
		}
		return tagBuf[0], binary.BigEndian.Uint64(valBuf[:]), nil
	}
}
