package wire

import (
	"encoding/binary"
	"fmt"
)

// SeatCoord is a 1-indexed (row, col) pair as carried on the wire.
type SeatCoord struct {
	Row uint64
	Col uint64
}

// CreateRequest is the payload of a CREATE frame (opcode OpCreate).
type CreateRequest struct {
	EventID uint32
	Rows    uint64
	Cols    uint64
}

// EncodeCreateRequest renders a CREATE payload (opcode not included).
func EncodeCreateRequest(req CreateRequest) []byte {
	buf := make([]byte, 4+8+8)
	binary.LittleEndian.PutUint32(buf[0:4], req.EventID)
	binary.LittleEndian.PutUint64(buf[4:12], req.Rows)
	binary.LittleEndian.PutUint64(buf[12:20], req.Cols)
	return buf
}

// DecodeCreateRequest parses a CREATE payload.
func DecodeCreateRequest(payload []byte) (CreateRequest, error) {
	if len(payload) != 20 {
		return CreateRequest{}, fmt.Errorf("%w: CREATE payload must be 20 bytes, got %d", ErrProtocol, len(payload))
	}
	return CreateRequest{
		EventID: binary.LittleEndian.Uint32(payload[0:4]),
		Rows:    binary.LittleEndian.Uint64(payload[4:12]),
		Cols:    binary.LittleEndian.Uint64(payload[12:20]),
	}, nil
}

// ReserveRequest is the payload of a RESERVE frame (opcode OpReserve).
type ReserveRequest struct {
	EventID uint32
	Seats   []SeatCoord
}

// EncodeReserveRequest renders a RESERVE payload: event id, seat count,
// then all row values followed by all column values (matching the
// original xs[]/ys[] layout).
func EncodeReserveRequest(req ReserveRequest) []byte {
	n := len(req.Seats)
	buf := make([]byte, 4+8+8*n+8*n)
	binary.LittleEndian.PutUint32(buf[0:4], req.EventID)
	binary.LittleEndian.PutUint64(buf[4:12], uint64(n))
	off := 12
	for _, s := range req.Seats {
		binary.LittleEndian.PutUint64(buf[off:off+8], s.Row)
		off += 8
	}
	for _, s := range req.Seats {
		binary.LittleEndian.PutUint64(buf[off:off+8], s.Col)
		off += 8
	}
	return buf
}

// DecodeReserveRequest parses a RESERVE payload. maxSeats bounds n so a
// corrupt or hostile count cannot trigger an unbounded allocation; the
// framing layer is expected to reject n > MAX_RESERVATION_SIZE.
func DecodeReserveRequest(payload []byte, maxSeats uint64) (ReserveRequest, error) {
	if len(payload) < 12 {
		return ReserveRequest{}, fmt.Errorf("%w: RESERVE payload too short", ErrProtocol)
	}
	eventID := binary.LittleEndian.Uint32(payload[0:4])
	n := binary.LittleEndian.Uint64(payload[4:12])
	if n > maxSeats {
		return ReserveRequest{}, fmt.Errorf("%w: RESERVE seat count %d exceeds MAX_RESERVATION_SIZE %d", ErrProtocol, n, maxSeats)
	}
	want := 12 + 8*int(n) + 8*int(n)
	if len(payload) != want {
		return ReserveRequest{}, fmt.Errorf("%w: RESERVE payload must be %d bytes for n=%d, got %d", ErrProtocol, want, n, len(payload))
	}
	seats := make([]SeatCoord, n)
	off := 12
	for i := range seats {
		seats[i].Row = binary.LittleEndian.Uint64(payload[off : off+8])
		off += 8
	}
	for i := range seats {
		seats[i].Col = binary.LittleEndian.Uint64(payload[off : off+8])
		off += 8
	}
	return ReserveRequest{EventID: eventID, Seats: seats}, nil
}

// ShowRequest is the payload of a SHOW frame (opcode OpShow).
type ShowRequest struct {
	EventID uint32
}

// EncodeShowRequest renders a SHOW payload.
func EncodeShowRequest(req ShowRequest) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, req.EventID)
	return buf
}

// DecodeShowRequest parses a SHOW payload.
func DecodeShowRequest(payload []byte) (ShowRequest, error) {
	if len(payload) != 4 {
		return ShowRequest{}, fmt.Errorf("%w: SHOW payload must be 4 bytes, got %d", ErrProtocol, len(payload))
	}
	return ShowRequest{EventID: binary.LittleEndian.Uint32(payload)}, nil
}
