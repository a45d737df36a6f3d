package wire

import (
	"encoding/binary"
	"fmt"
)

// Status codes on response frames: 0 is success, nonzero is failure.
const (
	StatusOK = int32(0)
)

// SetupResponse is the SETUP reply: a four-byte session identifier.
type SetupResponse struct {
	SessionID int32
}

// EncodeSetupResponse renders a SETUP reply.
func EncodeSetupResponse(resp SetupResponse) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(resp.SessionID))
	return buf
}

// DecodeSetupResponse parses a SETUP reply.
func DecodeSetupResponse(payload []byte) (SetupResponse, error) {
	if len(payload) != 4 {
		return SetupResponse{}, fmt.Errorf("%w: SETUP response must be 4 bytes, got %d", ErrProtocol, len(payload))
	}
	return SetupResponse{SessionID: int32(binary.LittleEndian.Uint32(payload))}, nil
}

// StatusResponse is the CREATE/RESERVE reply: a status code only.
type StatusResponse struct {
	Status int32
}

// EncodeStatusResponse renders a CREATE/RESERVE reply.
func EncodeStatusResponse(resp StatusResponse) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(resp.Status))
	return buf
}

// DecodeStatusResponse parses a CREATE/RESERVE reply.
func DecodeStatusResponse(payload []byte) (StatusResponse, error) {
	if len(payload) != 4 {
		return StatusResponse{}, fmt.Errorf("%w: status response must be 4 bytes, got %d", ErrProtocol, len(payload))
	}
	return StatusResponse{Status: int32(binary.LittleEndian.Uint32(payload))}, nil
}

// ShowResponse is the SHOW reply: status, then on success the grid shape
// and a row-major snapshot of seat values.
type ShowResponse struct {
	Status int32
	Rows   uint64
	Cols   uint64
	Seats  []uint64
}

// EncodeShowResponse renders a SHOW reply. On failure (Status != 0), Rows,
// Cols and Seats are omitted from the wire form.
func EncodeShowResponse(resp ShowResponse) []byte {
	if resp.Status != StatusOK {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(resp.Status))
		return buf
	}
	n := len(resp.Seats)
	buf := make([]byte, 4+8+8+8*n)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(resp.Status))
	binary.LittleEndian.PutUint64(buf[4:12], resp.Rows)
	binary.LittleEndian.PutUint64(buf[12:20], resp.Cols)
	off := 20
	for _, v := range resp.Seats {
		binary.LittleEndian.PutUint64(buf[off:off+8], v)
		off += 8
	}
	return buf
}

// DecodeShowResponse parses a SHOW reply.
func DecodeShowResponse(payload []byte) (ShowResponse, error) {
	if len(payload) < 4 {
		return ShowResponse{}, fmt.Errorf("%w: SHOW response too short", ErrProtocol)
	}
	status := int32(binary.LittleEndian.Uint32(payload[0:4]))
	if status != StatusOK {
		return ShowResponse{Status: status}, nil
	}
	if len(payload) < 20 {
		return ShowResponse{}, fmt.Errorf("%w: SHOW response missing grid header", ErrProtocol)
	}
	rows := binary.LittleEndian.Uint64(payload[4:12])
	cols := binary.LittleEndian.Uint64(payload[12:20])
	want := 20 + 8*int(rows*cols)
	if len(payload) != want {
		return ShowResponse{}, fmt.Errorf("%w: SHOW response must be %d bytes for %dx%d grid, got %d", ErrProtocol, want, rows, cols, len(payload))
	}
	seats := make([]uint64, rows*cols)
	off := 20
	for i := range seats {
		seats[i] = binary.LittleEndian.Uint64(payload[off : off+8])
		off += 8
	}
	return ShowResponse{Status: status, Rows: rows, Cols: cols, Seats: seats}, nil
}

// ListResponse is the LIST reply: status, then on success the event id set.
type ListResponse struct {
	Status   int32
	EventIDs []uint32
}

// EncodeListResponse renders a LIST reply.
func EncodeListResponse(resp ListResponse) []byte {
	if resp.Status != StatusOK {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(resp.Status))
		return buf
	}
	n := len(resp.EventIDs)
	buf := make([]byte, 4+8+4*n)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(resp.Status))
	binary.LittleEndian.PutUint64(buf[4:12], uint64(n))
	off := 12
	for _, id := range resp.EventIDs {
		binary.LittleEndian.PutUint32(buf[off:off+4], id)
		off += 4
	}
	return buf
}

// DecodeListResponse parses a LIST reply.
func DecodeListResponse(payload []byte) (ListResponse, error) {
	if len(payload) < 4 {
		return ListResponse{}, fmt.Errorf("%w: LIST response too short", ErrProtocol)
	}
	status := int32(binary.LittleEndian.Uint32(payload[0:4]))
	if status != StatusOK {
		return ListResponse{Status: status}, nil
	}
	if len(payload) < 12 {
		return ListResponse{}, fmt.Errorf("%w: LIST response missing count", ErrProtocol)
	}
	count := binary.LittleEndian.Uint64(payload[4:12])
	want := 12 + 4*int(count)
	if len(payload) != want {
		return ListResponse{}, fmt.Errorf("%w: LIST response must be %d bytes for count=%d, got %d", ErrProtocol, want, count, len(payload))
	}
	ids := make([]uint32, count)
	off := 12
	for i := range ids {
		ids[i] = binary.LittleEndian.Uint32(payload[off : off+4])
		off += 4
	}
	return ListResponse{Status: status, EventIDs: ids}, nil
}
