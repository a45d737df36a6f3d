package wire

import (
	"bytes"
	"io"
	"testing"
)

func TestHandshakeRoundTrip(t *testing.T) {
	h := Handshake{ReqPath: "/tmp/req.fifo", RespPath: "/tmp/resp.fifo"}
	buf, err := EncodeHandshake(h)
	if err != nil {
		t.Fatalf("EncodeHandshake: %v", err)
	}
	if len(buf) != HandshakeSize {
		t.Fatalf("handshake size = %d, want %d", len(buf), HandshakeSize)
	}
	got, err := DecodeHandshake(buf)
	if err != nil {
		t.Fatalf("DecodeHandshake: %v", err)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestHandshakePathTooLong(t *testing.T) {
	longPath := make([]byte, 41)
	for i := range longPath {
		longPath[i] = 'a'
	}
	_, err := EncodeHandshake(Handshake{ReqPath: string(longPath), RespPath: "/tmp/r"})
	if err == nil {
		t.Fatal("expected error for oversized path")
	}
}

func TestReadHandshakeZeroByteRead(t *testing.T) {
	_, err := ReadHandshake(bytes.NewReader(nil))
	if err != io.EOF {
		t.Fatalf("expected io.EOF for empty read, got %v", err)
	}
}

func TestDecodeHandshakeRejectsWrongOpcode(t *testing.T) {
	buf := make([]byte, HandshakeSize)
	buf[0] = OpQuit
	copy(buf[1:], "/tmp/a")
	copy(buf[41:], "/tmp/b")
	_, err := DecodeHandshake(buf)
	if err == nil {
		t.Fatal("expected error for non-SETUP opcode")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := EncodeCreateRequest(CreateRequest{EventID: 7, Rows: 2, Cols: 3})
	if err := WriteFrame(&buf, OpCreate, payload); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	op, got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if op != OpCreate {
		t.Fatalf("opcode = %d, want %d", op, OpCreate)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload mismatch: got %v, want %v", got, payload)
	}
}

func TestCreateRequestRoundTrip(t *testing.T) {
	req := CreateRequest{EventID: 42, Rows: 10, Cols: 20}
	got, err := DecodeCreateRequest(EncodeCreateRequest(req))
	if err != nil {
		t.Fatalf("DecodeCreateRequest: %v", err)
	}
	if got != req {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, req)
	}
}

func TestReserveRequestRoundTrip(t *testing.T) {
	req := ReserveRequest{EventID: 7, Seats: []SeatCoord{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 2, Col: 3}}}
	got, err := DecodeReserveRequest(EncodeReserveRequest(req), 100)
	if err != nil {
		t.Fatalf("DecodeReserveRequest: %v", err)
	}
	if len(got.Seats) != len(req.Seats) || got.EventID != req.EventID {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, req)
	}
	for i := range req.Seats {
		if got.Seats[i] != req.Seats[i] {
			t.Fatalf("seat %d mismatch: got %+v, want %+v", i, got.Seats[i], req.Seats[i])
		}
	}
}

func TestReserveRequestExceedsMax(t *testing.T) {
	req := ReserveRequest{EventID: 1, Seats: []SeatCoord{{Row: 1, Col: 1}, {Row: 1, Col: 2}}}
	_, err := DecodeReserveRequest(EncodeReserveRequest(req), 1)
	if err == nil {
		t.Fatal("expected error when seat count exceeds MAX_RESERVATION_SIZE")
	}
}

func TestShowResponseRoundTrip(t *testing.T) {
	resp := ShowResponse{Status: StatusOK, Rows: 2, Cols: 2, Seats: []uint64{0, 1, 0, 1}}
	got, err := DecodeShowResponse(EncodeShowResponse(resp))
	if err != nil {
		t.Fatalf("DecodeShowResponse: %v", err)
	}
	if got.Rows != resp.Rows || got.Cols != resp.Cols || len(got.Seats) != len(resp.Seats) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, resp)
	}
}

func TestShowResponseFailureOmitsGrid(t *testing.T) {
	resp := ShowResponse{Status: 1}
	buf := EncodeShowResponse(resp)
	if len(buf) != 4 {
		t.Fatalf("failure response should be 4 bytes, got %d", len(buf))
	}
	got, err := DecodeShowResponse(buf)
	if err != nil {
		t.Fatalf("DecodeShowResponse: %v", err)
	}
	if got.Status != 1 {
		t.Fatalf("status = %d, want 1", got.Status)
	}
}

func TestListResponseEmptyCatalog(t *testing.T) {
	resp := ListResponse{Status: StatusOK, EventIDs: nil}
	got, err := DecodeListResponse(EncodeListResponse(resp))
	if err != nil {
		t.Fatalf("DecodeListResponse: %v", err)
	}
	if len(got.EventIDs) != 0 {
		t.Fatalf("expected 0 events, got %d", len(got.EventIDs))
	}
}

func TestListResponseRoundTrip(t *testing.T) {
	resp := ListResponse{Status: StatusOK, EventIDs: []uint32{3, 1, 2}}
	got, err := DecodeListResponse(EncodeListResponse(resp))
	if err != nil {
		t.Fatalf("DecodeListResponse: %v", err)
	}
	if len(got.EventIDs) != 3 || got.EventIDs[0] != 3 || got.EventIDs[1] != 1 || got.EventIDs[2] != 2 {
		t.Fatalf("order not preserved: got %v", got.EventIDs)
	}
}
