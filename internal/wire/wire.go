// Package wire implements the fixed-size handshake read from the rendezvous
// channel and the length-prefixed, opcode-tagged framing used on
// per-session request/response pipes.
//
// Multi-byte integers are fixed-width and little-endian on the wire,
// regardless of host word size or byte order, so client and server builds
// never need to agree on a platform (see DESIGN.md, internal/wire).
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Opcodes, the first byte of every framed request. The original server's
// execute_commands recovers these with `buffer[0] - '0'`, so the byte that
// actually travels on the wire is the ASCII digit, not the raw integer
// value — '1' (0x31) for SETUP through '6' (0x36) for LIST.
const (
	OpSetup   byte = '1'
	OpQuit    byte = '2'
	OpCreate  byte = '3'
	OpReserve byte = '4'
	OpShow    byte = '5'
	OpList    byte = '6'
)

// HandshakeSize is the fixed length of a rendezvous message: one opcode
// byte, two 40-byte paths, one reserved byte.
const HandshakeSize = 1 + pathFieldSize + pathFieldSize + 1

const pathFieldSize = 40

// ErrProtocol indicates a malformed opcode or truncated frame.
var ErrProtocol = errors.New("wire: protocol error")

// ErrPathTooLong indicates a channel path exceeds the 40-byte wire field.
var ErrPathTooLong = errors.New("wire: path exceeds handshake field width")

// Handshake is the parsed rendezvous message: the client's two channel paths.
type Handshake struct {
	ReqPath  string
	RespPath string
}

// EncodeHandshake renders a SETUP message in the fixed §6 layout.
func EncodeHandshake(h Handshake) ([]byte, error) {
	if len(h.ReqPath) > pathFieldSize || len(h.RespPath) > pathFieldSize {
		return nil, ErrPathTooLong
	}
	buf := make([]byte, HandshakeSize)
	buf[0] = OpSetup
	copy(buf[1:1+pathFieldSize], h.ReqPath)
	copy(buf[1+pathFieldSize:1+2*pathFieldSize], h.RespPath)
	return buf, nil
}

// DecodeHandshake parses a fixed-size SETUP message. The opcode is checked
// but not returned; callers that need to distinguish SETUP from other
// traffic on the rendezvous channel should check buf[0] themselves first.
func DecodeHandshake(buf []byte) (Handshake, error) {
	if len(buf) != HandshakeSize {
		return Handshake{}, fmt.Errorf("%w: handshake must be %d bytes, got %d", ErrProtocol, HandshakeSize, len(buf))
	}
	if buf[0] != OpSetup {
		return Handshake{}, fmt.Errorf("%w: expected SETUP opcode 0x%02x, got 0x%02x", ErrProtocol, OpSetup, buf[0])
	}
	req := trimPath(buf[1 : 1+pathFieldSize])
	resp := trimPath(buf[1+pathFieldSize : 1+2*pathFieldSize])
	if req == "" || resp == "" {
		return Handshake{}, fmt.Errorf("%w: empty channel path in handshake", ErrProtocol)
	}
	return Handshake{ReqPath: req, RespPath: resp}, nil
}

func trimPath(field []byte) string {
	n := len(field)
	for n > 0 && (field[n-1] == 0 || field[n-1] == ' ') {
		n--
	}
	return string(field[:n])
}

// ReadHandshake reads exactly one fixed-size rendezvous message from r.
// A zero-byte read is reported via io.EOF so the listener can retry; any
// other short read is a protocol error. A read error before any byte
// arrives is returned as is.
func ReadHandshake(r io.Reader) (Handshake, error) {
	buf := make([]byte, HandshakeSize)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		if n == 0 {
			if errors.Is(err, io.EOF) {
				return Handshake{}, io.EOF
			}
			return Handshake{}, err
		}
		return Handshake{}, fmt.Errorf("%w: short handshake read: %v", ErrProtocol, err)
	}
	return DecodeHandshake(buf)
}

// frameHeaderSize is the length prefix (uint32 LE) preceding opcode+payload.
const frameHeaderSize = 4

// WriteFrame writes a length-prefixed, opcode-tagged frame: [len:uint32][opcode][payload].
func WriteFrame(w io.Writer, opcode byte, payload []byte) error {
	body := make([]byte, 1+len(payload))
	body[0] = opcode
	copy(body[1:], payload)

	header := make([]byte, frameHeaderSize)
	binary.LittleEndian.PutUint32(header, uint32(len(body)))

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("wire: write frame header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("wire: write frame body: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame and splits it into opcode and payload.
func ReadFrame(r io.Reader) (opcode byte, payload []byte, err error) {
	header := make([]byte, frameHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, nil, fmt.Errorf("%w: short frame header: %v", ErrProtocol, err)
	}
	length := binary.LittleEndian.Uint32(header)
	if length == 0 {
		return 0, nil, fmt.Errorf("%w: zero-length frame", ErrProtocol)
	}
	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return 0, nil, fmt.Errorf("%w: short frame body: %v", ErrProtocol, err)
	}
	return body[0], body[1:], nil
}
