package worker

import (
	"fmt"
	"time"

	"github.com/radio-control/emsd/internal/engine"
	"github.com/radio-control/emsd/internal/wire"
)

// dispatch decodes one request payload, calls the engine, and renders the
// matching response payload. It never returns a transport error — engine
// failures become a nonzero status in the reply, the same flattening
// operations.c's execute_commands does by writing a status int back down
// the response pipe rather than closing it.
func (w *Worker) dispatch(opcode byte, payload []byte) (respPayload []byte, quit bool, err error) {
	start := time.Now()
	switch opcode {
	case wire.OpCreate:
		req, derr := wire.DecodeCreateRequest(payload)
		if derr != nil {
			return wire.EncodeStatusResponse(wire.StatusResponse{Status: 1}), false, nil
		}
		status := int32(0)
		opErr := w.eng.Create(req.EventID, req.Rows, req.Cols)
		if opErr != nil {
			status = statusFor(opErr)
		}
		w.audit("CREATE", req.EventID, opErr, start)
		return wire.EncodeStatusResponse(wire.StatusResponse{Status: status}), false, nil

	case wire.OpReserve:
		req, derr := wire.DecodeReserveRequest(payload, w.maxReservationSize)
		if derr != nil {
			return wire.EncodeStatusResponse(wire.StatusResponse{Status: 1}), false, nil
		}
		seats := make([]engine.Seat, len(req.Seats))
		for i, s := range req.Seats {
			seats[i] = engine.Seat{Row: s.Row, Col: s.Col}
		}
		status := int32(0)
		opErr := w.eng.Reserve(req.EventID, seats)
		if opErr != nil {
			status = statusFor(opErr)
		}
		w.audit("RESERVE", req.EventID, opErr, start)
		return wire.EncodeStatusResponse(wire.StatusResponse{Status: status}), false, nil

	case wire.OpShow:
		req, derr := wire.DecodeShowRequest(payload)
		if derr != nil {
			return wire.EncodeStatusResponse(wire.StatusResponse{Status: 1}), false, nil
		}
		rows, cols, seats, opErr := w.eng.Show(req.EventID)
		w.audit("SHOW", req.EventID, opErr, start)
		if opErr != nil {
			return wire.EncodeShowResponse(wire.ShowResponse{Status: statusFor(opErr)}), false, nil
		}
		wireSeats := make([]uint64, len(seats))
		for i, v := range seats {
			wireSeats[i] = uint64(v)
		}
		return wire.EncodeShowResponse(wire.ShowResponse{Status: wire.StatusOK, Rows: rows, Cols: cols, Seats: wireSeats}), false, nil

	case wire.OpList:
		ids, opErr := w.eng.List()
		w.audit("LIST", 0, opErr, start)
		if opErr != nil {
			return wire.EncodeListResponse(wire.ListResponse{Status: statusFor(opErr)}), false, nil
		}
		return wire.EncodeListResponse(wire.ListResponse{Status: wire.StatusOK, EventIDs: ids}), false, nil

	case wire.OpQuit:
		w.audit("QUIT", 0, nil, start)
		return wire.EncodeStatusResponse(wire.StatusResponse{Status: wire.StatusOK}), true, nil

	default:
		return nil, false, fmt.Errorf("%w: unknown opcode 0x%02x", wire.ErrProtocol, opcode)
	}
}

// statusFor collapses an engine sentinel error into a nonzero wire status.
// The wire format only distinguishes success from failure; the audit log
// carries the detailed reason.
func statusFor(err error) int32 {
	if err == nil {
		return wire.StatusOK
	}
	return 1
}

func (w *Worker) audit(op string, eventID uint32, opErr error, start time.Time) {
	if w.audLog == nil {
		return
	}
	outcome := "ok"
	detail := ""
	if opErr != nil {
		outcome = "error"
		detail = opErr.Error()
	}
	w.audLog.Log(w.sessionID, op, eventID, outcome, detail, time.Since(start))
}
