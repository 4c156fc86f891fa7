package attendance

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const payloadTypeAttendance = "attendance"

// Payload is a decoded QR code body:
//
//	{"type": "attendance", "eventId": 7, "studentId": 12}
//
// studentId is optional and is kept raw until target resolution.
type Payload struct {
	Type      string
	EventID   json.RawMessage
	StudentID json.RawMessage
}

// DecodePayload parses raw and checks its type and event against eventID.
// Errors are ErrInvalidFormat, ErrInvalidType and ErrEventMismatch, in that order.
func DecodePayload(raw string, eventID int) (*Payload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &fields); err != nil || fields == nil {
		return nil, ErrInvalidFormat
	}

	var typ string
	if err := json.Unmarshal(fields["type"], &typ); err != nil || typ != payloadTypeAttendance {
		return nil, ErrInvalidType
	}

	payloadEvent, ok := normalizeID(fields["eventId"])
	if !ok || payloadEvent != eventID {
		return nil, ErrEventMismatch
	}

	return &Payload{
		Type:      typ,
		EventID:   fields["eventId"],
		StudentID: fields["studentId"],
	}, nil
}

// Target returns the student the payload checks in, or fallback when the
// payload names none.
func (p *Payload) Target(fallback int) (int, error) {
	if isAbsent(p.StudentID) {
		return fallback, nil
	}
	id, ok := normalizeID(p.StudentID)
	if !ok {
		return 0, ErrInvalidFormat
	}
	return id, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

// normalizeID accepts 7, 7.0 and "7" as the same positive identifier
func normalizeID(raw json.RawMessage) (int, bool) {
	if isAbsent(raw) {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
	}

	if f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}
