package document

import (
	"encoding/json"
	"fmt"
)

// Status is the closed set of verification states a document moves through.
// Transitions are owned exclusively by the Engine: pending and rejected may
// enter verifying, verifying resolves to verified or rejected, verified is
// terminal.
type Status int

const (
	StatusPending Status = iota
	StatusVerifying
	StatusVerified
	StatusRejected
)

// String renders the wire form of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusVerifying:
		return "verifying"
	case StatusVerified:
		return "verified"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ParseStatus maps a wire string back onto the closed status set.
func ParseStatus(raw string) (Status, error) {
	switch raw {
	case "pending":
		return StatusPending, nil
	case "verifying":
		return StatusVerifying, nil
	case "verified":
		return StatusVerified, nil
	case "rejected":
		return StatusRejected, nil
	default:
		return StatusPending, fmt.Errorf("unknown verification status %q", raw)
	}
}

// MarshalJSON encodes the status as its wire string.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a wire string into the closed status set.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Document is a unit of identity evidence with an independent verification
// state machine. A document without a filename is a placeholder awaiting
// upload. Progress is cosmetic feedback for the verifying phase and carries
// no information about the eventual outcome.
type Document struct {
	ID       string `json:"id"`
	Type     string `json:"documentType"`
	Filename string `json:"filename,omitempty"`
	Status   Status `json:"status"`
	Progress int    `json:"progress"`
}
