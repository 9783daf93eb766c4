package domain

import "strings"

// Status is the project lifecycle state. Transitions are flat: any of
// the four values may be set from any other via an update-status call.
type Status string

const (
	StatusPlanned    Status = "Planned"
	StatusInProgress Status = "In progress"
	StatusCompleted  Status = "Completed"
	StatusOnHold     Status = "On hold"
)

var statuses = []Status{StatusPlanned, StatusInProgress, StatusCompleted, StatusOnHold}

// ParseStatus matches the input case-insensitively against the four
// known values and returns the canonical form.
func ParseStatus(s string) (Status, error) {
	for _, v := range statuses {
		if strings.EqualFold(s, string(v)) {
			return v, nil
		}
	}
	return "", ErrInvalidStatus
}

func (s Status) String() string { return string(s) }
