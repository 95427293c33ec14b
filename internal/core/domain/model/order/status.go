package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
//	pending ──> confirmed ──> preparing ──> delivering ──> completed
//	   │            │
//	   └────────────┴──> cancelled
//
// completed and cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialised values.
	Unknown Status = iota
	Pending
	Confirmed
	Preparing
	Delivering
	Completed
	Cancelled
)

var statusNames = map[Status]string{
	Unknown:    "unknown",
	Pending:    "pending",
	Confirmed:  "confirmed",
	Preparing:  "preparing",
	Delivering: "delivering",
	Completed:  "completed",
	Cancelled:  "cancelled",
}

// ParseStatus maps the persisted text form back to a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range statusNames {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted lower-case name.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return statusNames[Unknown]
}

func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// IsAssigned reports whether a courier must be bound in this status.
func (s Status) IsAssigned() bool {
	return s == Preparing || s == Delivering || s == Completed
}

// ValidateCanHaveCourier enforces: courier bound exactly when status is preparing,
// delivering or completed.
func (s Status) ValidateCanHaveCourier(courier bool) error {
	if courier && !s.IsAssigned() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have a courier", s),
		)
	}

	if !courier && s.IsAssigned() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a valid status to have no courier", s),
		)
	}

	return nil
}
