package order

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Address is a free-text address line with its coordinates.
type Address struct {
	line     string
	location kernel.Location
}

func NewAddress(line string, location kernel.Location) (Address, error) {
	line = strings.TrimSpace(line)
	var lineErr error
	if line == "" {
		lineErr = errs.NewValueIsRequiredError("address")
	}

	if err := errors.Join(lineErr, location.Validate()); err != nil {
		return Address{}, err
	}

	return Address{line: line, location: location}, nil
}

func (a Address) Line() string {
	return a.line
}

func (a Address) Location() kernel.Location {
	return a.location
}

func (a Address) Validate() error {
	if a.line == "" {
		return errs.NewValueIsRequiredError("address")
	}
	return a.location.Validate()
}
