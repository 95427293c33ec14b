// Package ledger models the append-only money ledger: every balance movement is an
// Entry, and an order's courier earning is recorded at most once.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

type Kind string

const (
	KindDeposit      Kind = "deposit"
	KindWithdrawal   Kind = "withdrawal"
	KindOrderPayment Kind = "order_payment"
	KindOrderEarning Kind = "order_earning"
)

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

func (k Kind) Validate() error {
	switch k {
	case KindDeposit, KindWithdrawal, KindOrderPayment, KindOrderEarning:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("kind", fmt.Errorf("%q is not a ledger kind", string(k)))
	}
}

// IsCredit reports whether entries of this kind increase the balance.
func (k Kind) IsCredit() bool {
	return k == KindDeposit || k == KindOrderEarning
}

const MaxDescriptionLength = 255

// Entry is one immutable ledger line. Amount is signed: credits positive, debits negative.
type Entry struct {
	id          kernel.UUID
	userID      kernel.UUID
	amount      kernel.Money
	kind        Kind
	description string
	referenceID *kernel.UUID
	createdAt   time.Time
}

// NewEntry validates that the sign of amount matches kind.
func NewEntry(
	userID kernel.UUID,
	amount kernel.Money,
	kind Kind,
	description string,
	referenceID *kernel.UUID,
	now time.Time,
) (Entry, error) {
	e := Entry{id: kernel.NewUUID(), createdAt: now.UTC()}
	if err := errors.Join(
		e.setUserID(userID),
		e.setKind(kind),
		e.setDescription(description),
	); err != nil {
		return Entry{}, err
	}
	if err := e.setAmount(amount); err != nil {
		return Entry{}, err
	}
	if kind == KindOrderEarning && referenceID == nil {
		return Entry{}, errs.NewValueIsRequiredError("reference_id")
	}
	if referenceID != nil {
		if err := referenceID.Validate(); err != nil {
			return Entry{}, err
		}
		ref := *referenceID
		e.referenceID = &ref
	}
	return e, nil
}

// NewOrderEarning is the courier's credit for a completed order.
func NewOrderEarning(courierID, orderID kernel.UUID, amount kernel.Money, now time.Time) (Entry, error) {
	return NewEntry(courierID, amount, KindOrderEarning, fmt.Sprintf("Earning for order #%s", orderID), &orderID, now)
}

// RestoreEntry rebuilds a persisted entry without re-checking business rules.
func RestoreEntry(
	id, userID kernel.UUID,
	amount kernel.Money,
	kind Kind,
	description string,
	referenceID *kernel.UUID,
	createdAt time.Time,
) Entry {
	return Entry{
		id:          id,
		userID:      userID,
		amount:      amount,
		kind:        kind,
		description: description,
		referenceID: referenceID,
		createdAt:   createdAt,
	}
}

func (e Entry) ID() kernel.UUID {
	return e.id
}

func (e Entry) UserID() kernel.UUID {
	return e.userID
}

func (e Entry) Amount() kernel.Money {
	return e.amount
}

func (e Entry) Kind() Kind {
	return e.kind
}

func (e Entry) Description() string {
	return e.description
}

func (e Entry) ReferenceID() *kernel.UUID {
	return e.referenceID
}

func (e Entry) CreatedAt() time.Time {
	return e.createdAt
}

func (e *Entry) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("user_id", err)
	}
	e.userID = id
	return nil
}

func (e *Entry) setKind(k Kind) error {
	if err := k.Validate(); err != nil {
		return err
	}
	e.kind = k
	return nil
}

func (e *Entry) setDescription(d string) error {
	d = strings.TrimSpace(d)
	if len(d) > MaxDescriptionLength {
		return errs.NewValueIsOutOfRangeError("description", len(d), 0, MaxDescriptionLength)
	}
	e.description = d
	return nil
}

func (e *Entry) setAmount(amount kernel.Money) error {
	// A zero earning still marks the order as settled.
	if amount.IsZero() && e.kind != KindOrderEarning {
		return errs.NewValueIsInvalidErrorWithCause("amount", errors.New("must not be zero"))
	}
	if e.kind.IsCredit() == amount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s has the wrong sign for %s", amount, e.kind))
	}
	e.amount = amount
	return nil
}
