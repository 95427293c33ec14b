package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Notifier delivers user-facing notifications. Delivery is best effort; callers log
// failures and never roll back for them.
type Notifier interface {
	Notify(ctx context.Context, userID kernel.UUID, n Notification) error
}
