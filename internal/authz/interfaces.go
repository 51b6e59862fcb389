package authz

import (
	"context"
	"time"
)

// AdminDirectory resolves console operators by email
type AdminDirectory interface {
	GetByEmail(ctx context.Context, email string) (*Admin, error)
	RecordLogin(ctx context.Context, email string, at time.Time) error
}
