package store

import (
	"context"

	"medintake/internal/model"
)

// SessionStore holds live sessions keyed by id. Get must return
// model.ErrSessionNotFound for unknown ids. Implementations return
// independent copies: mutations on a returned session are not visible
// until Put.
type SessionStore interface {
	Get(ctx context.Context, id string) (*model.Session, error)
	Put(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id string) error
}
