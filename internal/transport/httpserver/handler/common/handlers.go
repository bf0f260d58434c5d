package common

import (
	"context"
	"net/http"

	userdomain "genealogy-app-go/internal/domain/user"
	"genealogy-app-go/pkg/logger"
)

type UserReader interface {
	GetUser(ctx context.Context, id int64) (*userdomain.User, error)
}

type Handlers struct {
	users UserReader
	log   logger.Logger
}

func New(users UserReader, log logger.Logger) *Handlers {
	return &Handlers{
		users: users,
		log:   log,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
