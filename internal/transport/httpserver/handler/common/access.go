package common

import (
	"context"
	"fmt"
	"net/http"

	"genealogy-app-go/internal/domain/errs"
	"genealogy-app-go/internal/transport/httpserver/middleware"
)

var ErrFamilyAdminRequired = fmt.Errorf("genealogy admin required: %w", errs.ErrForbidden)

type AdminChecker interface {
	IsAdminOf(ctx context.Context, userID, genealogyID int64) (bool, error)
}

// RequireActor returns the request's actor or answers 401.
func RequireActor(w http.ResponseWriter, r *http.Request) (middleware.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return middleware.Actor{}, false
	}
	return actor, true
}

// CheckFamilyAdmin passes super admins and admins of the genealogy.
func CheckFamilyAdmin(ctx context.Context, admins AdminChecker, actor middleware.Actor, genealogyID int64) error {
	if actor.SuperAdmin {
		return nil
	}
	ok, err := admins.IsAdminOf(ctx, actor.UserID, genealogyID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrFamilyAdminRequired
	}
	return nil
}
