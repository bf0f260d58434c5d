package common

import (
	"net/http"

	"genealogy-app-go/internal/transport/httpserver/middleware"
)

type authMeResponse struct {
	ID         int64  `json:"id"`
	Nickname   string `json:"nickname"`
	Avatar     string `json:"avatar"`
	GlobalRole string `json:"global_role"`
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	user, err := h.users.GetUser(r.Context(), actor.UserID)
	if err != nil {
		WriteDomainError(w, h.log, "auth.me", err, "user_id", actor.UserID)
		return
	}

	writeJSON(w, http.StatusOK, authMeResponse{
		ID:         user.ID,
		Nickname:   user.Nickname,
		Avatar:     user.Avatar,
		GlobalRole: string(user.GlobalRole),
	})
}
