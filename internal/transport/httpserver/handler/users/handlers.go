package users

import (
	"context"
	"net/http"
	"strings"
	"time"

	userdomain "genealogy-app-go/internal/domain/user"
	"genealogy-app-go/internal/transport/httpserver/handler/common"
	"genealogy-app-go/pkg/logger"
)

type Service interface {
	ListUsers(ctx context.Context, filter userdomain.ListFilter) (*userdomain.Page, error)
	SetDisabled(ctx context.Context, id int64, disabled bool) (*userdomain.User, error)
}

// Handlers serve the platform console's user management.
type Handlers struct {
	users Service
	log   logger.Logger
}

func New(users Service, log logger.Logger) *Handlers {
	return &Handlers{users: users, log: log}
}

type userResponse struct {
	ID         int64     `json:"id"`
	Nickname   string    `json:"nickname"`
	Avatar     string    `json:"avatar"`
	GlobalRole string    `json:"global_role"`
	Disabled   bool      `json:"disabled"`
	CreatedAt  time.Time `json:"created_at"`
}

type pageResponse struct {
	Items []userResponse `json:"items"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
	Total int64          `json:"total"`
}

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := common.QueryInt(r, "page", 1)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	size, err := common.QueryInt(r, "size", userdomain.DefaultPageSize)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	query := r.URL.Query()

	result, err := h.users.ListUsers(r.Context(), userdomain.ListFilter{
		Nickname:   strings.TrimSpace(query.Get("nickname")),
		GlobalRole: strings.TrimSpace(query.Get("global_role")),
		Page:       page,
		Size:       size,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "admin.users.list", err)
		return
	}

	items := make([]userResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toUserResponse(&result.Items[i]))
	}
	common.WriteJSON(w, http.StatusOK, pageResponse{Items: items, Page: result.Page, Size: result.Size, Total: result.Total})
}

func (h *Handlers) DisableUser(w http.ResponseWriter, r *http.Request) {
	h.setDisabled(w, r, true)
}

func (h *Handlers) EnableUser(w http.ResponseWriter, r *http.Request) {
	h.setDisabled(w, r, false)
}

func (h *Handlers) setDisabled(w http.ResponseWriter, r *http.Request, disabled bool) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	id, err := common.PathID(r, "user_id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	user, err := h.users.SetDisabled(r.Context(), id, disabled)
	if err != nil {
		common.WriteDomainError(w, h.log, "admin.users.set_disabled", err, "target_user_id", id)
		return
	}

	h.log.Info("admin.users.set_disabled: user updated", "target_user_id", id, "disabled", disabled, "by", actor.UserID)
	common.WriteJSON(w, http.StatusOK, toUserResponse(user))
}

func toUserResponse(u *userdomain.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Nickname:   u.Nickname,
		Avatar:     u.Avatar,
		GlobalRole: string(u.GlobalRole),
		Disabled:   u.Disabled,
		CreatedAt:  u.CreatedAt,
	}
}
