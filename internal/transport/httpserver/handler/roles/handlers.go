package roles

import (
	"context"
	"net/http"
	"time"

	roledomain "genealogy-app-go/internal/domain/role"
	"genealogy-app-go/internal/transport/httpserver/handler/common"
	"genealogy-app-go/pkg/logger"
)

type Service interface {
	IsAdminOf(ctx context.Context, userID, genealogyID int64) (bool, error)
	SetRole(ctx context.Context, userID, genealogyID int64, value string) error
	ListUserGenealogies(ctx context.Context, userID int64) ([]roledomain.UserGenealogy, error)
}

type Handlers struct {
	roles     Service
	validator *common.Validator
	log       logger.Logger
}

func New(roles Service, validator *common.Validator, log logger.Logger) *Handlers {
	return &Handlers{
		roles:     roles,
		validator: validator,
		log:       log,
	}
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN MEMBER admin member"`
}

type userGenealogyResponse struct {
	GenealogyID    int64     `json:"genealogy_id"`
	GenealogyName  string    `json:"genealogy_name"`
	Role           string    `json:"role"`
	FamilyMemberID *int64    `json:"family_member_id"`
	JoinedAt       time.Time `json:"joined_at"`
}

func (h *Handlers) SetRole(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	genealogyID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	userID, err := common.PathID(r, "user_id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req setRoleRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.validator.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := common.CheckFamilyAdmin(r.Context(), h.roles, actor, genealogyID); err != nil {
		common.WriteDomainError(w, h.log, "roles.set", err, "genealogy_id", genealogyID, "user_id", actor.UserID)
		return
	}

	if err := h.roles.SetRole(r.Context(), userID, genealogyID, req.Role); err != nil {
		common.WriteDomainError(w, h.log, "roles.set", err, "genealogy_id", genealogyID, "target_user_id", userID)
		return
	}

	h.log.Info("roles.set: role updated", "genealogy_id", genealogyID, "target_user_id", userID, "role", req.Role, "by", actor.UserID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListMyGenealogies(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}

	links, err := h.roles.ListUserGenealogies(r.Context(), actor.UserID)
	if err != nil {
		common.WriteDomainError(w, h.log, "roles.list_mine", err, "user_id", actor.UserID)
		return
	}

	resp := make([]userGenealogyResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, userGenealogyResponse{
			GenealogyID:    link.GenealogyID,
			GenealogyName:  link.GenealogyName,
			Role:           string(link.Role),
			FamilyMemberID: link.FamilyMemberID,
			JoinedAt:       link.JoinedAt,
		})
	}
	common.WriteJSON(w, http.StatusOK, resp)
}
