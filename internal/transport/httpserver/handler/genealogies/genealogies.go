package genealogies

import (
	"net/http"
	"strings"

	genealogydomain "genealogy-app-go/internal/domain/genealogy"
	"genealogy-app-go/internal/transport/httpserver/handler/common"
	"github.com/go-chi/chi/v5"
)

type createGenealogyRequest struct {
	Name        string `json:"name" validate:"notblank,max=100"`
	Avatar      string `json:"avatar" validate:"max=512"`
	Description string `json:"description" validate:"max=1000"`
	CreatorName string `json:"creator_name" validate:"max=100"`
}

type updateGenealogyRequest struct {
	Name        *string `json:"name" validate:"omitempty,notblank,max=100"`
	Avatar      *string `json:"avatar" validate:"omitempty,max=512"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

func (h *Handlers) CreateGenealogy(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}

	var req createGenealogyRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.validator.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	creatorName := req.CreatorName
	if strings.TrimSpace(creatorName) == "" {
		creatorName = actor.Name
	}

	created, err := h.genealogies.CreateGenealogy(r.Context(), genealogydomain.CreateInput{
		CreatorID:   actor.UserID,
		CreatorName: creatorName,
		Name:        req.Name,
		Avatar:      req.Avatar,
		Description: req.Description,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "genealogies.create", err, "user_id", actor.UserID)
		return
	}

	common.WriteJSON(w, http.StatusCreated, toGenealogyResponse(created))
}

func (h *Handlers) GetGenealogy(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	found, err := h.genealogies.GetGenealogy(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, h.log, "genealogies.get", err, "genealogy_id", id)
		return
	}

	common.WriteJSON(w, http.StatusOK, toGenealogyResponse(found))
}

func (h *Handlers) UpdateGenealogy(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	id, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req updateGenealogyRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.validator.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := common.CheckFamilyAdmin(r.Context(), h.admins, actor, id); err != nil {
		common.WriteDomainError(w, h.log, "genealogies.update", err, "genealogy_id", id, "user_id", actor.UserID)
		return
	}

	updated, err := h.genealogies.UpdateGenealogy(r.Context(), genealogydomain.UpdateInput{
		ID:          id,
		Name:        req.Name,
		Avatar:      req.Avatar,
		Description: req.Description,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "genealogies.update", err, "genealogy_id", id)
		return
	}

	common.WriteJSON(w, http.StatusOK, toGenealogyResponse(updated))
}

func (h *Handlers) DeleteGenealogy(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	id, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := common.CheckFamilyAdmin(r.Context(), h.admins, actor, id); err != nil {
		common.WriteDomainError(w, h.log, "genealogies.delete", err, "genealogy_id", id, "user_id", actor.UserID)
		return
	}

	if err := h.genealogies.DeleteGenealogy(r.Context(), id); err != nil {
		common.WriteDomainError(w, h.log, "genealogies.delete", err, "genealogy_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetGenealogyByCode(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(chi.URLParam(r, "code"))
	found, err := h.genealogies.GetGenealogyByCode(r.Context(), code)
	if err != nil {
		common.WriteDomainError(w, h.log, "genealogies.get_by_code", err, "code", code)
		return
	}

	common.WriteJSON(w, http.StatusOK, toGenealogyResponse(found))
}

func (h *Handlers) GetTree(w http.ResponseWriter, r *http.Request) {
	id, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	roots, err := h.genealogies.GetTree(r.Context(), id)
	if err != nil {
		common.WriteDomainError(w, h.log, "genealogies.tree", err, "genealogy_id", id)
		return
	}

	common.WriteJSON(w, http.StatusOK, toTreeResponse(roots))
}
