package approvals

import (
	"net/http"
	"strings"

	approvaldomain "genealogy-app-go/internal/domain/approval"
	"genealogy-app-go/internal/transport/httpserver/handler/common"
)

type joinRequest struct {
	ApplicantName string `json:"applicant_name" validate:"max=100"`
	RelationDesc  string `json:"relation_desc" validate:"notblank,max=255"`
	Gender        string `json:"gender" validate:"omitempty,oneof=male female"`
}

type editRequest struct {
	FieldName string `json:"field_name" validate:"required"`
	NewValue  string `json:"new_value" validate:"max=1000"`
}

type handleRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

func (h *Handlers) SubmitJoin(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	familyID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req joinRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.validator.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	name := req.ApplicantName
	if strings.TrimSpace(name) == "" {
		name = actor.Name
	}

	id, err := h.approvals.SubmitJoin(r.Context(), approvaldomain.JoinInput{
		FamilyID:        familyID,
		ApplicantUserID: actor.UserID,
		ApplicantName:   name,
		RelationDesc:    req.RelationDesc,
		Gender:          req.Gender,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "approvals.submit_join", err, "genealogy_id", familyID, "user_id", actor.UserID)
		return
	}

	common.WriteJSON(w, http.StatusCreated, submittedResponse{ID: id, Status: string(approvaldomain.StatusPending)})
}

func (h *Handlers) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	familyID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	memberID, err := common.PathID(r, "member_id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req editRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.validator.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	id, err := h.approvals.SubmitEdit(r.Context(), approvaldomain.EditInput{
		FamilyID:        familyID,
		MemberID:        memberID,
		ApplicantUserID: actor.UserID,
		FieldName:       req.FieldName,
		NewValue:        req.NewValue,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "approvals.submit_edit", err, "genealogy_id", familyID, "member_id", memberID)
		return
	}

	common.WriteJSON(w, http.StatusCreated, submittedResponse{ID: id, Status: string(approvaldomain.StatusPending)})
}

func (h *Handlers) ListFamilyRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	familyID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	filter, err := listFilter(r)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	filter.FamilyID = &familyID

	if err := common.CheckFamilyAdmin(r.Context(), h.admins, actor, familyID); err != nil {
		common.WriteDomainError(w, h.log, "approvals.list", err, "genealogy_id", familyID, "user_id", actor.UserID)
		return
	}

	page, err := h.approvals.ListRequests(r.Context(), filter)
	if err != nil {
		common.WriteDomainError(w, h.log, "approvals.list", err, "genealogy_id", familyID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handlers) ListAllRequests(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	familyID, err := common.QueryInt64(r, "family_id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	filter.FamilyID = familyID

	page, err := h.approvals.ListRequests(r.Context(), filter)
	if err != nil {
		common.WriteDomainError(w, h.log, "admin.approvals.list", err)
		return
	}

	common.WriteJSON(w, http.StatusOK, toPageResponse(page))
}

func (h *Handlers) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	familyID, requestID, action, ok := h.handlePayload(w, r)
	if !ok {
		return
	}

	err := h.approvals.Handle(r.Context(), approvaldomain.HandleInput{
		RequestID:       requestID,
		FamilyID:        familyID,
		Action:          action,
		ActorID:         actor.UserID,
		ActorSuperAdmin: actor.SuperAdmin,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "approvals.handle", err, "genealogy_id", familyID, "request_id", requestID, "user_id", actor.UserID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	familyID, requestID, action, ok := h.handlePayload(w, r)
	if !ok {
		return
	}

	err := h.approvals.HandleAdmin(r.Context(), approvaldomain.HandleAdminInput{
		RequestID: requestID,
		FamilyID:  familyID,
		Action:    action,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "admin.approvals.handle", err, "genealogy_id", familyID, "request_id", requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handlePayload(w http.ResponseWriter, r *http.Request) (int64, int64, string, bool) {
	familyID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return 0, 0, "", false
	}
	requestID, err := common.PathID(r, "request_id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return 0, 0, "", false
	}

	var req handleRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return 0, 0, "", false
	}
	if err := h.validator.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return 0, 0, "", false
	}
	return familyID, requestID, req.Action, true
}

func listFilter(r *http.Request) (approvaldomain.ListFilter, error) {
	page, err := common.QueryInt(r, "page", 1)
	if err != nil {
		return approvaldomain.ListFilter{}, err
	}
	size, err := common.QueryInt(r, "size", approvaldomain.DefaultPageSize)
	if err != nil {
		return approvaldomain.ListFilter{}, err
	}
	query := r.URL.Query()
	return approvaldomain.ListFilter{
		Type:   strings.TrimSpace(query.Get("type")),
		Status: strings.TrimSpace(query.Get("status")),
		Page:   page,
		Size:   size,
	}, nil
}
