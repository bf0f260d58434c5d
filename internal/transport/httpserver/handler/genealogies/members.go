package genealogies

import (
	"net/http"
	"strings"
	"time"

	genealogydomain "genealogy-app-go/internal/domain/genealogy"
	"genealogy-app-go/internal/transport/httpserver/handler/common"
)

type addMemberRequest struct {
	Name         string `json:"name" validate:"notblank,max=100"`
	Gender       string `json:"gender" validate:"required,oneof=male female"`
	Avatar       string `json:"avatar" validate:"max=512"`
	BirthDate    string `json:"birth_date" validate:"date"`
	Bio          string `json:"bio" validate:"max=1000"`
	LinkedUserID *int64 `json:"linked_user_id" validate:"omitempty,gt=0"`
	ParentID     *int64 `json:"parent_id" validate:"omitempty,gt=0"`
	SpouseID     *int64 `json:"spouse_id" validate:"omitempty,gt=0"`
}

type updateMemberRequest struct {
	Name      *string `json:"name" validate:"omitempty,notblank,max=100"`
	Gender    *string `json:"gender" validate:"omitempty,oneof=male female"`
	Avatar    *string `json:"avatar" validate:"omitempty,max=512"`
	BirthDate *string `json:"birth_date" validate:"omitempty,notblank,date"`
	Bio       *string `json:"bio" validate:"omitempty,max=1000"`
}

type addRelationshipRequest struct {
	FromMemberID int64  `json:"from_member_id" validate:"gt=0"`
	ToMemberID   int64  `json:"to_member_id" validate:"gt=0"`
	Type         string `json:"type" validate:"required,oneof=father_son mother_son husband_wife sibling"`
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	familyID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	members, err := h.genealogies.ListMembers(r.Context(), familyID)
	if err != nil {
		common.WriteDomainError(w, h.log, "members.list", err, "genealogy_id", familyID)
		return
	}

	resp := make([]memberResponse, 0, len(members))
	for _, member := range members {
		resp = append(resp, toMemberResponse(member))
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	familyID, memberID, ok := memberPath(w, r)
	if !ok {
		return
	}

	member, err := h.genealogies.GetMember(r.Context(), familyID, memberID)
	if err != nil {
		common.WriteDomainError(w, h.log, "members.get", err, "genealogy_id", familyID, "member_id", memberID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) AddMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	familyID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req addMemberRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.validator.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := common.CheckFamilyAdmin(r.Context(), h.admins, actor, familyID); err != nil {
		common.WriteDomainError(w, h.log, "members.add", err, "genealogy_id", familyID, "user_id", actor.UserID)
		return
	}

	member, err := h.genealogies.AddMember(r.Context(), genealogydomain.AddMemberInput{
		FamilyID:     familyID,
		LinkedUserID: req.LinkedUserID,
		Name:         req.Name,
		Gender:       req.Gender,
		Avatar:       req.Avatar,
		BirthDate:    parseDate(req.BirthDate),
		Bio:          req.Bio,
		ParentID:     req.ParentID,
		SpouseID:     req.SpouseID,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "members.add", err, "genealogy_id", familyID)
		return
	}

	common.WriteJSON(w, http.StatusCreated, toMemberResponse(*member))
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	familyID, memberID, ok := memberPath(w, r)
	if !ok {
		return
	}

	var req updateMemberRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.validator.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := common.CheckFamilyAdmin(r.Context(), h.admins, actor, familyID); err != nil {
		common.WriteDomainError(w, h.log, "members.update", err, "genealogy_id", familyID, "user_id", actor.UserID)
		return
	}

	input := genealogydomain.UpdateMemberInput{
		FamilyID: familyID,
		MemberID: memberID,
		Name:     req.Name,
		Gender:   req.Gender,
		Avatar:   req.Avatar,
		Bio:      req.Bio,
	}
	if req.BirthDate != nil {
		input.BirthDate = parseDate(*req.BirthDate)
	}

	member, err := h.genealogies.UpdateMember(r.Context(), input)
	if err != nil {
		common.WriteDomainError(w, h.log, "members.update", err, "genealogy_id", familyID, "member_id", memberID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	familyID, memberID, ok := memberPath(w, r)
	if !ok {
		return
	}

	if err := common.CheckFamilyAdmin(r.Context(), h.admins, actor, familyID); err != nil {
		common.WriteDomainError(w, h.log, "members.delete", err, "genealogy_id", familyID, "user_id", actor.UserID)
		return
	}

	if err := h.genealogies.DeleteMember(r.Context(), familyID, memberID); err != nil {
		common.WriteDomainError(w, h.log, "members.delete", err, "genealogy_id", familyID, "member_id", memberID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) AddRelationship(w http.ResponseWriter, r *http.Request) {
	actor, ok := common.RequireActor(w, r)
	if !ok {
		return
	}
	familyID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var req addRelationshipRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if err := h.validator.Validate(req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := common.CheckFamilyAdmin(r.Context(), h.admins, actor, familyID); err != nil {
		common.WriteDomainError(w, h.log, "relationships.add", err, "genealogy_id", familyID, "user_id", actor.UserID)
		return
	}

	edge, err := h.genealogies.AddRelationship(r.Context(), genealogydomain.EdgeInput{
		FamilyID:     familyID,
		FromMemberID: req.FromMemberID,
		ToMemberID:   req.ToMemberID,
		Type:         req.Type,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "relationships.add", err, "genealogy_id", familyID)
		return
	}

	common.WriteJSON(w, http.StatusCreated, toEdgeResponse(edge))
}

func memberPath(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	familyID, err := common.PathID(r, "id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return 0, 0, false
	}
	memberID, err := common.PathID(r, "member_id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return 0, 0, false
	}
	return familyID, memberID, true
}

// parseDate reads an already validated YYYY-MM-DD value. Blank means unset.
func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &parsed
}
