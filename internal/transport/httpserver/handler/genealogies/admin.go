package genealogies

import (
	"net/http"
	"strings"

	genealogydomain "genealogy-app-go/internal/domain/genealogy"
	"genealogy-app-go/internal/transport/httpserver/handler/common"
)

type genealogyPageResponse struct {
	Items []genealogyResponse `json:"items"`
	Page  int                 `json:"page"`
	Size  int                 `json:"size"`
	Total int64               `json:"total"`
}

type memberPageResponse struct {
	Items []memberResponse `json:"items"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
	Total int64            `json:"total"`
}

func (h *Handlers) ListAllGenealogies(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.genealogies.ListGenealogies(r.Context(), page, size)
	if err != nil {
		common.WriteDomainError(w, h.log, "admin.genealogies.list", err)
		return
	}

	items := make([]genealogyResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toGenealogyResponse(&result.Items[i]))
	}
	common.WriteJSON(w, http.StatusOK, genealogyPageResponse{Items: items, Page: result.Page, Size: result.Size, Total: result.Total})
}

func (h *Handlers) ListAllMembers(w http.ResponseWriter, r *http.Request) {
	page, size, err := pageParams(r)
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	familyID, err := common.QueryInt64(r, "family_id")
	if err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.genealogies.ListAllMembers(r.Context(), genealogydomain.MemberFilter{
		FamilyID: familyID,
		Name:     strings.TrimSpace(r.URL.Query().Get("name")),
		Page:     page,
		Size:     size,
	})
	if err != nil {
		common.WriteDomainError(w, h.log, "admin.members.list", err)
		return
	}

	items := make([]memberResponse, 0, len(result.Items))
	for _, member := range result.Items {
		items = append(items, toMemberResponse(member))
	}
	common.WriteJSON(w, http.StatusOK, memberPageResponse{Items: items, Page: result.Page, Size: result.Size, Total: result.Total})
}

func pageParams(r *http.Request) (int, int, error) {
	page, err := common.QueryInt(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	size, err := common.QueryInt(r, "size", genealogydomain.DefaultPageSize)
	if err != nil {
		return 0, 0, err
	}
	return page, size, nil
}
