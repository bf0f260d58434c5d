package approvals

import (
	"time"

	approvaldomain "genealogy-app-go/internal/domain/approval"
)

type submittedResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type requestResponse struct {
	ID              int64      `json:"id"`
	Type            string     `json:"type"`
	FamilyID        int64      `json:"family_id"`
	ApplicantUserID int64      `json:"applicant_user_id"`
	ApplicantName   string     `json:"applicant_name,omitempty"`
	RelationDesc    string     `json:"relation_desc,omitempty"`
	MemberID        *int64     `json:"member_id,omitempty"`
	FieldName       string     `json:"field_name,omitempty"`
	OldValue        string     `json:"old_value,omitempty"`
	NewValue        string     `json:"new_value,omitempty"`
	Status          string     `json:"status"`
	ReviewerID      *int64     `json:"reviewer_id"`
	CreatedAt       time.Time  `json:"created_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
}

type pageResponse struct {
	Items []requestResponse `json:"items"`
	Page  int               `json:"page"`
	Size  int               `json:"size"`
	Total int64             `json:"total"`
}

func toPageResponse(page *approvaldomain.Page) pageResponse {
	items := make([]requestResponse, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, requestResponse{
			ID:              item.ID,
			Type:            string(item.Type),
			FamilyID:        item.FamilyID,
			ApplicantUserID: item.ApplicantUserID,
			ApplicantName:   item.ApplicantName,
			RelationDesc:    item.RelationDesc,
			MemberID:        item.MemberID,
			FieldName:       item.FieldName,
			OldValue:        item.OldValue,
			NewValue:        item.NewValue,
			Status:          string(item.Status),
			ReviewerID:      item.ReviewerID,
			CreatedAt:       item.CreatedAt,
			ReviewedAt:      item.ReviewedAt,
		})
	}
	return pageResponse{
		Items: items,
		Page:  page.Page,
		Size:  page.Size,
		Total: page.Total,
	}
}
