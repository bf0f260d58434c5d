package approval

import (
	"context"
	"errors"
	"strings"
	"time"

	approvaldomain "genealogy-app-go/internal/domain/approval"
	genealogydomain "genealogy-app-go/internal/domain/genealogy"
	roledomain "genealogy-app-go/internal/domain/role"
	rolerepo "genealogy-app-go/internal/repository/postgres/role"
	"gorm.io/gorm"
)

const requestsUnion = `SELECT id, 'join' AS request_type, family_id, applicant_user_id, applicant_name, relation_desc,
	NULL::bigint AS member_id, '' AS field_name, '' AS old_value, '' AS new_value,
	status, reviewer_id, created_at, reviewed_at
	FROM join_requests
UNION ALL
SELECT id, 'edit' AS request_type, family_id, applicant_user_id, '' AS applicant_name, '' AS relation_desc,
	member_id, field_name, old_value, new_value,
	status, reviewer_id, created_at, reviewed_at
	FROM edit_requests`

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(approvaldomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Roles() roledomain.Repository {
	return rolerepo.NewPostgres(r.db)
}

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID int64) (*genealogydomain.Genealogy, error) {
	var family genealogydomain.Genealogy
	if err := r.db.WithContext(ctx).Where("id = ?", familyID).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genealogydomain.ErrGenealogyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetMember(ctx context.Context, familyID, memberID int64) (*genealogydomain.Member, error) {
	var member genealogydomain.Member
	if err := r.db.WithContext(ctx).Where("family_id = ? AND id = ?", familyID, memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genealogydomain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) InsertMember(ctx context.Context, member *genealogydomain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *genealogydomain.Member) error {
	result := r.db.WithContext(ctx).
		Model(&genealogydomain.Member{}).
		Where("family_id = ? AND id = ?", member.FamilyID, member.ID).
		Updates(map[string]interface{}{
			"name":       member.Name,
			"avatar":     member.Avatar,
			"bio":        member.Bio,
			"birth_date": member.BirthDate,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return genealogydomain.ErrMemberNotFound
	}
	return nil
}

func (r *PostgresRepository) CreateJoinRequest(ctx context.Context, request *approvaldomain.JoinRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *PostgresRepository) CreateEditRequest(ctx context.Context, request *approvaldomain.EditRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *PostgresRepository) HasPendingJoinRequest(ctx context.Context, familyID, userID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&approvaldomain.JoinRequest{}).
		Where("family_id = ? AND applicant_user_id = ? AND status = ?", familyID, userID, approvaldomain.StatusPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) FindJoinRequest(ctx context.Context, familyID, requestID int64) (*approvaldomain.JoinRequest, error) {
	var request approvaldomain.JoinRequest
	if err := r.db.WithContext(ctx).Where("family_id = ? AND id = ?", familyID, requestID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approvaldomain.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *PostgresRepository) FindEditRequest(ctx context.Context, familyID, requestID int64) (*approvaldomain.EditRequest, error) {
	var request approvaldomain.EditRequest
	if err := r.db.WithContext(ctx).Where("family_id = ? AND id = ?", familyID, requestID).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approvaldomain.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *PostgresRepository) TransitionStatus(ctx context.Context, requestType approvaldomain.RequestType, requestID int64, review approvaldomain.Review) (int64, error) {
	table := "join_requests"
	if requestType == approvaldomain.TypeEdit {
		table = "edit_requests"
	}

	result := r.db.WithContext(ctx).
		Table(table).
		Where("id = ? AND status = ?", requestID, approvaldomain.StatusPending).
		Updates(map[string]interface{}{
			"status":      review.Status,
			"reviewer_id": review.ReviewerID,
			"reviewed_at": review.ReviewedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

type requestRow struct {
	ID              int64      `gorm:"column:id"`
	RequestType     string     `gorm:"column:request_type"`
	FamilyID        int64      `gorm:"column:family_id"`
	ApplicantUserID int64      `gorm:"column:applicant_user_id"`
	ApplicantName   string     `gorm:"column:applicant_name"`
	RelationDesc    string     `gorm:"column:relation_desc"`
	MemberID        *int64     `gorm:"column:member_id"`
	FieldName       string     `gorm:"column:field_name"`
	OldValue        string     `gorm:"column:old_value"`
	NewValue        string     `gorm:"column:new_value"`
	Status          string     `gorm:"column:status"`
	ReviewerID      *int64     `gorm:"column:reviewer_id"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	ReviewedAt      *time.Time `gorm:"column:reviewed_at"`
}

func (r *PostgresRepository) ListRequests(ctx context.Context, query approvaldomain.RequestQuery) ([]approvaldomain.RequestSummary, int64, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if query.FamilyID != nil {
		conditions = append(conditions, "family_id = ?")
		args = append(args, *query.FamilyID)
	}
	if query.Type != "" {
		conditions = append(conditions, "request_type = ?")
		args = append(args, string(query.Type))
	}
	if query.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(query.Status))
	}

	from := "FROM (" + requestsUnion + ") AS requests"
	if len(conditions) > 0 {
		from += " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.WithContext(ctx).Raw("SELECT count(*) "+from, args...).Scan(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []approvaldomain.RequestSummary{}, 0, nil
	}

	var rows []requestRow
	pageArgs := append(append([]interface{}{}, args...), query.Limit, query.Offset)
	if err := r.db.WithContext(ctx).
		Raw("SELECT * "+from+" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?", pageArgs...).
		Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	items := make([]approvaldomain.RequestSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, approvaldomain.RequestSummary{
			ID:              row.ID,
			Type:            approvaldomain.RequestType(row.RequestType),
			FamilyID:        row.FamilyID,
			ApplicantUserID: row.ApplicantUserID,
			ApplicantName:   row.ApplicantName,
			RelationDesc:    row.RelationDesc,
			MemberID:        row.MemberID,
			FieldName:       row.FieldName,
			OldValue:        row.OldValue,
			NewValue:        row.NewValue,
			Status:          approvaldomain.RequestStatus(row.Status),
			ReviewerID:      row.ReviewerID,
			CreatedAt:       row.CreatedAt,
			ReviewedAt:      row.ReviewedAt,
		})
	}
	return items, total, nil
}
