package genealogy

import (
	"context"
	"errors"
	"time"

	genealogydomain "genealogy-app-go/internal/domain/genealogy"
	roledomain "genealogy-app-go/internal/domain/role"
	rolerepo "genealogy-app-go/internal/repository/postgres/role"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(genealogydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Roles() roledomain.Repository {
	return rolerepo.NewPostgres(r.db)
}

func (r *PostgresRepository) CreateGenealogy(ctx context.Context, genealogy *genealogydomain.Genealogy) error {
	return r.db.WithContext(ctx).Create(genealogy).Error
}

func (r *PostgresRepository) GetGenealogy(ctx context.Context, id int64) (*genealogydomain.Genealogy, error) {
	var genealogy genealogydomain.Genealogy
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&genealogy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genealogydomain.ErrGenealogyNotFound
		}
		return nil, err
	}
	return &genealogy, nil
}

func (r *PostgresRepository) GetGenealogyByCode(ctx context.Context, code string) (*genealogydomain.Genealogy, error) {
	var genealogy genealogydomain.Genealogy
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&genealogy).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, genealogydomain.ErrGenealogyNotFound
		}
		return nil, err
	}
	return &genealogy, nil
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&genealogydomain.Genealogy{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, familyID int64) ([]genealogydomain.Member, error) {
	var members []genealogydomain.Member
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("id asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
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

func (r *PostgresRepository) CreateMember(ctx context.Context, member *genealogydomain.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, familyID, memberID int64) error {
	return r.db.WithContext(ctx).Delete(&genealogydomain.Member{}, "family_id = ? AND id = ?", familyID, memberID).Error
}

func (r *PostgresRepository) ListEdges(ctx context.Context, familyID int64) ([]genealogydomain.Edge, error) {
	var edges []genealogydomain.Edge
	if err := r.db.WithContext(ctx).
		Where("family_id = ?", familyID).
		Order("id asc").
		Find(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

func (r *PostgresRepository) CreateEdge(ctx context.Context, edge *genealogydomain.Edge) error {
	return r.db.WithContext(ctx).Create(edge).Error
}

func (r *PostgresRepository) DeleteEdgesByMember(ctx context.Context, familyID, memberID int64) error {
	return r.db.WithContext(ctx).
		Where("family_id = ? AND (from_member_id = ? OR to_member_id = ?)", familyID, memberID, memberID).
		Delete(&genealogydomain.Edge{}).Error
}

func (r *PostgresRepository) UpdateGenealogy(ctx context.Context, genealogy *genealogydomain.Genealogy) error {
	result := r.db.WithContext(ctx).
		Model(&genealogydomain.Genealogy{}).
		Where("id = ?", genealogy.ID).
		Updates(map[string]interface{}{
			"name":        genealogy.Name,
			"avatar":      genealogy.Avatar,
			"description": genealogy.Description,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return genealogydomain.ErrGenealogyNotFound
	}
	return nil
}

// DeleteGenealogy relies on ON DELETE CASCADE for members, edges and requests.
func (r *PostgresRepository) DeleteGenealogy(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&genealogydomain.Genealogy{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return genealogydomain.ErrGenealogyNotFound
	}
	return nil
}

func (r *PostgresRepository) ListGenealogies(ctx context.Context, limit, offset int) ([]genealogydomain.Genealogy, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&genealogydomain.Genealogy{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []genealogydomain.Genealogy{}, 0, nil
	}

	var genealogies []genealogydomain.Genealogy
	if err := r.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&genealogies).Error; err != nil {
		return nil, 0, err
	}
	return genealogies, total, nil
}

func (r *PostgresRepository) ListAllMembers(ctx context.Context, familyID *int64, name string, limit, offset int) ([]genealogydomain.Member, int64, error) {
	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&genealogydomain.Member{})
		if familyID != nil {
			query = query.Where("family_id = ?", *familyID)
		}
		if name != "" {
			query = query.Where("name ILIKE ?", "%"+name+"%")
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []genealogydomain.Member{}, 0, nil
	}

	var members []genealogydomain.Member
	if err := scoped().
		Order("id asc").
		Limit(limit).
		Offset(offset).
		Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *genealogydomain.Member) error {
	result := r.db.WithContext(ctx).
		Model(&genealogydomain.Member{}).
		Where("family_id = ? AND id = ?", member.FamilyID, member.ID).
		Updates(map[string]interface{}{
			"name":       member.Name,
			"gender":     member.Gender,
			"avatar":     member.Avatar,
			"birth_date": member.BirthDate,
			"bio":        member.Bio,
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
