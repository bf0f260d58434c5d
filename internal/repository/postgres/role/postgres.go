package role

import (
	"context"
	"errors"
	"time"

	roledomain "genealogy-app-go/internal/domain/role"
	userdomain "genealogy-app-go/internal/domain/user"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(roledomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetUser(ctx context.Context, userID int64) (*userdomain.User, error) {
	var user userdomain.User
	if err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userdomain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *PostgresRepository) UpdateGlobalRole(ctx context.Context, userID int64, role userdomain.GlobalRole) error {
	return r.db.WithContext(ctx).
		Model(&userdomain.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"global_role": role,
			"updated_at":  time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) GetLink(ctx context.Context, userID, genealogyID int64) (*roledomain.Link, error) {
	var link roledomain.Link
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND genealogy_id = ?", userID, genealogyID).
		First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, roledomain.ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *PostgresRepository) InsertLink(ctx context.Context, link *roledomain.Link) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *PostgresRepository) UpdateLink(ctx context.Context, link *roledomain.Link) error {
	return r.db.WithContext(ctx).
		Model(&roledomain.Link{}).
		Where("id = ?", link.ID).
		Updates(map[string]interface{}{
			"role":             link.Role,
			"family_member_id": link.FamilyMemberID,
			"updated_at":       time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) CountAdminLinksByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&roledomain.Link{}).
		Where("user_id = ? AND role = ?", userID, roledomain.LinkAdmin).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) CountAdminLinksByGenealogy(ctx context.Context, genealogyID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&roledomain.Link{}).
		Where("genealogy_id = ? AND role = ?", genealogyID, roledomain.LinkAdmin).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) ListUserGenealogies(ctx context.Context, userID int64) ([]roledomain.UserGenealogy, error) {
	type linkRow struct {
		GenealogyID    int64     `gorm:"column:genealogy_id"`
		GenealogyName  string    `gorm:"column:genealogy_name"`
		Role           string    `gorm:"column:role"`
		FamilyMemberID *int64    `gorm:"column:family_member_id"`
		JoinedAt       time.Time `gorm:"column:joined_at"`
	}

	var rows []linkRow
	if err := r.db.WithContext(ctx).
		Table("user_genealogies").
		Select("user_genealogies.genealogy_id, genealogies.name AS genealogy_name, user_genealogies.role, user_genealogies.family_member_id, user_genealogies.joined_at").
		Joins("join genealogies on genealogies.id = user_genealogies.genealogy_id").
		Where("user_genealogies.user_id = ?", userID).
		Order("user_genealogies.joined_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]roledomain.UserGenealogy, 0, len(rows))
	for _, row := range rows {
		result = append(result, roledomain.UserGenealogy{
			GenealogyID:    row.GenealogyID,
			GenealogyName:  row.GenealogyName,
			Role:           roledomain.LinkRole(row.Role),
			FamilyMemberID: row.FamilyMemberID,
			JoinedAt:       row.JoinedAt,
		})
	}
	return result, nil
}

func (r *PostgresRepository) ListLinksByGenealogy(ctx context.Context, genealogyID int64) ([]roledomain.Link, error) {
	var links []roledomain.Link
	if err := r.db.WithContext(ctx).
		Where("genealogy_id = ?", genealogyID).
		Order("id asc").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *PostgresRepository) DeleteLinksByGenealogy(ctx context.Context, genealogyID int64) error {
	return r.db.WithContext(ctx).
		Where("genealogy_id = ?", genealogyID).
		Delete(&roledomain.Link{}).Error
}

func (r *PostgresRepository) ClearFamilyMember(ctx context.Context, genealogyID, memberID int64) error {
	return r.db.WithContext(ctx).
		Model(&roledomain.Link{}).
		Where("genealogy_id = ? AND family_member_id = ?", genealogyID, memberID).
		Updates(map[string]interface{}{
			"family_member_id": nil,
			"updated_at":       time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) GenealogyExists(ctx context.Context, genealogyID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Table("genealogies").
		Where("id = ?", genealogyID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
