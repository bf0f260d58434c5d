package role

import (
	"context"

	userdomain "genealogy-app-go/internal/domain/user"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetUser(ctx context.Context, userID int64) (*userdomain.User, error)
	UpdateGlobalRole(ctx context.Context, userID int64, role userdomain.GlobalRole) error
	GetLink(ctx context.Context, userID, genealogyID int64) (*Link, error)
	InsertLink(ctx context.Context, link *Link) error
	UpdateLink(ctx context.Context, link *Link) error
	CountAdminLinksByUser(ctx context.Context, userID int64) (int64, error)
	CountAdminLinksByGenealogy(ctx context.Context, genealogyID int64) (int64, error)
	ListUserGenealogies(ctx context.Context, userID int64) ([]UserGenealogy, error)
	ListLinksByGenealogy(ctx context.Context, genealogyID int64) ([]Link, error)
	DeleteLinksByGenealogy(ctx context.Context, genealogyID int64) error
	ClearFamilyMember(ctx context.Context, genealogyID, memberID int64) error
	GenealogyExists(ctx context.Context, genealogyID int64) (bool, error)
}
