package genealogy

import (
	"context"

	"genealogy-app-go/internal/domain/role"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// Roles returns the link store bound to the same connection or transaction.
	Roles() role.Repository
	CreateGenealogy(ctx context.Context, genealogy *Genealogy) error
	GetGenealogy(ctx context.Context, id int64) (*Genealogy, error)
	GetGenealogyByCode(ctx context.Context, code string) (*Genealogy, error)
	IsCodeTaken(ctx context.Context, code string) (bool, error)
	UpdateGenealogy(ctx context.Context, genealogy *Genealogy) error
	DeleteGenealogy(ctx context.Context, id int64) error
	ListGenealogies(ctx context.Context, limit, offset int) ([]Genealogy, int64, error)
	ListMembers(ctx context.Context, familyID int64) ([]Member, error)
	ListAllMembers(ctx context.Context, familyID *int64, name string, limit, offset int) ([]Member, int64, error)
	GetMember(ctx context.Context, familyID, memberID int64) (*Member, error)
	CreateMember(ctx context.Context, member *Member) error
	UpdateMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, familyID, memberID int64) error
	ListEdges(ctx context.Context, familyID int64) ([]Edge, error)
	CreateEdge(ctx context.Context, edge *Edge) error
	DeleteEdgesByMember(ctx context.Context, familyID, memberID int64) error
}
