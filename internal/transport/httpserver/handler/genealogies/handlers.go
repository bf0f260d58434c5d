package genealogies

import (
	"context"

	genealogydomain "genealogy-app-go/internal/domain/genealogy"
	"genealogy-app-go/internal/transport/httpserver/handler/common"
	"genealogy-app-go/pkg/logger"
)

type Service interface {
	CreateGenealogy(ctx context.Context, input genealogydomain.CreateInput) (*genealogydomain.Genealogy, error)
	GetGenealogy(ctx context.Context, id int64) (*genealogydomain.Genealogy, error)
	GetGenealogyByCode(ctx context.Context, code string) (*genealogydomain.Genealogy, error)
	ListMembers(ctx context.Context, familyID int64) ([]genealogydomain.Member, error)
	GetMember(ctx context.Context, familyID, memberID int64) (*genealogydomain.Member, error)
	AddMember(ctx context.Context, input genealogydomain.AddMemberInput) (*genealogydomain.Member, error)
	AddRelationship(ctx context.Context, input genealogydomain.EdgeInput) (*genealogydomain.Edge, error)
	DeleteMember(ctx context.Context, familyID, memberID int64) error
	GetTree(ctx context.Context, familyID int64) ([]*genealogydomain.TreeNode, error)
	UpdateGenealogy(ctx context.Context, input genealogydomain.UpdateInput) (*genealogydomain.Genealogy, error)
	DeleteGenealogy(ctx context.Context, id int64) error
	UpdateMember(ctx context.Context, input genealogydomain.UpdateMemberInput) (*genealogydomain.Member, error)
	ListGenealogies(ctx context.Context, page, size int) (*genealogydomain.GenealogyPage, error)
	ListAllMembers(ctx context.Context, filter genealogydomain.MemberFilter) (*genealogydomain.MemberPage, error)
}

type Handlers struct {
	genealogies Service
	admins      common.AdminChecker
	validator   *common.Validator
	log         logger.Logger
}

func New(genealogies Service, admins common.AdminChecker, validator *common.Validator, log logger.Logger) *Handlers {
	return &Handlers{
		genealogies: genealogies,
		admins:      admins,
		validator:   validator,
		log:         log,
	}
}
