package approvals

import (
	"context"

	approvaldomain "genealogy-app-go/internal/domain/approval"
	"genealogy-app-go/internal/transport/httpserver/handler/common"
	"genealogy-app-go/pkg/logger"
)

type Service interface {
	ListRequests(ctx context.Context, filter approvaldomain.ListFilter) (*approvaldomain.Page, error)
	SubmitJoin(ctx context.Context, input approvaldomain.JoinInput) (int64, error)
	SubmitEdit(ctx context.Context, input approvaldomain.EditInput) (int64, error)
	Handle(ctx context.Context, input approvaldomain.HandleInput) error
	HandleAdmin(ctx context.Context, input approvaldomain.HandleAdminInput) error
}

type Handlers struct {
	approvals Service
	admins    common.AdminChecker
	validator *common.Validator
	log       logger.Logger
}

func New(approvals Service, admins common.AdminChecker, validator *common.Validator, log logger.Logger) *Handlers {
	return &Handlers{
		approvals: approvals,
		admins:    admins,
		validator: validator,
		log:       log,
	}
}
