package handler

import (
	"genealogy-app-go/internal/transport/httpserver/handler/approvals"
	"genealogy-app-go/internal/transport/httpserver/handler/common"
	"genealogy-app-go/internal/transport/httpserver/handler/genealogies"
	"genealogy-app-go/internal/transport/httpserver/handler/roles"
	"genealogy-app-go/internal/transport/httpserver/handler/users"
	"genealogy-app-go/pkg/logger"
)

type Handlers struct {
	Common      *common.Handlers
	Genealogies *genealogies.Handlers
	Approvals   *approvals.Handlers
	Roles       *roles.Handlers
	Users       *users.Handlers
}

// UserService reads and manages platform users.
type UserService interface {
	common.UserReader
	users.Service
}

func New(userSvc UserService, genealogySvc genealogies.Service, approvalSvc approvals.Service, roleSvc roles.Service, log logger.Logger) *Handlers {
	validator := common.NewValidator()
	return &Handlers{
		Common:      common.New(userSvc, log),
		Genealogies: genealogies.New(genealogySvc, roleSvc, validator, log),
		Approvals:   approvals.New(approvalSvc, roleSvc, validator, log),
		Roles:       roles.New(roleSvc, validator, log),
		Users:       users.New(userSvc, log),
	}
}
