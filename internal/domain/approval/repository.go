package approval

import (
	"context"

	"genealogy-app-go/internal/domain/genealogy"
	"genealogy-app-go/internal/domain/role"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// Roles returns the link store bound to the same connection or transaction.
	Roles() role.Repository
	GetFamily(ctx context.Context, familyID int64) (*genealogy.Genealogy, error)
	GetMember(ctx context.Context, familyID, memberID int64) (*genealogy.Member, error)
	InsertMember(ctx context.Context, member *genealogy.Member) error
	UpdateMember(ctx context.Context, member *genealogy.Member) error
	CreateJoinRequest(ctx context.Context, request *JoinRequest) error
	CreateEditRequest(ctx context.Context, request *EditRequest) error
	HasPendingJoinRequest(ctx context.Context, familyID, userID int64) (bool, error)
	FindJoinRequest(ctx context.Context, familyID, requestID int64) (*JoinRequest, error)
	FindEditRequest(ctx context.Context, familyID, requestID int64) (*EditRequest, error)
	// TransitionStatus moves a pending request to review.Status and reports
	// how many rows changed. Zero means the request was no longer pending.
	TransitionStatus(ctx context.Context, requestType RequestType, requestID int64, review Review) (int64, error)
	ListRequests(ctx context.Context, query RequestQuery) ([]RequestSummary, int64, error)
}
