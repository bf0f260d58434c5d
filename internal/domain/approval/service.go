package approval

import (
	"context"
	"errors"
	"strings"
	"time"

	"genealogy-app-go/internal/domain/errs"
	"genealogy-app-go/internal/domain/genealogy"
	"genealogy-app-go/internal/domain/role"
	"genealogy-app-go/pkg/logger"
)

type AdminChecker interface {
	IsAdminOf(ctx context.Context, userID, genealogyID int64) (bool, error)
}

// RoleLinker binds an approved applicant to their member row on the
// caller's transaction.
type RoleLinker interface {
	JoinAsMemberTx(ctx context.Context, tx role.Repository, userID, genealogyID, memberID int64) error
}

type TreeInvalidator interface {
	InvalidateTree(ctx context.Context, familyID int64)
}

// Recorder observes handled requests.
type Recorder interface {
	RequestSubmitted(requestType RequestType)
	RequestHandled(requestType RequestType, action Action)
}

type noopRecorder struct{}

func (noopRecorder) RequestSubmitted(RequestType) {}

func (noopRecorder) RequestHandled(RequestType, Action) {}

type Service struct {
	repo     Repository
	admins   AdminChecker
	links    RoleLinker
	trees    TreeInvalidator
	log      logger.Logger
	recorder Recorder
	now      func() time.Time
}

type Option func(*Service)

func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.recorder = recorder
		}
	}
}

func NewService(repo Repository, admins AdminChecker, links RoleLinker, trees TreeInvalidator, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		admins:   admins,
		links:    links,
		trees:    trees,
		log:      log,
		recorder: noopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListRequests(ctx context.Context, filter ListFilter) (*Page, error) {
	query := RequestQuery{FamilyID: filter.FamilyID}
	if filter.Type != "" {
		requestType, ok := parseRequestType(filter.Type)
		if !ok {
			return nil, errs.Invalid("unknown request type %q", filter.Type)
		}
		query.Type = requestType
	}
	if filter.Status != "" {
		status, ok := parseRequestStatus(filter.Status)
		if !ok {
			return nil, errs.Invalid("unknown request status %q", filter.Status)
		}
		query.Status = status
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.Size
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	query.Limit = size
	query.Offset = (page - 1) * size

	if filter.FamilyID != nil {
		if _, err := s.repo.GetFamily(ctx, *filter.FamilyID); err != nil {
			return nil, err
		}
	}

	items, total, err := s.repo.ListRequests(ctx, query)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []RequestSummary{}
	}

	return &Page{Items: items, Page: page, Size: size, Total: total}, nil
}

func (s *Service) SubmitJoin(ctx context.Context, input JoinInput) (int64, error) {
	name := strings.TrimSpace(input.ApplicantName)
	if name == "" {
		return 0, errs.Invalid("applicant name is required")
	}
	if input.ApplicantUserID <= 0 {
		return 0, errs.Invalid("applicant user id is required")
	}
	var gender genealogy.Gender
	if strings.TrimSpace(input.Gender) != "" {
		parsed, ok := genealogy.ParseGender(input.Gender)
		if !ok {
			return 0, errs.Invalid("gender must be male or female")
		}
		gender = parsed
	}

	if _, err := s.repo.GetFamily(ctx, input.FamilyID); err != nil {
		return 0, err
	}
	pending, err := s.repo.HasPendingJoinRequest(ctx, input.FamilyID, input.ApplicantUserID)
	if err != nil {
		return 0, err
	}
	if pending {
		return 0, ErrDuplicateJoinRequest
	}
	link, err := s.repo.Roles().GetLink(ctx, input.ApplicantUserID, input.FamilyID)
	if err != nil && !errors.Is(err, role.ErrLinkNotFound) {
		return 0, err
	}
	if link != nil && link.FamilyMemberID != nil {
		return 0, ErrAlreadyMember
	}

	request := JoinRequest{
		FamilyID:        input.FamilyID,
		ApplicantUserID: input.ApplicantUserID,
		ApplicantName:   name,
		RelationDesc:    strings.TrimSpace(input.RelationDesc),
		Gender:          gender,
		Status:          StatusPending,
	}
	if err := s.repo.CreateJoinRequest(ctx, &request); err != nil {
		return 0, err
	}

	s.recorder.RequestSubmitted(TypeJoin)
	s.log.Info("approvals.submit_join: request queued", "request_id", request.ID, "genealogy_id", input.FamilyID, "user_id", input.ApplicantUserID)
	return request.ID, nil
}

func (s *Service) SubmitEdit(ctx context.Context, input EditInput) (int64, error) {
	field, accessor, ok := parseFieldName(input.FieldName)
	if !ok {
		return 0, errs.Invalid("field %q cannot be edited", input.FieldName)
	}
	value := strings.TrimSpace(input.NewValue)
	if err := accessor.validate(value); err != nil {
		return 0, err
	}
	if input.ApplicantUserID <= 0 {
		return 0, errs.Invalid("applicant user id is required")
	}

	if _, err := s.repo.GetFamily(ctx, input.FamilyID); err != nil {
		return 0, err
	}
	member, err := s.repo.GetMember(ctx, input.FamilyID, input.MemberID)
	if err != nil {
		return 0, err
	}

	request := EditRequest{
		FamilyID:        input.FamilyID,
		MemberID:        member.ID,
		ApplicantUserID: input.ApplicantUserID,
		FieldName:       field,
		OldValue:        accessor.get(member),
		NewValue:        value,
		Status:          StatusPending,
	}
	if err := s.repo.CreateEditRequest(ctx, &request); err != nil {
		return 0, err
	}

	s.recorder.RequestSubmitted(TypeEdit)
	s.log.Info("approvals.submit_edit: request queued", "request_id", request.ID, "genealogy_id", input.FamilyID, "member_id", member.ID, "field", field)
	return request.ID, nil
}

// Handle approves or rejects a request on behalf of a genealogy admin or a
// super admin.
func (s *Service) Handle(ctx context.Context, input HandleInput) error {
	action, ok := ParseAction(input.Action)
	if !ok {
		return errs.Invalid("action must be approve or reject")
	}

	target, err := s.load(ctx, input.FamilyID, input.RequestID)
	if err != nil {
		return err
	}

	if !input.ActorSuperAdmin {
		admin, err := s.admins.IsAdminOf(ctx, input.ActorID, input.FamilyID)
		if err != nil {
			return err
		}
		if !admin {
			return ErrNotFamilyAdmin
		}
	}

	return s.apply(ctx, target, action, input.ActorID)
}

// HandleAdmin is Handle without the admin check. The system reviewer is
// recorded.
func (s *Service) HandleAdmin(ctx context.Context, input HandleAdminInput) error {
	action, ok := ParseAction(input.Action)
	if !ok {
		return errs.Invalid("action must be approve or reject")
	}

	target, err := s.load(ctx, input.FamilyID, input.RequestID)
	if err != nil {
		return err
	}

	return s.apply(ctx, target, action, SystemReviewerID)
}

type requestRef struct {
	join *JoinRequest
	edit *EditRequest
}

func (t requestRef) requestType() RequestType {
	if t.join != nil {
		return TypeJoin
	}
	return TypeEdit
}

func (t requestRef) id() int64 {
	if t.join != nil {
		return t.join.ID
	}
	return t.edit.ID
}

func (t requestRef) status() RequestStatus {
	if t.join != nil {
		return t.join.Status
	}
	return t.edit.Status
}

func (s *Service) load(ctx context.Context, familyID, requestID int64) (requestRef, error) {
	if _, err := s.repo.GetFamily(ctx, familyID); err != nil {
		return requestRef{}, err
	}

	join, err := s.repo.FindJoinRequest(ctx, familyID, requestID)
	if err == nil {
		return requestRef{join: join}, nil
	}
	if !errors.Is(err, ErrRequestNotFound) {
		return requestRef{}, err
	}

	edit, err := s.repo.FindEditRequest(ctx, familyID, requestID)
	if err != nil {
		return requestRef{}, err
	}
	return requestRef{edit: edit}, nil
}

func (s *Service) apply(ctx context.Context, target requestRef, action Action, reviewerID int64) error {
	if target.status() != StatusPending {
		return ErrRequestNotPending
	}

	review := Review{
		Status:     action.status(),
		ReviewerID: reviewerID,
		ReviewedAt: s.now().UTC(),
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		affected, err := tx.TransitionStatus(ctx, target.requestType(), target.id(), review)
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrRequestNotPending
		}
		if action == ActionReject {
			return nil
		}

		if target.join != nil {
			member, err := approveJoin(ctx, tx, target.join)
			if err != nil {
				return err
			}
			return s.links.JoinAsMemberTx(ctx, tx.Roles(), target.join.ApplicantUserID, target.join.FamilyID, member.ID)
		}
		return approveEdit(ctx, tx, target.edit)
	})
	if err != nil {
		return err
	}

	s.recorder.RequestHandled(target.requestType(), action)
	s.log.Info("approvals.handle: request handled",
		"request_id", target.id(),
		"type", target.requestType(),
		"action", action,
		"reviewer_id", reviewerID,
	)

	if action == ActionApprove {
		s.trees.InvalidateTree(ctx, familyOf(target))
	}
	return nil
}

func approveJoin(ctx context.Context, tx Repository, request *JoinRequest) (*genealogy.Member, error) {
	gender := request.Gender
	if gender == "" {
		gender = genealogy.GenderMale
	}
	applicant := request.ApplicantUserID

	member := genealogy.Member{
		FamilyID:     request.FamilyID,
		LinkedUserID: &applicant,
		Name:         request.ApplicantName,
		Gender:       gender,
		IsCreator:    false,
	}
	if err := tx.InsertMember(ctx, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func approveEdit(ctx context.Context, tx Repository, request *EditRequest) error {
	accessor, ok := editableFields[request.FieldName]
	if !ok {
		return errs.Invalid("field %q cannot be edited", request.FieldName)
	}

	member, err := tx.GetMember(ctx, request.FamilyID, request.MemberID)
	if err != nil {
		return err
	}
	if err := accessor.set(member, request.NewValue); err != nil {
		return err
	}
	return tx.UpdateMember(ctx, member)
}

func familyOf(target requestRef) int64 {
	if target.join != nil {
		return target.join.FamilyID
	}
	return target.edit.FamilyID
}
