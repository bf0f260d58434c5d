package genealogy

import (
	"context"
	"strings"
	"sync"
	"time"

	"genealogy-app-go/internal/domain/errs"
	"genealogy-app-go/internal/domain/role"
	"genealogy-app-go/pkg/logger"
)

const (
	defaultSnapshotTTL = 5 * time.Minute
	defaultCreatorName = "Creator"
)

// RoleLinker binds users to genealogies with a per-genealogy role. Both
// methods run on the caller's transaction.
type RoleLinker interface {
	CreateLinkTx(ctx context.Context, tx role.Repository, input role.LinkInput) error
	DetachGenealogyTx(ctx context.Context, tx role.Repository, genealogyID int64) error
}

type Service struct {
	repo         Repository
	roles        RoleLinker
	log          logger.Logger
	cache        SnapshotCache
	cacheTTL     time.Duration
	generateCode func() (string, error)
	versions     *treeVersions
}

type Option func(*Service)

func WithSnapshotCache(cache SnapshotCache, ttl time.Duration) Option {
	return func(s *Service) {
		if cache == nil {
			return
		}
		s.cache = cache
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

func WithCodeGenerator(generate func() (string, error)) Option {
	return func(s *Service) {
		if generate != nil {
			s.generateCode = generate
		}
	}
}

func NewService(repo Repository, roles RoleLinker, log logger.Logger, opts ...Option) *Service {
	s := &Service{
		repo:         repo,
		roles:        roles,
		log:          log,
		cache:        noopCache{},
		cacheTTL:     defaultSnapshotTTL,
		generateCode: generateCode,
		versions:     newTreeVersions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateGenealogy(ctx context.Context, input CreateInput) (*Genealogy, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errs.Invalid("name is required")
	}
	if input.CreatorID <= 0 {
		return nil, errs.Invalid("creator id is required")
	}
	creatorName := strings.TrimSpace(input.CreatorName)
	if creatorName == "" {
		creatorName = defaultCreatorName
	}

	var (
		result  Genealogy
		creator Member
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		code, err := generateUniqueCode(ctx, tx, s.generateCode)
		if err != nil {
			return err
		}

		genealogy := Genealogy{
			Name:        name,
			Code:        code,
			Avatar:      strings.TrimSpace(input.Avatar),
			Description: strings.TrimSpace(input.Description),
			CreatorID:   input.CreatorID,
		}
		if err := tx.CreateGenealogy(ctx, &genealogy); err != nil {
			return err
		}

		creatorID := input.CreatorID
		creator = Member{
			FamilyID:     genealogy.ID,
			LinkedUserID: &creatorID,
			Name:         creatorName,
			Gender:       GenderMale,
			IsCreator:    true,
		}
		if err := tx.CreateMember(ctx, &creator); err != nil {
			return err
		}

		memberID := creator.ID
		createdBy := input.CreatorID
		if err := s.roles.CreateLinkTx(ctx, tx.Roles(), role.LinkInput{
			UserID:      input.CreatorID,
			GenealogyID: genealogy.ID,
			Role:        string(role.LinkAdmin),
			MemberID:    &memberID,
			CreatedBy:   &createdBy,
		}); err != nil {
			return err
		}

		result = genealogy
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("genealogy.create: genealogy created", "genealogy_id", result.ID, "creator_id", input.CreatorID)
	return &result, nil
}

func (s *Service) GetGenealogy(ctx context.Context, id int64) (*Genealogy, error) {
	return s.repo.GetGenealogy(ctx, id)
}

func (s *Service) GetGenealogyByCode(ctx context.Context, code string) (*Genealogy, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errs.Invalid("code is required")
	}
	return s.repo.GetGenealogyByCode(ctx, code)
}

func (s *Service) ListMembers(ctx context.Context, familyID int64) ([]Member, error) {
	if _, err := s.repo.GetGenealogy(ctx, familyID); err != nil {
		return nil, err
	}
	members, err := s.repo.ListMembers(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []Member{}
	}
	return members, nil
}

func (s *Service) GetMember(ctx context.Context, familyID, memberID int64) (*Member, error) {
	return s.repo.GetMember(ctx, familyID, memberID)
}

func (s *Service) AddMember(ctx context.Context, input AddMemberInput) (*Member, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errs.Invalid("name is required")
	}
	gender, ok := ParseGender(input.Gender)
	if !ok {
		return nil, errs.Invalid("gender must be male or female")
	}

	var result Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetGenealogy(ctx, input.FamilyID); err != nil {
			return err
		}

		var parent, spouse *Member
		if input.ParentID != nil {
			found, err := tx.GetMember(ctx, input.FamilyID, *input.ParentID)
			if err != nil {
				return err
			}
			parent = found
		}
		if input.SpouseID != nil {
			found, err := tx.GetMember(ctx, input.FamilyID, *input.SpouseID)
			if err != nil {
				return err
			}
			spouse = found
		}

		member := Member{
			FamilyID:     input.FamilyID,
			LinkedUserID: input.LinkedUserID,
			Name:         name,
			Gender:       gender,
			Avatar:       strings.TrimSpace(input.Avatar),
			BirthDate:    input.BirthDate,
			Bio:          strings.TrimSpace(input.Bio),
		}
		if err := tx.CreateMember(ctx, &member); err != nil {
			return err
		}

		if parent != nil {
			edge := Edge{
				FamilyID:     input.FamilyID,
				FromMemberID: parent.ID,
				ToMemberID:   member.ID,
				Type:         parentRelation(parent.Gender),
			}
			if err := tx.CreateEdge(ctx, &edge); err != nil {
				return err
			}
		}
		if spouse != nil {
			edge := Edge{
				FamilyID:     input.FamilyID,
				FromMemberID: member.ID,
				ToMemberID:   spouse.ID,
				Type:         RelationHusbandWife,
			}
			if err := tx.CreateEdge(ctx, &edge); err != nil {
				return err
			}
		}

		result = member
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateTree(ctx, input.FamilyID)
	return &result, nil
}

func (s *Service) AddRelationship(ctx context.Context, input EdgeInput) (*Edge, error) {
	relation, ok := ParseRelationType(input.Type)
	if !ok {
		return nil, errs.Invalid("unknown relation type %q", input.Type)
	}
	if input.FromMemberID == input.ToMemberID {
		return nil, errs.Invalid("a member cannot be related to itself")
	}

	var result Edge
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetMember(ctx, input.FamilyID, input.FromMemberID); err != nil {
			return err
		}
		if _, err := tx.GetMember(ctx, input.FamilyID, input.ToMemberID); err != nil {
			return err
		}

		edge := Edge{
			FamilyID:     input.FamilyID,
			FromMemberID: input.FromMemberID,
			ToMemberID:   input.ToMemberID,
			Type:         relation,
		}
		if err := tx.CreateEdge(ctx, &edge); err != nil {
			return err
		}
		result = edge
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateTree(ctx, input.FamilyID)
	return &result, nil
}

func (s *Service) DeleteMember(ctx context.Context, familyID, memberID int64) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetMember(ctx, familyID, memberID)
		if err != nil {
			return err
		}
		if member.IsCreator {
			return ErrCannotDeleteCreator
		}
		if err := tx.DeleteEdgesByMember(ctx, familyID, memberID); err != nil {
			return err
		}
		if err := tx.Roles().ClearFamilyMember(ctx, familyID, memberID); err != nil {
			return err
		}
		return tx.DeleteMember(ctx, familyID, memberID)
	})
	if err != nil {
		return err
	}

	s.InvalidateTree(ctx, familyID)
	s.log.Info("genealogy.delete_member: member deleted", "genealogy_id", familyID, "member_id", memberID)
	return nil
}

func (s *Service) UpdateGenealogy(ctx context.Context, input UpdateInput) (*Genealogy, error) {
	if input.Name == nil && input.Avatar == nil && input.Description == nil {
		return nil, errs.Invalid("nothing to update")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, errs.Invalid("name cannot be empty")
	}

	var result Genealogy
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		genealogy, err := tx.GetGenealogy(ctx, input.ID)
		if err != nil {
			return err
		}
		if input.Name != nil {
			genealogy.Name = strings.TrimSpace(*input.Name)
		}
		if input.Avatar != nil {
			genealogy.Avatar = strings.TrimSpace(*input.Avatar)
		}
		if input.Description != nil {
			genealogy.Description = strings.TrimSpace(*input.Description)
		}
		if err := tx.UpdateGenealogy(ctx, genealogy); err != nil {
			return err
		}
		result = *genealogy
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("genealogy.update: genealogy updated", "genealogy_id", result.ID)
	return &result, nil
}

// DeleteGenealogy removes the genealogy with its members, edges and
// requests. Former admins without another ADMIN link lose GENEALOGY_ADMIN.
func (s *Service) DeleteGenealogy(ctx context.Context, id int64) error {
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetGenealogy(ctx, id); err != nil {
			return err
		}
		if err := s.roles.DetachGenealogyTx(ctx, tx.Roles(), id); err != nil {
			return err
		}
		return tx.DeleteGenealogy(ctx, id)
	})
	if err != nil {
		return err
	}

	s.InvalidateTree(ctx, id)
	s.log.Info("genealogy.delete: genealogy deleted", "genealogy_id", id)
	return nil
}

func (s *Service) ListGenealogies(ctx context.Context, page, size int) (*GenealogyPage, error) {
	page, size = normalizePage(page, size)
	items, total, err := s.repo.ListGenealogies(ctx, size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Genealogy{}
	}
	return &GenealogyPage{Items: items, Page: page, Size: size, Total: total}, nil
}

// ListAllMembers pages through members across families, optionally narrowed
// to one family or a name fragment.
func (s *Service) ListAllMembers(ctx context.Context, filter MemberFilter) (*MemberPage, error) {
	page, size := normalizePage(filter.Page, filter.Size)
	if filter.FamilyID != nil {
		if _, err := s.repo.GetGenealogy(ctx, *filter.FamilyID); err != nil {
			return nil, err
		}
	}

	items, total, err := s.repo.ListAllMembers(ctx, filter.FamilyID, strings.TrimSpace(filter.Name), size, (page-1)*size)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Member{}
	}
	return &MemberPage{Items: items, Page: page, Size: size, Total: total}, nil
}

// UpdateMember applies an admin's direct edit without going through the
// approval queue.
func (s *Service) UpdateMember(ctx context.Context, input UpdateMemberInput) (*Member, error) {
	if input.Name == nil && input.Gender == nil && input.Avatar == nil && input.BirthDate == nil && input.Bio == nil {
		return nil, errs.Invalid("nothing to update")
	}
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return nil, errs.Invalid("name cannot be empty")
	}
	var gender Gender
	if input.Gender != nil {
		parsed, ok := ParseGender(*input.Gender)
		if !ok {
			return nil, errs.Invalid("gender must be male or female")
		}
		gender = parsed
	}

	var result Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.GetMember(ctx, input.FamilyID, input.MemberID)
		if err != nil {
			return err
		}
		if input.Name != nil {
			member.Name = strings.TrimSpace(*input.Name)
		}
		if input.Gender != nil {
			member.Gender = gender
		}
		if input.Avatar != nil {
			member.Avatar = strings.TrimSpace(*input.Avatar)
		}
		if input.BirthDate != nil {
			birthDate := *input.BirthDate
			member.BirthDate = &birthDate
		}
		if input.Bio != nil {
			member.Bio = strings.TrimSpace(*input.Bio)
		}
		if err := tx.UpdateMember(ctx, member); err != nil {
			return err
		}
		result = *member
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.InvalidateTree(ctx, input.FamilyID)
	return &result, nil
}

func (s *Service) GetTree(ctx context.Context, familyID int64) ([]*TreeNode, error) {
	if _, err := s.repo.GetGenealogy(ctx, familyID); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshot(ctx, familyID)
	if err != nil {
		return nil, err
	}
	return BuildTree(snapshot.Members, snapshot.Edges), nil
}

// InvalidateTree drops the cached snapshot of a family. Reads that started
// before the call do not store their result.
func (s *Service) InvalidateTree(ctx context.Context, familyID int64) {
	s.versions.bump(familyID, func() {
		s.cache.Delete(ctx, familyID)
	})
}

func (s *Service) snapshot(ctx context.Context, familyID int64) (*Snapshot, error) {
	if cached, ok := s.cache.Get(ctx, familyID); ok {
		return cached, nil
	}

	version := s.versions.current(familyID)
	members, err := s.repo.ListMembers(ctx, familyID)
	if err != nil {
		return nil, err
	}
	edges, err := s.repo.ListEdges(ctx, familyID)
	if err != nil {
		return nil, err
	}

	snapshot := &Snapshot{Members: members, Edges: edges}
	s.versions.ifCurrent(familyID, version, func() {
		s.cache.Set(ctx, familyID, snapshot, s.cacheTTL)
	})
	return snapshot, nil
}

// treeVersions counts invalidations per family so a read can tell whether a
// write landed while it was loading.
type treeVersions struct {
	mu       sync.Mutex
	byFamily map[int64]uint64
}

func newTreeVersions() *treeVersions {
	return &treeVersions{byFamily: make(map[int64]uint64)}
}

func (v *treeVersions) current(familyID int64) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.byFamily[familyID]
}

func (v *treeVersions) bump(familyID int64, fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.byFamily[familyID]++
	fn()
}

func (v *treeVersions) ifCurrent(familyID int64, version uint64, fn func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.byFamily[familyID] == version {
		fn()
	}
}

func parentRelation(gender Gender) RelationType {
	if gender == GenderFemale {
		return RelationMotherSon
	}
	return RelationFatherSon
}
