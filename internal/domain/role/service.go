package role

import (
	"context"
	"errors"
	"time"

	"genealogy-app-go/internal/domain/errs"
	userdomain "genealogy-app-go/internal/domain/user"
	"genealogy-app-go/pkg/logger"
)

// Service keeps a user's global role in line with the ADMIN links they hold:
// GENEALOGY_ADMIN exactly when at least one ADMIN link exists. SUPER_ADMIN is
// never changed here.
type Service struct {
	repo Repository
	log  logger.Logger
	now  func() time.Time
}

func NewService(repo Repository, log logger.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// CreateLink upserts the (user, genealogy) link and reconciles the global role.
func (s *Service) CreateLink(ctx context.Context, input LinkInput) error {
	role, err := validateLink(input)
	if err != nil {
		return err
	}

	if err := s.repo.Transaction(ctx, func(tx Repository) error {
		return s.createLink(ctx, tx, input, role)
	}); err != nil {
		return err
	}

	s.log.Info("roles.create_link: link saved", "user_id", input.UserID, "genealogy_id", input.GenealogyID, "role", role)
	return nil
}

// CreateLinkTx is CreateLink running on a repository bound to the caller's
// transaction.
func (s *Service) CreateLinkTx(ctx context.Context, tx Repository, input LinkInput) error {
	role, err := validateLink(input)
	if err != nil {
		return err
	}
	return s.createLink(ctx, tx, input, role)
}

// JoinAsMemberTx records that the user joined the genealogy as memberID.
// A missing link is created as MEMBER. An existing link keeps its role and
// only gets the member id when it has none.
func (s *Service) JoinAsMemberTx(ctx context.Context, tx Repository, userID, genealogyID, memberID int64) error {
	if userID <= 0 || genealogyID <= 0 || memberID <= 0 {
		return errs.Invalid("user id, genealogy id and member id are required")
	}

	existing, err := tx.GetLink(ctx, userID, genealogyID)
	if errors.Is(err, ErrLinkNotFound) {
		link := Link{
			UserID:         userID,
			GenealogyID:    genealogyID,
			Role:           LinkMember,
			FamilyMemberID: &memberID,
			JoinedAt:       s.now().UTC(),
		}
		if err := tx.InsertLink(ctx, &link); err != nil {
			return err
		}
		return s.reconcile(ctx, tx, userID, LinkMember)
	}
	if err != nil {
		return err
	}

	if existing.FamilyMemberID != nil {
		return nil
	}
	existing.FamilyMemberID = &memberID
	return tx.UpdateLink(ctx, existing)
}

// DetachGenealogyTx removes every link to the genealogy and lowers the global
// role of admins left without any ADMIN link.
func (s *Service) DetachGenealogyTx(ctx context.Context, tx Repository, genealogyID int64) error {
	links, err := tx.ListLinksByGenealogy(ctx, genealogyID)
	if err != nil {
		return err
	}
	if err := tx.DeleteLinksByGenealogy(ctx, genealogyID); err != nil {
		return err
	}
	for _, link := range links {
		if link.Role != LinkAdmin {
			continue
		}
		if _, err := s.tryDowngrade(ctx, tx, link.UserID); err != nil {
			return err
		}
	}
	return nil
}

func validateLink(input LinkInput) (LinkRole, error) {
	if input.UserID <= 0 || input.GenealogyID <= 0 {
		return "", errs.Invalid("user id and genealogy id are required")
	}
	role, ok := ParseLinkRole(input.Role)
	if !ok {
		return "", errs.Invalid("unknown genealogy role %q", input.Role)
	}
	return role, nil
}

func (s *Service) createLink(ctx context.Context, tx Repository, input LinkInput, role LinkRole) error {
	existing, err := tx.GetLink(ctx, input.UserID, input.GenealogyID)
	if errors.Is(err, ErrLinkNotFound) {
		link := Link{
			UserID:         input.UserID,
			GenealogyID:    input.GenealogyID,
			Role:           role,
			FamilyMemberID: input.MemberID,
			JoinedAt:       s.now().UTC(),
			CreatedBy:      input.CreatedBy,
		}
		if err := tx.InsertLink(ctx, &link); err != nil {
			return err
		}
		return s.reconcile(ctx, tx, input.UserID, role)
	}
	if err != nil {
		return err
	}

	if existing.Role == LinkAdmin && role == LinkMember {
		sole, err := isSoleAdmin(ctx, tx, input.UserID, input.GenealogyID)
		if err != nil {
			return err
		}
		if sole {
			return ErrSoleAdmin
		}
	}

	existing.Role = role
	if input.MemberID != nil {
		existing.FamilyMemberID = input.MemberID
	}
	if err := tx.UpdateLink(ctx, existing); err != nil {
		return err
	}
	return s.reconcile(ctx, tx, input.UserID, role)
}

// SetRole changes the user's role inside one genealogy. Demoting the only
// admin fails with ErrSoleAdmin.
func (s *Service) SetRole(ctx context.Context, userID, genealogyID int64, value string) error {
	if userID <= 0 || genealogyID <= 0 {
		return errs.Invalid("user id and genealogy id are required")
	}
	role, ok := ParseLinkRole(value)
	if !ok {
		return errs.Invalid("unknown genealogy role %q", value)
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		exists, err := tx.GenealogyExists(ctx, genealogyID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrGenealogyNotFound
		}

		if role == LinkMember {
			sole, err := isSoleAdmin(ctx, tx, userID, genealogyID)
			if err != nil {
				return err
			}
			if sole {
				return ErrSoleAdmin
			}
		}

		existing, err := tx.GetLink(ctx, userID, genealogyID)
		switch {
		case errors.Is(err, ErrLinkNotFound):
			link := Link{
				UserID:      userID,
				GenealogyID: genealogyID,
				Role:        role,
				JoinedAt:    s.now().UTC(),
			}
			if err := tx.InsertLink(ctx, &link); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			existing.Role = role
			if err := tx.UpdateLink(ctx, existing); err != nil {
				return err
			}
		}

		return s.reconcile(ctx, tx, userID, role)
	})
	if err != nil {
		return err
	}

	s.log.Info("roles.set_role: role updated", "user_id", userID, "genealogy_id", genealogyID, "role", role)
	return nil
}

func (s *Service) TryUpgrade(ctx context.Context, userID int64) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := s.tryUpgrade(ctx, tx, userID)
		return err
	})
}

func (s *Service) TryDowngrade(ctx context.Context, userID int64) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		_, err := s.tryDowngrade(ctx, tx, userID)
		return err
	})
}

func (s *Service) IsAdminOf(ctx context.Context, userID, genealogyID int64) (bool, error) {
	return isAdmin(ctx, s.repo, userID, genealogyID)
}

func (s *Service) IsSoleAdminOf(ctx context.Context, userID, genealogyID int64) (bool, error) {
	return isSoleAdmin(ctx, s.repo, userID, genealogyID)
}

func (s *Service) AdminCount(ctx context.Context, genealogyID int64) (int64, error) {
	return s.repo.CountAdminLinksByGenealogy(ctx, genealogyID)
}

func (s *Service) ListUserGenealogies(ctx context.Context, userID int64) ([]UserGenealogy, error) {
	result, err := s.repo.ListUserGenealogies(ctx, userID)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = []UserGenealogy{}
	}
	return result, nil
}

func (s *Service) reconcile(ctx context.Context, repo Repository, userID int64, role LinkRole) error {
	if role == LinkAdmin {
		_, err := s.tryUpgrade(ctx, repo, userID)
		return err
	}
	_, err := s.tryDowngrade(ctx, repo, userID)
	return err
}

func (s *Service) tryUpgrade(ctx context.Context, repo Repository, userID int64) (bool, error) {
	user, err := repo.GetUser(ctx, userID)
	if errors.Is(err, userdomain.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if user.GlobalRole != userdomain.RoleNormalUser {
		return false, nil
	}

	count, err := repo.CountAdminLinksByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}

	if err := repo.UpdateGlobalRole(ctx, userID, userdomain.RoleGenealogyAdmin); err != nil {
		return false, err
	}
	s.log.Info("roles.upgrade: global role raised", "user_id", userID, "role", userdomain.RoleGenealogyAdmin)
	return true, nil
}

func (s *Service) tryDowngrade(ctx context.Context, repo Repository, userID int64) (bool, error) {
	user, err := repo.GetUser(ctx, userID)
	if errors.Is(err, userdomain.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if user.GlobalRole != userdomain.RoleGenealogyAdmin {
		return false, nil
	}

	count, err := repo.CountAdminLinksByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if err := repo.UpdateGlobalRole(ctx, userID, userdomain.RoleNormalUser); err != nil {
		return false, err
	}
	s.log.Info("roles.downgrade: global role lowered", "user_id", userID, "role", userdomain.RoleNormalUser)
	return true, nil
}

func isAdmin(ctx context.Context, repo Repository, userID, genealogyID int64) (bool, error) {
	link, err := repo.GetLink(ctx, userID, genealogyID)
	if errors.Is(err, ErrLinkNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return link.Role == LinkAdmin, nil
}

func isSoleAdmin(ctx context.Context, repo Repository, userID, genealogyID int64) (bool, error) {
	count, err := repo.CountAdminLinksByGenealogy(ctx, genealogyID)
	if err != nil {
		return false, err
	}
	if count != 1 {
		return false, nil
	}
	return isAdmin(ctx, repo, userID, genealogyID)
}
