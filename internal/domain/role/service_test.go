package role

import (
	"context"
	"errors"
	"testing"

	"genealogy-app-go/internal/domain/errs"
	userdomain "genealogy-app-go/internal/domain/user"
	"genealogy-app-go/pkg/logger"
)

type linkKey struct {
	userID      int64
	genealogyID int64
}

type fakeRoleRepo struct {
	users  map[int64]userdomain.User
	links  map[linkKey]Link
	nextID int64
	absent map[int64]bool
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{
		users:  make(map[int64]userdomain.User),
		links:  make(map[linkKey]Link),
		absent: make(map[int64]bool),
	}
}

func (r *fakeRoleRepo) addUser(id int64, role userdomain.GlobalRole) {
	r.users[id] = userdomain.User{ID: id, GlobalRole: role}
}

func (r *fakeRoleRepo) addLink(userID, genealogyID int64, role LinkRole) {
	r.nextID++
	r.links[linkKey{userID, genealogyID}] = Link{ID: r.nextID, UserID: userID, GenealogyID: genealogyID, Role: role}
}

func (r *fakeRoleRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	users := make(map[int64]userdomain.User, len(r.users))
	for k, v := range r.users {
		users[k] = v
	}
	links := make(map[linkKey]Link, len(r.links))
	for k, v := range r.links {
		links[k] = v
	}
	nextID := r.nextID

	if err := fn(r); err != nil {
		r.users, r.links, r.nextID = users, links, nextID
		return err
	}
	return nil
}

func (r *fakeRoleRepo) GetUser(ctx context.Context, userID int64) (*userdomain.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeRoleRepo) UpdateGlobalRole(ctx context.Context, userID int64, role userdomain.GlobalRole) error {
	user, ok := r.users[userID]
	if !ok {
		return userdomain.ErrUserNotFound
	}
	user.GlobalRole = role
	r.users[userID] = user
	return nil
}

func (r *fakeRoleRepo) GetLink(ctx context.Context, userID, genealogyID int64) (*Link, error) {
	link, ok := r.links[linkKey{userID, genealogyID}]
	if !ok {
		return nil, ErrLinkNotFound
	}
	return &link, nil
}

func (r *fakeRoleRepo) InsertLink(ctx context.Context, link *Link) error {
	r.nextID++
	link.ID = r.nextID
	r.links[linkKey{link.UserID, link.GenealogyID}] = *link
	return nil
}

func (r *fakeRoleRepo) UpdateLink(ctx context.Context, link *Link) error {
	r.links[linkKey{link.UserID, link.GenealogyID}] = *link
	return nil
}

func (r *fakeRoleRepo) CountAdminLinksByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	for key, link := range r.links {
		if key.userID == userID && link.Role == LinkAdmin {
			count++
		}
	}
	return count, nil
}

func (r *fakeRoleRepo) CountAdminLinksByGenealogy(ctx context.Context, genealogyID int64) (int64, error) {
	var count int64
	for key, link := range r.links {
		if key.genealogyID == genealogyID && link.Role == LinkAdmin {
			count++
		}
	}
	return count, nil
}

func (r *fakeRoleRepo) ListUserGenealogies(ctx context.Context, userID int64) ([]UserGenealogy, error) {
	var result []UserGenealogy
	for key, link := range r.links {
		if key.userID == userID {
			result = append(result, UserGenealogy{GenealogyID: key.genealogyID, Role: link.Role})
		}
	}
	return result, nil
}

func (r *fakeRoleRepo) ListLinksByGenealogy(ctx context.Context, genealogyID int64) ([]Link, error) {
	var result []Link
	for key, link := range r.links {
		if key.genealogyID == genealogyID {
			result = append(result, link)
		}
	}
	return result, nil
}

func (r *fakeRoleRepo) DeleteLinksByGenealogy(ctx context.Context, genealogyID int64) error {
	for key := range r.links {
		if key.genealogyID == genealogyID {
			delete(r.links, key)
		}
	}
	return nil
}

func (r *fakeRoleRepo) ClearFamilyMember(ctx context.Context, genealogyID, memberID int64) error {
	for key, link := range r.links {
		if key.genealogyID == genealogyID && link.FamilyMemberID != nil && *link.FamilyMemberID == memberID {
			link.FamilyMemberID = nil
			r.links[key] = link
		}
	}
	return nil
}

func (r *fakeRoleRepo) GenealogyExists(ctx context.Context, genealogyID int64) (bool, error) {
	return !r.absent[genealogyID], nil
}

func newTestService(repo *fakeRoleRepo) *Service {
	return NewService(repo, logger.Nop())
}

func globalRole(t *testing.T, repo *fakeRoleRepo, userID int64) userdomain.GlobalRole {
	t.Helper()
	user, ok := repo.users[userID]
	if !ok {
		t.Fatalf("user %d missing", userID)
	}
	return user.GlobalRole
}

func TestCreateLinkAdminUpgradesNormalUser(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(1, userdomain.RoleNormalUser)
	svc := newTestService(repo)

	err := svc.CreateLink(context.Background(), LinkInput{UserID: 1, GenealogyID: 10, Role: "ADMIN"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := globalRole(t, repo, 1); got != userdomain.RoleGenealogyAdmin {
		t.Fatalf("expected GENEALOGY_ADMIN, got %s", got)
	}
}

func TestCreateLinkMemberKeepsNormalUser(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(1, userdomain.RoleNormalUser)
	svc := newTestService(repo)

	if err := svc.CreateLink(context.Background(), LinkInput{UserID: 1, GenealogyID: 10, Role: "member"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := globalRole(t, repo, 1); got != userdomain.RoleNormalUser {
		t.Fatalf("expected NORMAL_USER, got %s", got)
	}
	if repo.links[linkKey{1, 10}].Role != LinkMember {
		t.Fatalf("expected MEMBER link, got %+v", repo.links[linkKey{1, 10}])
	}
}

func TestCreateLinkIsUpsert(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(1, userdomain.RoleNormalUser)
	repo.addLink(1, 10, LinkMember)
	svc := newTestService(repo)

	if err := svc.CreateLink(context.Background(), LinkInput{UserID: 1, GenealogyID: 10, Role: "ADMIN"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.links) != 1 {
		t.Fatalf("expected one link, got %d", len(repo.links))
	}
	if got := globalRole(t, repo, 1); got != userdomain.RoleGenealogyAdmin {
		t.Fatalf("expected GENEALOGY_ADMIN, got %s", got)
	}
}

func TestCreateLinkRejectsUnknownRole(t *testing.T) {
	svc := newTestService(newFakeRoleRepo())
	err := svc.CreateLink(context.Background(), LinkInput{UserID: 1, GenealogyID: 10, Role: "OWNER"})
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSetRoleSoleAdminConflict(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(5, userdomain.RoleGenealogyAdmin)
	repo.addLink(5, 10, LinkAdmin)
	svc := newTestService(repo)

	err := svc.SetRole(context.Background(), 5, 10, "MEMBER")
	if !errors.Is(err, ErrSoleAdmin) || !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("expected ErrSoleAdmin conflict, got %v", err)
	}
	if repo.links[linkKey{5, 10}].Role != LinkAdmin {
		t.Fatalf("expected link unchanged, got %s", repo.links[linkKey{5, 10}].Role)
	}
	if got := globalRole(t, repo, 5); got != userdomain.RoleGenealogyAdmin {
		t.Fatalf("expected GENEALOGY_ADMIN unchanged, got %s", got)
	}
}

func TestSetRoleDemotionDowngradesWhenLastAdminLinkGone(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(5, userdomain.RoleGenealogyAdmin)
	repo.addUser(6, userdomain.RoleGenealogyAdmin)
	repo.addLink(5, 10, LinkAdmin)
	repo.addLink(6, 10, LinkAdmin)
	svc := newTestService(repo)

	if err := svc.SetRole(context.Background(), 5, 10, "MEMBER"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := globalRole(t, repo, 5); got != userdomain.RoleNormalUser {
		t.Fatalf("expected NORMAL_USER, got %s", got)
	}
	if got := globalRole(t, repo, 6); got != userdomain.RoleGenealogyAdmin {
		t.Fatalf("expected other admin untouched, got %s", got)
	}
}

func TestSetRoleKeepsGlobalAdminWithOtherAdminLinks(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(5, userdomain.RoleGenealogyAdmin)
	repo.addUser(6, userdomain.RoleGenealogyAdmin)
	repo.addLink(5, 10, LinkAdmin)
	repo.addLink(6, 10, LinkAdmin)
	repo.addLink(5, 20, LinkAdmin)
	svc := newTestService(repo)

	if err := svc.SetRole(context.Background(), 5, 10, "MEMBER"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := globalRole(t, repo, 5); got != userdomain.RoleGenealogyAdmin {
		t.Fatalf("expected GENEALOGY_ADMIN kept, got %s", got)
	}
}

func TestSetRoleCreatesMissingLink(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(3, userdomain.RoleNormalUser)
	svc := newTestService(repo)

	if err := svc.SetRole(context.Background(), 3, 10, "ADMIN"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.links[linkKey{3, 10}].Role != LinkAdmin {
		t.Fatalf("expected ADMIN link created")
	}
	if got := globalRole(t, repo, 3); got != userdomain.RoleGenealogyAdmin {
		t.Fatalf("expected GENEALOGY_ADMIN, got %s", got)
	}
}

func TestSuperAdminNeverChanges(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(9, userdomain.RoleSuperAdmin)
	svc := newTestService(repo)
	ctx := context.Background()

	if err := svc.CreateLink(ctx, LinkInput{UserID: 9, GenealogyID: 10, Role: "ADMIN"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.CreateLink(ctx, LinkInput{UserID: 9, GenealogyID: 20, Role: "ADMIN"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.SetRole(ctx, 9, 20, "MEMBER"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := svc.TryDowngrade(ctx, 9); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := globalRole(t, repo, 9); got != userdomain.RoleSuperAdmin {
		t.Fatalf("expected SUPER_ADMIN, got %s", got)
	}
}

func TestGlobalRoleFollowsAdminLinksAfterSequence(t *testing.T) {
	repo := newFakeRoleRepo()
	for id := int64(1); id <= 3; id++ {
		repo.addUser(id, userdomain.RoleNormalUser)
	}
	svc := newTestService(repo)
	ctx := context.Background()

	steps := []struct {
		user, genealogy int64
		role            string
	}{
		{1, 10, "ADMIN"},
		{2, 10, "ADMIN"},
		{3, 10, "MEMBER"},
		{1, 20, "ADMIN"},
		{2, 10, "MEMBER"},
		{3, 20, "ADMIN"},
		{1, 20, "MEMBER"},
	}
	for _, step := range steps {
		if err := svc.SetRole(ctx, step.user, step.genealogy, step.role); err != nil {
			t.Fatalf("set role %+v: %v", step, err)
		}
	}

	for id := int64(1); id <= 3; id++ {
		count, _ := repo.CountAdminLinksByUser(ctx, id)
		want := userdomain.RoleNormalUser
		if count > 0 {
			want = userdomain.RoleGenealogyAdmin
		}
		if got := globalRole(t, repo, id); got != want {
			t.Fatalf("user %d: expected %s with %d admin links, got %s", id, want, count, got)
		}
	}
}

func TestTryUpgradeIgnoresMissingUser(t *testing.T) {
	svc := newTestService(newFakeRoleRepo())
	if err := svc.TryUpgrade(context.Background(), 42); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestIsSoleAdminOf(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addLink(1, 10, LinkAdmin)
	repo.addLink(2, 10, LinkMember)
	svc := newTestService(repo)
	ctx := context.Background()

	sole, err := svc.IsSoleAdminOf(ctx, 1, 10)
	if err != nil || !sole {
		t.Fatalf("expected sole admin, got %v %v", sole, err)
	}
	sole, _ = svc.IsSoleAdminOf(ctx, 2, 10)
	if sole {
		t.Fatalf("expected member not to be sole admin")
	}
	admin, _ := svc.IsAdminOf(ctx, 2, 10)
	if admin {
		t.Fatalf("expected member not to be admin")
	}
}

func TestSetRoleUnknownGenealogy(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(3, userdomain.RoleNormalUser)
	repo.absent[99] = true
	svc := newTestService(repo)

	err := svc.SetRole(context.Background(), 3, 99, "ADMIN")
	if !errors.Is(err, ErrGenealogyNotFound) || !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected ErrGenealogyNotFound, got %v", err)
	}
	if len(repo.links) != 0 {
		t.Fatalf("expected no link written, got %d", len(repo.links))
	}
	if got := globalRole(t, repo, 3); got != userdomain.RoleNormalUser {
		t.Fatalf("expected NORMAL_USER, got %s", got)
	}
}

func TestJoinAsMemberKeepsAdminRole(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(5, userdomain.RoleGenealogyAdmin)
	repo.addLink(5, 10, LinkAdmin)
	svc := newTestService(repo)

	if err := svc.JoinAsMemberTx(context.Background(), repo, 5, 10, 42); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	link := repo.links[linkKey{5, 10}]
	if link.Role != LinkAdmin {
		t.Fatalf("expected ADMIN kept, got %s", link.Role)
	}
	if link.FamilyMemberID == nil || *link.FamilyMemberID != 42 {
		t.Fatalf("expected member 42 bound, got %v", link.FamilyMemberID)
	}
	if got := globalRole(t, repo, 5); got != userdomain.RoleGenealogyAdmin {
		t.Fatalf("expected GENEALOGY_ADMIN, got %s", got)
	}
}

func TestJoinAsMemberKeepsBoundMember(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(5, userdomain.RoleNormalUser)
	repo.addLink(5, 10, LinkMember)
	bound := int64(7)
	link := repo.links[linkKey{5, 10}]
	link.FamilyMemberID = &bound
	repo.links[linkKey{5, 10}] = link
	svc := newTestService(repo)

	if err := svc.JoinAsMemberTx(context.Background(), repo, 5, 10, 42); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got := repo.links[linkKey{5, 10}].FamilyMemberID; got == nil || *got != 7 {
		t.Fatalf("expected member 7 kept, got %v", got)
	}
}

func TestJoinAsMemberCreatesMemberLink(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(5, userdomain.RoleNormalUser)
	svc := newTestService(repo)

	if err := svc.JoinAsMemberTx(context.Background(), repo, 5, 10, 42); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	link, ok := repo.links[linkKey{5, 10}]
	if !ok || link.Role != LinkMember || link.FamilyMemberID == nil || *link.FamilyMemberID != 42 {
		t.Fatalf("expected MEMBER link bound to 42, got %+v", link)
	}
}

func TestDetachGenealogyDowngradesOrphanedAdmins(t *testing.T) {
	repo := newFakeRoleRepo()
	repo.addUser(5, userdomain.RoleGenealogyAdmin)
	repo.addUser(6, userdomain.RoleGenealogyAdmin)
	repo.addUser(7, userdomain.RoleNormalUser)
	repo.addLink(5, 10, LinkAdmin)
	repo.addLink(6, 10, LinkAdmin)
	repo.addLink(6, 20, LinkAdmin)
	repo.addLink(7, 10, LinkMember)
	svc := newTestService(repo)

	if err := svc.DetachGenealogyTx(context.Background(), repo, 10); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(repo.links) != 1 {
		t.Fatalf("expected only the other genealogy's link, got %d", len(repo.links))
	}
	if got := globalRole(t, repo, 5); got != userdomain.RoleNormalUser {
		t.Fatalf("expected NORMAL_USER, got %s", got)
	}
	if got := globalRole(t, repo, 6); got != userdomain.RoleGenealogyAdmin {
		t.Fatalf("expected GENEALOGY_ADMIN kept, got %s", got)
	}
}
