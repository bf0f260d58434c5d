package genealogy

import "testing"

func member(id int64, name string, creator bool) Member {
	return Member{ID: id, FamilyID: 1, Name: name, Gender: GenderMale, IsCreator: creator}
}

func edge(id, from, to int64, relation RelationType) Edge {
	return Edge{ID: id, FamilyID: 1, FromMemberID: from, ToMemberID: to, Type: relation}
}

func rootIDs(roots []*TreeNode) []int64 {
	ids := make([]int64, 0, len(roots))
	for _, root := range roots {
		ids = append(ids, root.Member.ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildTreeCreatorWithSpouseAndChild(t *testing.T) {
	members := []Member{
		member(1, "A", true),
		member(2, "B", false),
		member(3, "C", false),
	}
	edges := []Edge{
		edge(1, 1, 2, RelationFatherSon),
		edge(2, 1, 3, RelationHusbandWife),
	}

	roots := BuildTree(members, edges)
	if len(roots) == 0 || roots[0].Member.ID != 1 {
		t.Fatalf("expected A first among roots, got %v", rootIDs(roots))
	}
	a := roots[0]
	if a.Spouse == nil || a.Spouse.Member.ID != 3 {
		t.Fatalf("expected A spouse C, got %+v", a.Spouse)
	}
	if len(a.Children) != 1 || a.Children[0].Member.ID != 2 {
		t.Fatalf("expected A children [B], got %d children", len(a.Children))
	}
	for _, root := range roots {
		if root.Member.ID == 2 {
			t.Fatalf("child B must not be a root")
		}
	}
}

func TestBuildTreeRootsAreMembersWithoutParentEdge(t *testing.T) {
	members := []Member{
		member(1, "A", false),
		member(2, "B", false),
		member(3, "C", false),
		member(4, "D", false),
	}
	edges := []Edge{
		edge(1, 1, 2, RelationFatherSon),
		edge(2, 2, 3, RelationMotherSon),
		edge(3, 1, 4, RelationSibling),
	}

	roots := BuildTree(members, edges)
	if !equalIDs(rootIDs(roots), []int64{1, 4}) {
		t.Fatalf("expected roots [1 4], got %v", rootIDs(roots))
	}
}

func TestBuildTreeKeepsChildEdgeOrder(t *testing.T) {
	members := []Member{
		member(1, "P", false),
		member(2, "X", false),
		member(3, "Y", false),
		member(4, "Z", false),
	}
	edges := []Edge{
		edge(1, 1, 4, RelationFatherSon),
		edge(2, 1, 2, RelationFatherSon),
		edge(3, 1, 3, RelationMotherSon),
	}

	roots := BuildTree(members, edges)
	if len(roots) != 1 {
		t.Fatalf("expected one root, got %v", rootIDs(roots))
	}
	if !equalIDs(rootIDs(roots[0].Children), []int64{4, 2, 3}) {
		t.Fatalf("expected children in edge order [4 2 3], got %v", rootIDs(roots[0].Children))
	}
}

func TestBuildTreeSpouseSymmetryFirstEdgeWins(t *testing.T) {
	members := []Member{
		member(1, "A", false),
		member(2, "B", false),
		member(3, "C", false),
	}
	edges := []Edge{
		edge(1, 1, 2, RelationHusbandWife),
		edge(2, 1, 3, RelationHusbandWife),
	}

	roots := BuildTree(members, edges)
	nodes := map[int64]*TreeNode{}
	for _, root := range roots {
		nodes[root.Member.ID] = root
	}
	if nodes[1].Spouse != nodes[2] || nodes[2].Spouse != nodes[1] {
		t.Fatalf("expected A and B to be each other's spouse")
	}
	if nodes[3].Spouse != nodes[1] {
		t.Fatalf("expected C spouse slot filled with A")
	}
}

func TestBuildTreeCreatorRootsFirstStable(t *testing.T) {
	members := []Member{
		member(1, "A", false),
		member(2, "B", true),
		member(3, "C", false),
		member(4, "D", true),
	}

	roots := BuildTree(members, nil)
	if !equalIDs(rootIDs(roots), []int64{2, 4, 1, 3}) {
		t.Fatalf("expected [2 4 1 3], got %v", rootIDs(roots))
	}
}

func TestBuildTreeIgnoresDanglingEdges(t *testing.T) {
	members := []Member{member(1, "A", false)}
	edges := []Edge{
		edge(1, 99, 1, RelationFatherSon),
		edge(2, 1, 98, RelationHusbandWife),
	}

	roots := BuildTree(members, edges)
	if !equalIDs(rootIDs(roots), []int64{1}) {
		t.Fatalf("expected [1], got %v", rootIDs(roots))
	}
	if roots[0].Spouse != nil {
		t.Fatalf("expected no spouse for dangling edge")
	}
}

func TestBuildTreeSecondParentDoesNotListChild(t *testing.T) {
	members := []Member{
		member(1, "Father", false),
		member(2, "Mother", false),
		member(3, "Child", false),
	}
	edges := []Edge{
		edge(1, 2, 3, RelationMotherSon),
		edge(2, 1, 3, RelationFatherSon),
	}

	roots := BuildTree(members, edges)
	nodes := map[int64]*TreeNode{}
	for _, root := range roots {
		nodes[root.Member.ID] = root
	}
	if len(nodes[2].Children) != 1 || nodes[2].Children[0].Member.ID != 3 {
		t.Fatalf("expected child nested under first parent edge")
	}
	if len(nodes[1].Children) != 0 {
		t.Fatalf("expected second parent to have no children, got %d", len(nodes[1].Children))
	}
}

func TestBuildTreeEmpty(t *testing.T) {
	roots := BuildTree(nil, nil)
	if roots == nil || len(roots) != 0 {
		t.Fatalf("expected empty non-nil roots, got %v", roots)
	}
}

func TestWalkTreeVisitsEachNodeOnce(t *testing.T) {
	members := []Member{
		member(1, "A", true),
		member(2, "B", false),
		member(3, "C", false),
	}
	edges := []Edge{
		edge(1, 1, 2, RelationFatherSon),
		edge(2, 2, 3, RelationFatherSon),
	}

	roots := BuildTree(members, edges)
	depths := map[int64]int{}
	WalkTree(roots, func(node *TreeNode, depth int) bool {
		if _, seen := depths[node.Member.ID]; seen {
			t.Fatalf("node %d visited twice", node.Member.ID)
		}
		depths[node.Member.ID] = depth
		return true
	})
	if depths[1] != 0 || depths[2] != 1 || depths[3] != 2 {
		t.Fatalf("unexpected depths %v", depths)
	}
}

func TestWalkTreeStopsOnCycle(t *testing.T) {
	a := &TreeNode{Member: member(1, "A", false)}
	b := &TreeNode{Member: member(2, "B", false)}
	a.Children = []*TreeNode{b}
	b.Children = []*TreeNode{a}

	visits := 0
	WalkTree([]*TreeNode{a}, func(node *TreeNode, depth int) bool {
		visits++
		return true
	})
	if visits != 2 {
		t.Fatalf("expected 2 visits, got %d", visits)
	}
}
