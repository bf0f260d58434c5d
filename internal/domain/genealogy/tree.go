package genealogy

import "sort"

type TreeNode struct {
	Member   Member
	Spouse   *TreeNode
	Children []*TreeNode
}

// BuildTree turns a family's members and edges into its display forest.
// Only roots are returned; descendants hang off Children. Edges naming an
// unknown member are skipped. A child claimed by an earlier parent edge is
// not attached to later parents. Cycles are not detected.
func BuildTree(members []Member, edges []Edge) []*TreeNode {
	nodes := make(map[int64]*TreeNode, len(members))
	ordered := make([]*TreeNode, 0, len(members))
	for _, member := range members {
		if _, exists := nodes[member.ID]; exists {
			continue
		}
		node := &TreeNode{Member: member, Children: []*TreeNode{}}
		nodes[member.ID] = node
		ordered = append(ordered, node)
	}

	hasParent := make(map[int64]bool)
	for _, edge := range edges {
		from, okFrom := nodes[edge.FromMemberID]
		to, okTo := nodes[edge.ToMemberID]
		if !okFrom || !okTo {
			continue
		}

		switch {
		case edge.Type == RelationHusbandWife:
			if from.Spouse == nil {
				from.Spouse = to
			}
			if to.Spouse == nil {
				to.Spouse = from
			}
		case edge.Type.IsParent():
			if hasParent[edge.ToMemberID] {
				continue
			}
			hasParent[edge.ToMemberID] = true
			from.Children = append(from.Children, to)
		}
	}

	roots := make([]*TreeNode, 0, len(ordered))
	for _, node := range ordered {
		if !hasParent[node.Member.ID] {
			roots = append(roots, node)
		}
	}

	sort.SliceStable(roots, func(i, j int) bool {
		return roots[i].Member.IsCreator && !roots[j].Member.IsCreator
	})

	return roots
}

// WalkTree visits every node reachable from roots through Children exactly
// once, parents before children. Returning false from fn stops the walk
// below that node.
func WalkTree(roots []*TreeNode, fn func(node *TreeNode, depth int) bool) {
	visited := make(map[*TreeNode]struct{})
	var walk func(node *TreeNode, depth int)
	walk = func(node *TreeNode, depth int) {
		if _, seen := visited[node]; seen {
			return
		}
		visited[node] = struct{}{}
		if !fn(node, depth) {
			return
		}
		for _, child := range node.Children {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}
}
