package genealogies

import (
	"time"

	genealogydomain "genealogy-app-go/internal/domain/genealogy"
)

type genealogyResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Avatar      string    `json:"avatar"`
	Description string    `json:"description"`
	CreatorID   int64     `json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type memberResponse struct {
	ID           int64   `json:"id"`
	FamilyID     int64   `json:"family_id"`
	LinkedUserID *int64  `json:"linked_user_id"`
	Name         string  `json:"name"`
	Gender       string  `json:"gender"`
	Avatar       string  `json:"avatar"`
	BirthDate    *string `json:"birth_date"`
	Bio          string  `json:"bio"`
	IsCreator    bool    `json:"is_creator"`
}

type edgeResponse struct {
	ID           int64  `json:"id"`
	FromMemberID int64  `json:"from_member_id"`
	ToMemberID   int64  `json:"to_member_id"`
	Type         string `json:"type"`
}

type treeNodeResponse struct {
	Member   memberResponse     `json:"member"`
	Spouse   *memberResponse    `json:"spouse"`
	Children []treeNodeResponse `json:"children"`
}

type treeResponse struct {
	Roots []treeNodeResponse `json:"roots"`
}

func toGenealogyResponse(g *genealogydomain.Genealogy) genealogyResponse {
	return genealogyResponse{
		ID:          g.ID,
		Name:        g.Name,
		Code:        g.Code,
		Avatar:      g.Avatar,
		Description: g.Description,
		CreatorID:   g.CreatorID,
		CreatedAt:   g.CreatedAt,
	}
}

func toMemberResponse(m genealogydomain.Member) memberResponse {
	var birthDate *string
	if m.BirthDate != nil {
		formatted := m.BirthDate.Format("2006-01-02")
		birthDate = &formatted
	}
	return memberResponse{
		ID:           m.ID,
		FamilyID:     m.FamilyID,
		LinkedUserID: m.LinkedUserID,
		Name:         m.Name,
		Gender:       string(m.Gender),
		Avatar:       m.Avatar,
		BirthDate:    birthDate,
		Bio:          m.Bio,
		IsCreator:    m.IsCreator,
	}
}

func toEdgeResponse(e *genealogydomain.Edge) edgeResponse {
	return edgeResponse{
		ID:           e.ID,
		FromMemberID: e.FromMemberID,
		ToMemberID:   e.ToMemberID,
		Type:         string(e.Type),
	}
}

// toTreeResponse renders each node once. Spouses are flattened to plain
// members so the document stays acyclic.
func toTreeResponse(roots []*genealogydomain.TreeNode) treeResponse {
	visited := make(map[*genealogydomain.TreeNode]struct{})
	var render func(node *genealogydomain.TreeNode) treeNodeResponse
	render = func(node *genealogydomain.TreeNode) treeNodeResponse {
		visited[node] = struct{}{}
		out := treeNodeResponse{
			Member:   toMemberResponse(node.Member),
			Children: []treeNodeResponse{},
		}
		if node.Spouse != nil {
			spouse := toMemberResponse(node.Spouse.Member)
			out.Spouse = &spouse
		}
		for _, child := range node.Children {
			if _, seen := visited[child]; seen {
				continue
			}
			out.Children = append(out.Children, render(child))
		}
		return out
	}

	result := treeResponse{Roots: make([]treeNodeResponse, 0, len(roots))}
	for _, root := range roots {
		if _, seen := visited[root]; seen {
			continue
		}
		result.Roots = append(result.Roots, render(root))
	}
	return result
}
