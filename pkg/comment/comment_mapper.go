package comment

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
)

func toComment(c *entities.Comment) *domain.Comment {
	res := &domain.Comment{
		ID:        c.ID.String(),
		RecipeID:  c.RecipeID.String(),
		Content:   c.Content,
		IsEdited:  c.IsEdited,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.ParentID != nil {
		res.ParentID = c.ParentID.String()
	}
	if c.User != nil {
		res.Author = &domain.AuthorSummary{
			ID:        c.User.ID.String(),
			Name:      c.User.Name,
			AvatarURL: c.User.AvatarURL,
		}
	}
	return res
}

// buildThreads attaches replies under their parents. Replies whose root is
// not among roots are dropped.
func buildThreads(roots, replies []*entities.Comment) []*domain.Comment {
	nodes := make(map[string]*domain.Comment, len(roots)+len(replies))
	out := make([]*domain.Comment, 0, len(roots))
	for _, r := range roots {
		c := toComment(r)
		nodes[c.ID] = c
		out = append(out, c)
	}

	for _, r := range replies {
		c := toComment(r)
		nodes[c.ID] = c
	}
	for _, r := range replies {
		parent, ok := nodes[r.ParentID.String()]
		if !ok {
			continue
		}
		parent.Replies = append(parent.Replies, nodes[r.ID.String()])
	}
	return out
}
