package recipe

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"strings"

	"github.com/goccy/go-json"
)

func ToRecipe(r *entities.Recipe) domain.Recipe {
	res := domain.Recipe{
		ID:              r.ID.String(),
		Title:           r.Title,
		Description:     r.Description,
		ImageURL:        r.ImageURL,
		PrepTimeMinutes: r.PrepTimeMinutes,
		CookTimeMinutes: r.CookTimeMinutes,
		Servings:        r.Servings,
		DifficultyLevel: r.DifficultyLevel,
		CuisineType:     r.CuisineType,
		Category:        r.Category,
		Tags:            splitTags(r.Tags),
		Status:          r.Status,
		AverageRating:   r.AverageRating,
		RatingCount:     r.RatingCount,
		CommentCount:    r.CommentCount,
		ViewCount:       r.ViewCount,
		SaveCount:       r.SaveCount,
		SubmittedAt:     r.SubmittedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.User != nil {
		res.Author = &domain.AuthorSummary{
			ID:        r.User.ID.String(),
			Name:      r.User.Name,
			AvatarURL: r.User.AvatarURL,
		}
	}
	return res
}

func ToRecipes(rows []*entities.Recipe) []domain.Recipe {
	res := make([]domain.Recipe, 0, len(rows))
	for _, r := range rows {
		res = append(res, ToRecipe(r))
	}
	return res
}

func ToRecipeDetail(r *entities.Recipe) domain.RecipeDetail {
	return domain.RecipeDetail{
		Recipe:          ToRecipe(r),
		Ingredients:     decodeList(r.Ingredients),
		Instructions:    decodeList(r.Instructions),
		RejectionReason: r.RejectionReason,
		ModerationNote:  r.ModerationNote,
		ReviewedAt:      r.ReviewedAt,
	}
}

func encodeList(items []string) string {
	clean := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			clean = append(clean, item)
		}
	}
	b, _ := json.Marshal(clean)
	return string(b)
}

func decodeList(raw string) []string {
	items := []string{}
	if raw == "" {
		return items
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return []string{}
	}
	return items
}

func joinTags(tags []string) string {
	seen := make(map[string]struct{}, len(tags))
	clean := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		clean = append(clean, tag)
	}
	return strings.Join(clean, ",")
}

func splitTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}
