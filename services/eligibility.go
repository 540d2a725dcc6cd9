package services

import (
	"sort"

	"studio-board-api/models"
)

// ApplicableDimensions filters dims down to those a given card can be scored
// on, and, when evaluatorRoles is non-nil, those the caller may score.
// Passing nil roles returns every dimension applicable to the card regardless
// of role, for read-only summary views. The result is ordered ascending by
// dimension position. An empty result is valid and means "nothing to score".
func ApplicableDimensions(card *models.Card, dims []models.ReviewDimension, evaluatorRoles []models.EvaluatorRole) []models.ReviewDimension {
	out := make([]models.ReviewDimension, 0, len(dims))
	for _, dim := range dims {
		if !dim.IsActive {
			continue
		}
		if !dimensionApplies(card, &dim) {
			continue
		}
		if evaluatorRoles != nil && !rolesIntersect(&dim, evaluatorRoles) {
			continue
		}
		out = append(out, dim)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

// dimensionApplies is the unit-type predicate: each card type decides how the
// dimension's content restrictions apply to it. Adding a card type is one new
// case arm.
func dimensionApplies(card *models.Card, dim *models.ReviewDimension) bool {
	if dim.AppliesTo != nil && *dim.AppliesTo != "" && *dim.AppliesTo != card.CardType {
		return false
	}

	switch card.CardType {
	case models.CardTypeAsset:
		// Assets are art deliverables; art-only dimensions always apply.
		return true
	case models.CardTypeFeature:
		return !dim.ArtOnly || card.HasArtwork
	case models.CardTypeChore:
		return !dim.ArtOnly
	default:
		return !dim.ArtOnly
	}
}

func rolesIntersect(dim *models.ReviewDimension, roles []models.EvaluatorRole) bool {
	for _, role := range roles {
		if dim.HasRole(role) {
			return true
		}
	}
	return false
}
