package services

import (
	"testing"

	"studio-board-api/models"

	"github.com/stretchr/testify/assert"
)

func dimWithRoles(id, position int, roles ...models.EvaluatorRole) models.ReviewDimension {
	dim := models.ReviewDimension{
		DimensionID: id,
		Name:        "dim",
		Position:    position,
		IsActive:    true,
	}
	for _, role := range roles {
		dim.Roles = append(dim.Roles, models.DimensionRole{DimensionID: id, Role: role})
	}
	return dim
}

func TestApplicableDimensions(t *testing.T) {
	feature := &models.Card{CardID: 1, CardType: models.CardTypeFeature}
	asset := &models.Card{CardID: 2, CardType: models.CardTypeAsset}
	artFeature := &models.Card{CardID: 3, CardType: models.CardTypeFeature, HasArtwork: true}

	t.Run("inactive dimensions are never applicable", func(t *testing.T) {
		dim := dimWithRoles(1, 1, models.RoleLead)
		dim.IsActive = false
		assert.Empty(t, ApplicableDimensions(feature, []models.ReviewDimension{dim}, nil))
	})

	t.Run("nil roles returns all card-applicable dimensions", func(t *testing.T) {
		dims := []models.ReviewDimension{
			dimWithRoles(1, 2, models.RoleLead),
			dimWithRoles(2, 1, models.RolePO),
		}
		got := ApplicableDimensions(feature, dims, nil)
		assert.Len(t, got, 2)
	})

	t.Run("role filter intersects", func(t *testing.T) {
		dims := []models.ReviewDimension{
			dimWithRoles(1, 1, models.RoleLead),
			dimWithRoles(2, 2, models.RolePO),
			dimWithRoles(3, 3, models.RoleLead, models.RolePO),
		}
		got := ApplicableDimensions(feature, dims, []models.EvaluatorRole{models.RolePO})
		assert.Len(t, got, 2)
		assert.Equal(t, 2, got[0].DimensionID)
		assert.Equal(t, 3, got[1].DimensionID)
	})

	t.Run("empty role set never matches a role-scoped query", func(t *testing.T) {
		dims := []models.ReviewDimension{dimWithRoles(1, 1)}
		assert.Empty(t, ApplicableDimensions(feature, dims, []models.EvaluatorRole{models.RoleLead}))
		// but still shows for role-agnostic views
		assert.Len(t, ApplicableDimensions(feature, dims, nil), 1)
	})

	t.Run("art-only dimensions follow card type and artwork flag", func(t *testing.T) {
		artDim := dimWithRoles(1, 1, models.RoleHeadOfArt)
		artDim.ArtOnly = true
		dims := []models.ReviewDimension{artDim}

		assert.Len(t, ApplicableDimensions(asset, dims, nil), 1, "assets always take art dimensions")
		assert.Empty(t, ApplicableDimensions(feature, dims, nil), "plain features do not")
		assert.Len(t, ApplicableDimensions(artFeature, dims, nil), 1, "flagged features do")
	})

	t.Run("applies_to restricts by card type", func(t *testing.T) {
		assetType := models.CardTypeAsset
		dim := dimWithRoles(1, 1, models.RoleLead)
		dim.AppliesTo = &assetType
		dims := []models.ReviewDimension{dim}

		assert.Empty(t, ApplicableDimensions(feature, dims, nil))
		assert.Len(t, ApplicableDimensions(asset, dims, nil), 1)
	})

	t.Run("result ordered by position and deterministic", func(t *testing.T) {
		dims := []models.ReviewDimension{
			dimWithRoles(1, 3, models.RoleLead),
			dimWithRoles(2, 1, models.RoleLead),
			dimWithRoles(3, 2, models.RoleLead),
		}
		first := ApplicableDimensions(feature, dims, nil)
		second := ApplicableDimensions(feature, dims, nil)
		assert.Equal(t, first, second)

		positions := []int{first[0].Position, first[1].Position, first[2].Position}
		assert.Equal(t, []int{1, 2, 3}, positions)
	})
}
