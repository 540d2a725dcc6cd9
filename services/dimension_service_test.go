package services

import (
	"testing"

	"studio-board-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDimension_AudienceShorthand(t *testing.T) {
	svc := newTestService(t)

	dim, err := svc.CreateDimension(DimensionInput{Name: "Requirement fit", Audience: "both"})
	require.NoError(t, err)
	assert.Equal(t, 1, dim.Position)
	assert.Equal(t, models.AudienceBoth, dim.Audience())
	assert.ElementsMatch(t, []models.EvaluatorRole{models.RoleLead, models.RolePO}, dim.RoleSet())

	// Explicit roles may include the third role directly.
	art, err := svc.CreateDimension(DimensionInput{
		Name:  "Visual polish",
		Roles: []string{"LEAD", "HEAD_OF_ART"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, art.Position)
	assert.Equal(t, models.AudienceLead, art.Audience())
	assert.ElementsMatch(t, []models.EvaluatorRole{models.RoleLead, models.RoleHeadOfArt}, art.RoleSet())

	_, err = svc.CreateDimension(DimensionInput{Name: "Bad", Audience: "EVERYONE"})
	require.Error(t, err)
	assert.Equal(t, KindValidation, AsServiceError(err).Kind)

	_, err = svc.CreateDimension(DimensionInput{Name: "Bad", Roles: []string{"INTERN"}})
	require.Error(t, err)
	assert.Equal(t, KindValidation, AsServiceError(err).Kind)
}

func TestUpdateDimension_ReplacesRoleSet(t *testing.T) {
	svc := newTestService(t)

	dim, err := svc.CreateDimension(DimensionInput{Name: "Requirement fit", Audience: "LEAD"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateDimension(dim.DimensionID, DimensionInput{
		Name:     "Requirement fit (v2)",
		Audience: "PO",
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Requirement fit (v2)", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, []models.EvaluatorRole{models.RolePO}, updated.RoleSet())

	_, err = svc.UpdateDimension(9999, DimensionInput{Name: "Ghost"})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, AsServiceError(err).Kind)
}

func TestDeleteDimension_SoftWhenScored(t *testing.T) {
	svc := newTestService(t)
	card := seedCard(t, svc, models.CardTypeFeature)
	dim := seedDimension(t, svc, "Requirement fit", 1, models.RoleLead)
	reviewer := seedReviewer(t, svc, "lead@studio.test", "Lead")

	cycle, err := svc.OpenCycle(card.CardID)
	require.NoError(t, err)
	_, err = svc.CreateEvaluation(cycle.CycleID, reviewer.UserID, leadRoles,
		[]ScoreEntry{{DimensionID: dim.DimensionID, Value: 4}})
	require.NoError(t, err)

	hard, err := svc.DeleteDimension(dim.DimensionID)
	require.NoError(t, err)
	assert.False(t, hard, "a scored dimension is only deactivated")

	var reloaded models.ReviewDimension
	require.NoError(t, svc.db.First(&reloaded, dim.DimensionID).Error)
	assert.False(t, reloaded.IsActive)

	// The historical score still aggregates under the dimension's name.
	summary, err := svc.CycleSummaryByID(cycle.CycleID)
	require.NoError(t, err)
	require.Len(t, summary.Dimensions, 1)
	assert.Equal(t, "Requirement fit", summary.Dimensions[0].DimensionName)
}

func TestDeleteDimension_HardWhenUnscored(t *testing.T) {
	svc := newTestService(t)
	dim := seedDimension(t, svc, "Never scored", 1, models.RoleLead)

	hard, err := svc.DeleteDimension(dim.DimensionID)
	require.NoError(t, err)
	assert.True(t, hard)

	var count int64
	require.NoError(t, svc.db.Model(&models.ReviewDimension{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, svc.db.Model(&models.DimensionRole{}).Count(&count).Error)
	assert.Zero(t, count, "role rows cascade with the dimension")
}

func TestReorderDimensions(t *testing.T) {
	svc := newTestService(t)
	a := seedDimension(t, svc, "A", 1, models.RoleLead)
	b := seedDimension(t, svc, "B", 2, models.RoleLead)
	c := seedDimension(t, svc, "C", 3, models.RoleLead)

	t.Run("rejects duplicates", func(t *testing.T) {
		_, err := svc.ReorderDimensions([]int{a.DimensionID, a.DimensionID, b.DimensionID})
		require.Error(t, err)
		assert.Equal(t, KindValidation, AsServiceError(err).Kind)
	})

	t.Run("rejects incomplete sets", func(t *testing.T) {
		_, err := svc.ReorderDimensions([]int{a.DimensionID, b.DimensionID})
		require.Error(t, err)
		assert.Equal(t, KindValidation, AsServiceError(err).Kind)
	})

	t.Run("rejects unknown ids", func(t *testing.T) {
		_, err := svc.ReorderDimensions([]int{a.DimensionID, b.DimensionID, 9999})
		require.Error(t, err)
		assert.Equal(t, KindValidation, AsServiceError(err).Kind)
	})

	t.Run("applies a full permutation densely", func(t *testing.T) {
		dims, err := svc.ReorderDimensions([]int{c.DimensionID, a.DimensionID, b.DimensionID})
		require.NoError(t, err)
		require.Len(t, dims, 3)
		assert.Equal(t, "C", dims[0].Name)
		assert.Equal(t, "A", dims[1].Name)
		assert.Equal(t, "B", dims[2].Name)
		assert.Equal(t, []int{1, 2, 3}, []int{dims[0].Position, dims[1].Position, dims[2].Position})
	})
}
