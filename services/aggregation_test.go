package services

import (
	"math/rand"
	"testing"
	"time"

	"studio-board-api/config"
	"studio-board-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCycle(evaluations ...models.Evaluation) *models.ReviewCycle {
	return &models.ReviewCycle{
		CycleID:     10,
		CardID:      1,
		CycleNumber: 1,
		OpenedAt:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		Evaluations: evaluations,
	}
}

func evalWithScores(reviewerID int, scores ...models.EvaluationScore) models.Evaluation {
	return models.Evaluation{
		EvaluationID: reviewerID * 100,
		CycleID:      10,
		ReviewerID:   reviewerID,
		Scores:       scores,
	}
}

func TestAggregateCycle_LeadPODivergence(t *testing.T) {
	settings := config.DefaultReviewSettings()
	settings.DivergenceThreshold = 2

	dims := []models.ReviewDimension{dimWithRoles(1, 1, models.RoleLead, models.RolePO)}
	dims[0].Name = "Visual polish"

	cycle := testCycle(
		evalWithScores(7, models.EvaluationScore{DimensionID: 1, Value: 4}),
		evalWithScores(8, models.EvaluationScore{DimensionID: 1, Value: 2}),
	)
	roles := map[int][]models.EvaluatorRole{
		7: {models.RoleLead},
		8: {models.RolePO},
	}

	summary := AggregateCycle(cycle, dims, roles, settings)

	require.Len(t, summary.Dimensions, 1)
	d := summary.Dimensions[0]
	assert.Equal(t, 1, d.DimensionID)
	assert.Equal(t, "Visual polish", d.DimensionName)
	assert.Equal(t, 3.0, d.Average)
	assert.Equal(t, 2, d.Count)
	assert.Equal(t, "MEDIUM", d.Confidence)
	assert.Equal(t, "Solid", d.ScoreLabel)

	require.Len(t, summary.Divergences, 1)
	flag := summary.Divergences[0]
	assert.Equal(t, models.RoleLead, flag.RoleA)
	assert.Equal(t, models.RolePO, flag.RoleB)
	assert.Equal(t, 4.0, flag.AverageA)
	assert.Equal(t, 2.0, flag.AverageB)
	assert.Equal(t, 2.0, flag.Difference)

	require.NotNil(t, summary.OverallAverage)
	assert.Equal(t, 3.0, *summary.OverallAverage)
	assert.Equal(t, models.TierFair, summary.QualityTier)
}

func TestAggregateCycle_EmptyCycle(t *testing.T) {
	settings := config.DefaultReviewSettings()
	summary := AggregateCycle(testCycle(), nil, nil, settings)

	assert.Nil(t, summary.OverallAverage)
	assert.Equal(t, models.TierUnscored, summary.QualityTier)
	assert.Empty(t, summary.Dimensions)
	assert.Empty(t, summary.Divergences)
	assert.Equal(t, 0, summary.EvaluationCount)
}

func TestAggregateCycle_OrderIndependent(t *testing.T) {
	settings := config.DefaultReviewSettings()
	dims := []models.ReviewDimension{
		dimWithRoles(1, 1, models.RoleLead, models.RolePO),
		dimWithRoles(2, 2, models.RoleLead, models.RolePO),
		dimWithRoles(3, 3, models.RoleLead, models.RolePO, models.RoleHeadOfArt),
	}
	evaluations := []models.Evaluation{
		evalWithScores(1,
			models.EvaluationScore{DimensionID: 1, Value: 5},
			models.EvaluationScore{DimensionID: 2, Value: 3}),
		evalWithScores(2,
			models.EvaluationScore{DimensionID: 1, Value: 2},
			models.EvaluationScore{DimensionID: 3, Value: 4}),
		evalWithScores(3,
			models.EvaluationScore{DimensionID: 2, Value: 1},
			models.EvaluationScore{DimensionID: 3, Value: 5}),
	}
	roles := map[int][]models.EvaluatorRole{
		1: {models.RoleLead},
		2: {models.RolePO},
		3: {models.RoleHeadOfArt},
	}

	baseline := AggregateCycle(testCycle(evaluations...), dims, roles, settings)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]models.Evaluation, len(evaluations))
		copy(shuffled, evaluations)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := AggregateCycle(testCycle(shuffled...), dims, roles, settings)
		assert.Equal(t, baseline.Dimensions, got.Dimensions)
		assert.Equal(t, baseline.Divergences, got.Divergences)
		assert.Equal(t, baseline.OverallAverage, got.OverallAverage)
		assert.Equal(t, baseline.QualityTier, got.QualityTier)
	}
}

func TestAggregateCycle_DivergenceSymmetryAndSuppression(t *testing.T) {
	settings := config.DefaultReviewSettings()
	settings.DivergenceThreshold = 0.5

	dims := []models.ReviewDimension{
		dimWithRoles(1, 1, models.RoleLead, models.RolePO),
		dimWithRoles(2, 2, models.RoleLead),
	}
	cycle := testCycle(
		evalWithScores(1,
			models.EvaluationScore{DimensionID: 1, Value: 5},
			models.EvaluationScore{DimensionID: 2, Value: 1}),
		evalWithScores(2, models.EvaluationScore{DimensionID: 1, Value: 3}),
	)
	roles := map[int][]models.EvaluatorRole{
		1: {models.RoleLead},
		2: {models.RolePO},
	}

	summary := AggregateCycle(cycle, dims, roles, settings)

	// Dimension 2 only has LEAD scores: no pair, no flag.
	require.Len(t, summary.Divergences, 1)
	flag := summary.Divergences[0]
	assert.Equal(t, 1, flag.DimensionID)

	diff := flag.AverageA - flag.AverageB
	if diff < 0 {
		diff = -diff
	}
	assert.Equal(t, diff, flag.Difference)
}

func TestAggregateCycle_ZeroScoreDimensionsOmitted(t *testing.T) {
	settings := config.DefaultReviewSettings()
	dims := []models.ReviewDimension{
		dimWithRoles(1, 1, models.RoleLead),
		dimWithRoles(2, 2, models.RoleLead),
	}
	cycle := testCycle(evalWithScores(1, models.EvaluationScore{DimensionID: 1, Value: 4}))
	roles := map[int][]models.EvaluatorRole{1: {models.RoleLead}}

	summary := AggregateCycle(cycle, dims, roles, settings)
	require.Len(t, summary.Dimensions, 1)
	assert.Equal(t, 1, summary.Dimensions[0].DimensionID)

	// Overall average is unweighted across scored dimensions only.
	require.NotNil(t, summary.OverallAverage)
	assert.Equal(t, 4.0, *summary.OverallAverage)
	assert.Equal(t, models.TierGood, summary.QualityTier)
}

func TestClassifyTier_Monotonic(t *testing.T) {
	settings := config.DefaultReviewSettings()
	rank := map[models.QualityTier]int{
		models.TierPoor:      0,
		models.TierFair:      1,
		models.TierGood:      2,
		models.TierExcellent: 3,
	}

	previous := -1
	for avg := 0.0; avg <= 5.0; avg += 0.05 {
		v := avg
		tier := settings.ClassifyTier(&v)
		current, ok := rank[tier]
		require.True(t, ok, "unexpected tier %s", tier)
		assert.GreaterOrEqual(t, current, previous, "tier regressed at average %.2f", avg)
		previous = current
	}
}

func TestConfidenceBuckets(t *testing.T) {
	settings := config.DefaultReviewSettings()
	assert.Equal(t, "LOW", settings.ConfidenceBucket(0))
	assert.Equal(t, "LOW", settings.ConfidenceBucket(1))
	assert.Equal(t, "MEDIUM", settings.ConfidenceBucket(2))
	assert.Equal(t, "HIGH", settings.ConfidenceBucket(3))
	assert.Equal(t, "HIGH", settings.ConfidenceBucket(7))
}

func TestNearestLevel(t *testing.T) {
	settings := config.DefaultReviewSettings()
	assert.Equal(t, "Poor", settings.NearestLevel(1.2).Label)
	assert.Equal(t, "Solid", settings.NearestLevel(3.1).Label)
	assert.Equal(t, "Excellent", settings.NearestLevel(4.9).Label)
	// Ties round up.
	assert.Equal(t, "Strong", settings.NearestLevel(3.5).Label)
}
