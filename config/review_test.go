package config

import (
	"testing"

	"studio-board-api/models"

	"github.com/stretchr/testify/assert"
)

func TestInitReviewSettings_EnvOverrides(t *testing.T) {
	t.Setenv("REVIEW_DIVERGENCE_THRESHOLD", "0.75")
	t.Setenv("REVIEW_CONFIDENCE_MEDIUM", "3")
	t.Setenv("REVIEW_CONFIDENCE_HIGH", "5")
	t.Setenv("VELOCITY_MULTIPLIER_POOR", "0.5")

	InitReviewSettings()

	assert.Equal(t, 0.75, Review.DivergenceThreshold)
	assert.Equal(t, 3, Review.ConfidenceMedium)
	assert.Equal(t, 5, Review.ConfidenceHigh)
	assert.Equal(t, 0.5, Review.TierMultipliers[models.TierPoor])
}

func TestInitReviewSettings_RejectsBadValues(t *testing.T) {
	t.Setenv("REVIEW_DIVERGENCE_THRESHOLD", "not-a-number")
	t.Setenv("REVIEW_CONFIDENCE_HIGH", "1") // below medium, ignored

	InitReviewSettings()

	assert.Equal(t, 1.5, Review.DivergenceThreshold)
	assert.Equal(t, 3, Review.ConfidenceHigh)
}

func TestClassifyTier(t *testing.T) {
	settings := DefaultReviewSettings()

	assert.Equal(t, models.TierUnscored, settings.ClassifyTier(nil))

	cases := []struct {
		average float64
		tier    models.QualityTier
	}{
		{1.0, models.TierPoor},
		{2.49, models.TierPoor},
		{2.5, models.TierFair},
		{3.49, models.TierFair},
		{3.5, models.TierGood},
		{4.49, models.TierGood},
		{4.5, models.TierExcellent},
		{5.0, models.TierExcellent},
	}
	for _, tc := range cases {
		v := tc.average
		assert.Equal(t, tc.tier, settings.ClassifyTier(&v), "average %.2f", tc.average)
	}
}

func TestIsValidScoreValue(t *testing.T) {
	settings := DefaultReviewSettings()
	for _, v := range settings.LevelValues() {
		assert.True(t, settings.IsValidScoreValue(v))
	}
	assert.False(t, settings.IsValidScoreValue(0))
	assert.False(t, settings.IsValidScoreValue(6))
}
