package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"studio-board-api/models"
)

// ScoreLevel is one step of the ordinal score scale. Labels are deployment
// data; the numeric value is what the aggregation math runs on.
type ScoreLevel struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// TierBreakpoint maps a minimum overall average to a quality tier. Breakpoints
// are checked in descending order of Min; the first match wins.
type TierBreakpoint struct {
	Min  float64            `json:"min"`
	Tier models.QualityTier `json:"tier"`
}

// ReviewSettings carries every operator-tunable constant of the review engine.
// It is injectable so tests and deployments can swap it without touching code.
type ReviewSettings struct {
	// ScoreLevels is the ordered ordinal scale, ascending by value.
	ScoreLevels []ScoreLevel

	// TierBreakpoints classify an overall average, descending by Min.
	TierBreakpoints []TierBreakpoint

	// ConfidenceMedium/High are reviewer-count thresholds: below Medium is
	// LOW, at least High is HIGH, in between is MEDIUM.
	ConfidenceMedium int
	ConfidenceHigh   int

	// DivergenceThreshold is the per-dimension role-average gap that raises a
	// divergence flag.
	DivergenceThreshold float64

	// TierMultipliers weight story points per quality tier for the
	// quality-adjusted velocity series.
	TierMultipliers map[models.QualityTier]float64

	// RoleTable maps company-role names to evaluator roles.
	RoleTable map[string][]models.EvaluatorRole

	// ViewerRoles are company roles that grant read-only board access and
	// nothing in this engine. SummaryViewerRoles may read metrics without
	// being evaluators. AdminRoles grant super-admin in addition to the
	// per-user flag.
	ViewerRoles        map[string]bool
	SummaryViewerRoles map[string]bool
	AdminRoles         map[string]bool
}

// Review is the active settings instance, populated by InitReviewSettings.
var Review *ReviewSettings

// DefaultReviewSettings returns the documented defaults.
func DefaultReviewSettings() *ReviewSettings {
	return &ReviewSettings{
		ScoreLevels: []ScoreLevel{
			{Value: 1, Label: "Poor"},
			{Value: 2, Label: "Weak"},
			{Value: 3, Label: "Solid"},
			{Value: 4, Label: "Strong"},
			{Value: 5, Label: "Excellent"},
		},
		TierBreakpoints: []TierBreakpoint{
			{Min: 4.5, Tier: models.TierExcellent},
			{Min: 3.5, Tier: models.TierGood},
			{Min: 2.5, Tier: models.TierFair},
			{Min: 0, Tier: models.TierPoor},
		},
		ConfidenceMedium:    2,
		ConfidenceHigh:      3,
		DivergenceThreshold: 1.5,
		TierMultipliers: map[models.QualityTier]float64{
			models.TierExcellent: 1.2,
			models.TierGood:      1.1,
			models.TierFair:      1.0,
			models.TierPoor:      0.7,
			models.TierUnscored:  1.0,
		},
		RoleTable: map[string][]models.EvaluatorRole{
			"Lead":          {models.RoleLead},
			"Lead Artist":   {models.RoleLead},
			"Tech Lead":     {models.RoleLead},
			"Producer":      {models.RolePO},
			"Product Owner": {models.RolePO},
			"PO":            {models.RolePO},
			"Head of Art":   {models.RoleHeadOfArt},
			"Art Director":  {models.RoleHeadOfArt},
		},
		ViewerRoles: map[string]bool{
			"Viewer": true,
			"Guest":  true,
		},
		SummaryViewerRoles: map[string]bool{
			"Producer":       true,
			"Product Owner":  true,
			"Studio Manager": true,
		},
		AdminRoles: map[string]bool{
			"Super Admin": true,
		},
	}
}

// InitReviewSettings loads defaults and applies environment overrides.
func InitReviewSettings() {
	settings := DefaultReviewSettings()

	if v := os.Getenv("REVIEW_DIVERGENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			settings.DivergenceThreshold = f
		} else {
			log.Printf("Warning: invalid REVIEW_DIVERGENCE_THRESHOLD %q, keeping %.2f", v, settings.DivergenceThreshold)
		}
	}
	if v := os.Getenv("REVIEW_CONFIDENCE_MEDIUM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			settings.ConfidenceMedium = n
		}
	}
	if v := os.Getenv("REVIEW_CONFIDENCE_HIGH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= settings.ConfidenceMedium {
			settings.ConfidenceHigh = n
		}
	}
	for tier := range settings.TierMultipliers {
		key := fmt.Sprintf("VELOCITY_MULTIPLIER_%s", strings.ToUpper(string(tier)))
		if v := os.Getenv(key); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
				settings.TierMultipliers[tier] = f
			}
		}
	}

	Review = settings
}

// LevelValues returns the numeric values of the ordinal scale in order.
func (s *ReviewSettings) LevelValues() []int {
	values := make([]int, 0, len(s.ScoreLevels))
	for _, level := range s.ScoreLevels {
		values = append(values, level.Value)
	}
	return values
}

// IsValidScoreValue reports whether v is a member of the ordinal scale.
func (s *ReviewSettings) IsValidScoreValue(v int) bool {
	for _, level := range s.ScoreLevels {
		if level.Value == v {
			return true
		}
	}
	return false
}

// NearestLevel returns the score level whose value is closest to avg. Ties go
// to the higher level. The scale is never empty in a configured deployment.
func (s *ReviewSettings) NearestLevel(avg float64) ScoreLevel {
	best := s.ScoreLevels[0]
	bestDist := avg - float64(best.Value)
	if bestDist < 0 {
		bestDist = -bestDist
	}
	for _, level := range s.ScoreLevels[1:] {
		dist := avg - float64(level.Value)
		if dist < 0 {
			dist = -dist
		}
		if dist <= bestDist {
			best = level
			bestDist = dist
		}
	}
	return best
}

// ClassifyTier maps an overall average onto a quality tier. A nil average
// means the cycle is unscored.
func (s *ReviewSettings) ClassifyTier(overall *float64) models.QualityTier {
	if overall == nil {
		return models.TierUnscored
	}
	for _, bp := range s.TierBreakpoints {
		if *overall >= bp.Min {
			return bp.Tier
		}
	}
	return models.TierPoor
}

// ConfidenceBucket maps a reviewer count to a qualitative confidence label.
func (s *ReviewSettings) ConfidenceBucket(count int) string {
	switch {
	case count >= s.ConfidenceHigh:
		return "HIGH"
	case count >= s.ConfidenceMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// MultiplierFor returns the velocity weight for a tier, defaulting to 1.
func (s *ReviewSettings) MultiplierFor(tier models.QualityTier) float64 {
	if m, ok := s.TierMultipliers[tier]; ok {
		return m
	}
	return 1.0
}
