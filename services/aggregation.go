package services

import (
	"math"
	"sort"
	"time"

	"studio-board-api/config"
	"studio-board-api/models"
)

// DimensionSummary is the aggregate of one dimension across a cycle's
// evaluations. Dimensions with zero scores are omitted from the summary.
type DimensionSummary struct {
	DimensionID   int     `json:"dimension_id"`
	DimensionName string  `json:"dimension_name"`
	Position      int     `json:"position"`
	Average       float64 `json:"average"`
	Count         int     `json:"count"`
	ScoreLabel    string  `json:"score_label"`
	Confidence    string  `json:"confidence"`
}

// DivergenceFlag signals that two evaluator roles disagree beyond the
// configured threshold on one dimension.
type DivergenceFlag struct {
	DimensionID   int                  `json:"dimension_id"`
	DimensionName string               `json:"dimension_name"`
	RoleA         models.EvaluatorRole `json:"role_a"`
	RoleB         models.EvaluatorRole `json:"role_b"`
	AverageA      float64              `json:"average_a"`
	AverageB      float64              `json:"average_b"`
	Difference    float64              `json:"difference"`
}

// CycleSummary is the full aggregate for one review cycle.
type CycleSummary struct {
	CycleID         int                `json:"cycle_id"`
	CycleNumber     int                `json:"cycle_number"`
	IsFinal         bool               `json:"is_final"`
	OpenedAt        time.Time          `json:"opened_at"`
	ClosedAt        *time.Time         `json:"closed_at,omitempty"`
	LockedAt        *time.Time         `json:"locked_at,omitempty"`
	EvaluationCount int                `json:"evaluation_count"`
	Dimensions      []DimensionSummary `json:"dimensions"`
	Divergences     []DivergenceFlag   `json:"divergences"`
	OverallAverage  *float64           `json:"overall_average"`
	QualityTier     models.QualityTier `json:"quality_tier"`
}

type scoreTriple struct {
	dimensionID int
	reviewerID  int
	value       float64
}

// AggregateCycle turns a cycle's raw scores into the summary: per-dimension
// averages, divergence flags, overall average and quality tier. Pure
// computation over the supplied data; identical inputs always produce an
// identical summary regardless of evaluation order. Values are only rounded
// for presentation, never mid-computation.
func AggregateCycle(cycle *models.ReviewCycle, dims []models.ReviewDimension, rolesByReviewer map[int][]models.EvaluatorRole, settings *config.ReviewSettings) CycleSummary {
	summary := CycleSummary{
		CycleID:         cycle.CycleID,
		CycleNumber:     cycle.CycleNumber,
		IsFinal:         cycle.IsFinal,
		OpenedAt:        cycle.OpenedAt,
		ClosedAt:        cycle.ClosedAt,
		LockedAt:        cycle.LockedAt,
		EvaluationCount: len(cycle.Evaluations),
		Dimensions:      []DimensionSummary{},
		Divergences:     []DivergenceFlag{},
		QualityTier:     models.TierUnscored,
	}

	dimByID := make(map[int]*models.ReviewDimension, len(dims))
	for i := range dims {
		dimByID[dims[i].DimensionID] = &dims[i]
	}

	// Flatten all scores into (dimension, reviewer, value) triples.
	triples := make([]scoreTriple, 0)
	for _, evaluation := range cycle.Evaluations {
		for _, score := range evaluation.Scores {
			triples = append(triples, scoreTriple{
				dimensionID: score.DimensionID,
				reviewerID:  evaluation.ReviewerID,
				value:       float64(score.Value),
			})
		}
	}

	byDimension := make(map[int][]scoreTriple)
	for _, t := range triples {
		byDimension[t.dimensionID] = append(byDimension[t.dimensionID], t)
	}

	dimensionIDs := make([]int, 0, len(byDimension))
	for id := range byDimension {
		dimensionIDs = append(dimensionIDs, id)
	}
	sort.Slice(dimensionIDs, func(i, j int) bool {
		pi, pj := math.MaxInt, math.MaxInt
		if d, ok := dimByID[dimensionIDs[i]]; ok {
			pi = d.Position
		}
		if d, ok := dimByID[dimensionIDs[j]]; ok {
			pj = d.Position
		}
		if pi != pj {
			return pi < pj
		}
		return dimensionIDs[i] < dimensionIDs[j]
	})

	var overallSum float64
	var scoredDimensions int
	for _, dimensionID := range dimensionIDs {
		scores := byDimension[dimensionID]

		var sum float64
		for _, t := range scores {
			sum += t.value
		}
		average := sum / float64(len(scores))
		overallSum += average
		scoredDimensions++

		name := ""
		position := 0
		if dim, ok := dimByID[dimensionID]; ok {
			name = dim.Name
			position = dim.Position
		}

		summary.Dimensions = append(summary.Dimensions, DimensionSummary{
			DimensionID:   dimensionID,
			DimensionName: name,
			Position:      position,
			Average:       round2(average),
			Count:         len(scores),
			ScoreLabel:    settings.NearestLevel(average).Label,
			Confidence:    settings.ConfidenceBucket(len(scores)),
		})

		summary.Divergences = append(summary.Divergences,
			divergencesFor(dimensionID, name, scores, rolesByReviewer, settings)...)
	}

	if scoredDimensions > 0 {
		overall := overallSum / float64(scoredDimensions)
		rounded := round2(overall)
		summary.OverallAverage = &rounded
		summary.QualityTier = settings.ClassifyTier(&overall)
	}
	return summary
}

// divergencesFor groups one dimension's scores by evaluator role and flags
// every unordered pair of distinct roles whose averages differ by at least
// the threshold. A reviewer holding several roles contributes to each.
func divergencesFor(dimensionID int, dimensionName string, scores []scoreTriple, rolesByReviewer map[int][]models.EvaluatorRole, settings *config.ReviewSettings) []DivergenceFlag {
	sums := make(map[models.EvaluatorRole]float64)
	counts := make(map[models.EvaluatorRole]int)
	for _, t := range scores {
		for _, role := range rolesByReviewer[t.reviewerID] {
			sums[role] += t.value
			counts[role]++
		}
	}

	flags := []DivergenceFlag{}
	// Walk pairs in canonical role order so the output is deterministic.
	order := models.EvaluatorRoleOrder
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			roleA, roleB := order[i], order[j]
			if counts[roleA] == 0 || counts[roleB] == 0 {
				continue
			}
			averageA := sums[roleA] / float64(counts[roleA])
			averageB := sums[roleB] / float64(counts[roleB])
			difference := math.Abs(averageA - averageB)
			if difference >= settings.DivergenceThreshold {
				flags = append(flags, DivergenceFlag{
					DimensionID:   dimensionID,
					DimensionName: dimensionName,
					RoleA:         roleA,
					RoleB:         roleB,
					AverageA:      round2(averageA),
					AverageB:      round2(averageB),
					Difference:    round2(difference),
				})
			}
		}
	}
	return flags
}

// round2 rounds to two decimals for presentation.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
