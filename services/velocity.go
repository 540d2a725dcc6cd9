package services

import (
	"sort"
	"time"

	"studio-board-api/config"
	"studio-board-api/models"
)

// VelocityItem is one completed card flattened for the velocity computation:
// its completion time, raw point weight and finalized quality tier.
type VelocityItem struct {
	CardID      int
	CompletedAt time.Time
	StoryPoints int
	Tier        models.QualityTier
	Scored      bool
}

// WeekBucket is the quality-adjusted throughput of one ISO week. Weeks start
// on Monday 00:00 UTC. AdjustmentFactor is nil when RawPoints is zero.
type WeekBucket struct {
	WeekStart        time.Time `json:"week_start"`
	TaskCount        int       `json:"task_count"`
	ScoredTaskCount  int       `json:"scored_task_count"`
	RawPoints        float64   `json:"raw_points"`
	AdjustedPoints   float64   `json:"adjusted_points"`
	AdjustmentDelta  float64   `json:"adjustment_delta"`
	AdjustmentFactor *float64  `json:"adjustment_factor"`
}

// VelocityReport is the chronologically sorted weekly series plus running
// totals computed before per-week rounding.
type VelocityReport struct {
	Weeks  []WeekBucket `json:"weeks"`
	Totals WeekBucket   `json:"totals"`
}

// QualityAdjustedVelocity buckets completed cards by ISO week and reweights
// their story points by the tier multiplier table. Pure computation.
func QualityAdjustedVelocity(items []VelocityItem, settings *config.ReviewSettings) VelocityReport {
	buckets := make(map[time.Time]*WeekBucket)
	for _, item := range items {
		start := weekStart(item.CompletedAt)
		bucket, ok := buckets[start]
		if !ok {
			bucket = &WeekBucket{WeekStart: start}
			buckets[start] = bucket
		}

		points := float64(item.StoryPoints)
		bucket.TaskCount++
		if item.Scored {
			bucket.ScoredTaskCount++
		}
		bucket.RawPoints += points
		bucket.AdjustedPoints += points * settings.MultiplierFor(item.Tier)
	}

	totals := WeekBucket{}
	weeks := make([]WeekBucket, 0, len(buckets))
	for _, bucket := range buckets {
		totals.TaskCount += bucket.TaskCount
		totals.ScoredTaskCount += bucket.ScoredTaskCount
		totals.RawPoints += bucket.RawPoints
		totals.AdjustedPoints += bucket.AdjustedPoints
		finishBucket(bucket)
		weeks = append(weeks, *bucket)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekStart.Before(weeks[j].WeekStart)
	})
	finishBucket(&totals)

	return VelocityReport{Weeks: weeks, Totals: totals}
}

func finishBucket(bucket *WeekBucket) {
	bucket.RawPoints = round2(bucket.RawPoints)
	bucket.AdjustedPoints = round2(bucket.AdjustedPoints)
	bucket.AdjustmentDelta = round2(bucket.AdjustedPoints - bucket.RawPoints)
	if bucket.RawPoints > 0 {
		factor := round2(bucket.AdjustedPoints / bucket.RawPoints)
		bucket.AdjustmentFactor = &factor
	}
}

// weekStart normalizes a timestamp to the Monday 00:00 UTC of its ISO week.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week that started the previous Monday
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -(weekday - 1))
}

// VelocitySeries loads done cards (optionally restricted to one project),
// resolves each card's final-cycle tier and produces the weekly report.
func (s *ReviewService) VelocitySeries(projectID *int) (*VelocityReport, error) {
	query := s.db.Where("status = ? AND delete_at IS NULL", models.CardStatusDone).
		Where("completed_at IS NOT NULL")
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var cards []models.Card
	if err := query.Find(&cards).Error; err != nil {
		return nil, internalError("failed to load completed cards: %v", err)
	}

	items := make([]VelocityItem, 0, len(cards))
	for i := range cards {
		tier, scored, err := s.FinalTier(cards[i].CardID)
		if err != nil {
			return nil, err
		}
		items = append(items, VelocityItem{
			CardID:      cards[i].CardID,
			CompletedAt: *cards[i].CompletedAt,
			StoryPoints: cards[i].StoryPointValue(),
			Tier:        tier,
			Scored:      scored,
		})
	}

	report := QualityAdjustedVelocity(items, s.settings)
	return &report, nil
}
