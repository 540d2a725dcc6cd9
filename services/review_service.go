package services

import (
	"errors"
	"time"

	"studio-board-api/config"
	"studio-board-api/models"

	"gorm.io/gorm"
)

// ReviewService owns the cycle and evaluation lifecycle: opening rounds,
// collecting and revising evaluations, and enforcing the locking state
// machine. All multi-row writes run inside one transaction.
type ReviewService struct {
	db       *gorm.DB
	settings *config.ReviewSettings
}

func NewReviewService(db *gorm.DB, settings *config.ReviewSettings) *ReviewService {
	return &ReviewService{db: db, settings: settings}
}

// ScoreEntry is one submitted (dimension, value) pair.
type ScoreEntry struct {
	DimensionID int `json:"dimension_id" binding:"required"`
	Value       int `json:"value" binding:"required"`
}

// CycleEvaluationView is what a reviewer sees when opening a cycle: which
// dimensions they may score, whether the round still accepts edits, and any
// submission they already made.
type CycleEvaluationView struct {
	Cycle              *models.ReviewCycle      `json:"cycle"`
	EligibleDimensions []models.ReviewDimension `json:"eligible_dimensions"`
	CanEdit            bool                     `json:"can_edit"`
	Evaluation         *models.Evaluation       `json:"evaluation,omitempty"`
}

// PendingCycle is one review round still waiting on the caller.
type PendingCycle struct {
	Cycle              models.ReviewCycle       `json:"cycle"`
	Card               models.Card              `json:"card"`
	EligibleDimensions []models.ReviewDimension `json:"eligible_dimensions"`
}

// ActiveDimensions loads the active dimension catalog with role sets, ordered
// by position.
func (s *ReviewService) ActiveDimensions() ([]models.ReviewDimension, error) {
	var dims []models.ReviewDimension
	if err := s.db.Preload("Roles").
		Where("is_active = ?", true).
		Order("position ASC").
		Find(&dims).Error; err != nil {
		return nil, internalError("failed to load review dimensions: %v", err)
	}
	return dims, nil
}

// GetCard loads a card by id.
func (s *ReviewService) GetCard(cardID int) (*models.Card, error) {
	var card models.Card
	if err := s.db.Where("card_id = ? AND delete_at IS NULL", cardID).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("card %d not found", cardID)
		}
		return nil, internalError("failed to load card: %v", err)
	}
	return &card, nil
}

// GetCycle loads a cycle together with its card.
func (s *ReviewService) GetCycle(cycleID int) (*models.ReviewCycle, error) {
	var cycle models.ReviewCycle
	if err := s.db.Preload("Card").Where("cycle_id = ?", cycleID).First(&cycle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("review cycle %d not found", cycleID)
		}
		return nil, internalError("failed to load review cycle: %v", err)
	}
	if cycle.Card == nil {
		return nil, internalError("review cycle %d has no card", cycleID)
	}
	return &cycle, nil
}

// OpenCycle starts the next review round for a card. Cycle numbers are dense
// and monotonically increasing per card, starting at 1.
func (s *ReviewService) OpenCycle(cardID int) (*models.ReviewCycle, error) {
	card, err := s.GetCard(cardID)
	if err != nil {
		return nil, err
	}

	var cycle models.ReviewCycle
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var maxNumber int
		row := tx.Model(&models.ReviewCycle{}).
			Where("card_id = ?", card.CardID).
			Select("COALESCE(MAX(cycle_number), 0)").
			Row()
		if err := row.Scan(&maxNumber); err != nil {
			return internalError("failed to number review cycle: %v", err)
		}

		cycle = models.ReviewCycle{
			CardID:      card.CardID,
			CycleNumber: maxNumber + 1,
			OpenedAt:    time.Now(),
		}
		if err := tx.Create(&cycle).Error; err != nil {
			return internalError("failed to open review cycle: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, AsServiceError(err)
	}
	cycle.Card = card
	return &cycle, nil
}

// CloseCycle marks the round as ended. Evaluations may still be created or
// edited until the cycle is locked.
func (s *ReviewService) CloseCycle(cycleID int) (*models.ReviewCycle, error) {
	cycle, err := s.GetCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.IsClosed() {
		return cycle, nil
	}

	now := time.Now()
	if err := s.db.Model(&models.ReviewCycle{}).
		Where("cycle_id = ?", cycle.CycleID).
		Update("closed_at", now).Error; err != nil {
		return nil, internalError("failed to close review cycle: %v", err)
	}
	cycle.ClosedAt = &now
	return cycle, nil
}

// LockCycle makes the cycle terminal for mutation. Locking is independent of
// closing: a force-completed card locks its open cycle as-is.
func (s *ReviewService) LockCycle(cycleID int) (*models.ReviewCycle, error) {
	cycle, err := s.GetCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.IsLocked() {
		return cycle, nil
	}

	now := time.Now()
	if err := s.db.Model(&models.ReviewCycle{}).
		Where("cycle_id = ?", cycle.CycleID).
		Update("locked_at", now).Error; err != nil {
		return nil, internalError("failed to lock review cycle: %v", err)
	}
	cycle.LockedAt = &now
	return cycle, nil
}

// MarkFinal flags the cycle as the card's definitive quality outcome. The
// store does not enforce exclusivity; readers pick the latest final cycle.
func (s *ReviewService) MarkFinal(cycleID int) (*models.ReviewCycle, error) {
	cycle, err := s.GetCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.IsFinal {
		return cycle, nil
	}

	if err := s.db.Model(&models.ReviewCycle{}).
		Where("cycle_id = ?", cycle.CycleID).
		Update("is_final", true).Error; err != nil {
		return nil, internalError("failed to mark review cycle final: %v", err)
	}
	cycle.IsFinal = true
	return cycle, nil
}

// eligibleForReviewer resolves the dimension set the reviewer may score on the
// cycle's card.
func (s *ReviewService) eligibleForReviewer(cycle *models.ReviewCycle, roles []models.EvaluatorRole) ([]models.ReviewDimension, error) {
	dims, err := s.ActiveDimensions()
	if err != nil {
		return nil, err
	}
	return ApplicableDimensions(cycle.Card, dims, roles), nil
}

// validateEntries checks a submission against the reviewer's eligible set:
// non-empty, no duplicate dimensions, every dimension eligible, every value on
// the ordinal scale. Any failure aborts the whole submission.
func (s *ReviewService) validateEntries(entries []ScoreEntry, eligible []models.ReviewDimension) error {
	if len(entries) == 0 {
		return validationError("at least one score is required")
	}

	eligibleIDs := make(map[int]bool, len(eligible))
	for _, dim := range eligible {
		eligibleIDs[dim.DimensionID] = true
	}

	seen := make(map[int]bool, len(entries))
	for _, entry := range entries {
		if entry.DimensionID <= 0 {
			return validationError("invalid dimension id %d", entry.DimensionID)
		}
		if seen[entry.DimensionID] {
			return validationError("duplicate score for dimension %d", entry.DimensionID)
		}
		seen[entry.DimensionID] = true

		if !eligibleIDs[entry.DimensionID] {
			return validationError("dimension %d is not eligible for this reviewer", entry.DimensionID)
		}
		if !s.settings.IsValidScoreValue(entry.Value) {
			return validationError("score value %d is not on the configured scale", entry.Value)
		}
	}
	return nil
}

// CreateEvaluation submits a reviewer's scores for a cycle. Preconditions per
// the lifecycle rules: evaluator role held, cycle unlocked, eligible set
// non-empty, no prior evaluation by this reviewer, all entries valid. The
// evaluation and its scores are inserted atomically.
func (s *ReviewService) CreateEvaluation(cycleID, reviewerID int, roles []models.EvaluatorRole, entries []ScoreEntry) (*models.Evaluation, error) {
	if !IsEvaluator(roles) {
		return nil, forbiddenError("caller has no evaluator role")
	}

	cycle, err := s.GetCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.IsLocked() {
		return nil, lockedError("review cycle %d is locked", cycle.CycleID)
	}

	eligible, err := s.eligibleForReviewer(cycle, roles)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, forbiddenError("no dimensions are scorable by this reviewer on this card")
	}
	if err := s.validateEntries(entries, eligible); err != nil {
		return nil, err
	}

	var existing models.Evaluation
	err = s.db.Where("cycle_id = ? AND reviewer_id = ?", cycle.CycleID, reviewerID).First(&existing).Error
	if err == nil {
		return nil, conflictError("reviewer already evaluated cycle %d", cycle.CycleID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalError("failed to check existing evaluation: %v", err)
	}

	now := time.Now()
	evaluation := models.Evaluation{
		CycleID:     cycle.CycleID,
		ReviewerID:  reviewerID,
		SubmittedAt: now,
		UpdatedAt:   now,
	}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&evaluation).Error; err != nil {
			// The unique (cycle_id, reviewer_id) index serializes concurrent
			// submissions; the second insert lands here.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflictError("reviewer already evaluated cycle %d", cycle.CycleID)
			}
			return internalError("failed to create evaluation: %v", err)
		}
		return s.insertScores(tx, &evaluation, entries)
	})
	if err != nil {
		return nil, AsServiceError(err)
	}
	return &evaluation, nil
}

// UpdateEvaluation revises an existing submission, replacing the full score
// collection. The original submission timestamp is preserved; the update
// timestamp is bumped.
func (s *ReviewService) UpdateEvaluation(cycleID, reviewerID int, roles []models.EvaluatorRole, entries []ScoreEntry) (*models.Evaluation, error) {
	if !IsEvaluator(roles) {
		return nil, forbiddenError("caller has no evaluator role")
	}

	cycle, err := s.GetCycle(cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.IsLocked() {
		return nil, lockedError("review cycle %d is locked", cycle.CycleID)
	}

	eligible, err := s.eligibleForReviewer(cycle, roles)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, forbiddenError("no dimensions are scorable by this reviewer on this card")
	}
	if err := s.validateEntries(entries, eligible); err != nil {
		return nil, err
	}

	var evaluation models.Evaluation
	if err := s.db.Where("cycle_id = ? AND reviewer_id = ?", cycle.CycleID, reviewerID).
		First(&evaluation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("no evaluation exists for this reviewer on cycle %d", cycle.CycleID)
		}
		return nil, internalError("failed to load evaluation: %v", err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("evaluation_id = ?", evaluation.EvaluationID).
			Delete(&models.EvaluationScore{}).Error; err != nil {
			return internalError("failed to clear previous scores: %v", err)
		}
		if err := s.insertScores(tx, &evaluation, entries); err != nil {
			return err
		}
		evaluation.UpdatedAt = time.Now()
		if err := tx.Model(&models.Evaluation{}).
			Where("evaluation_id = ?", evaluation.EvaluationID).
			Update("updated_at", evaluation.UpdatedAt).Error; err != nil {
			return internalError("failed to bump evaluation timestamp: %v", err)
		}
		return nil
	})
	if err != nil {
		return nil, AsServiceError(err)
	}
	return &evaluation, nil
}

func (s *ReviewService) insertScores(tx *gorm.DB, evaluation *models.Evaluation, entries []ScoreEntry) error {
	scores := make([]models.EvaluationScore, 0, len(entries))
	for _, entry := range entries {
		scores = append(scores, models.EvaluationScore{
			EvaluationID: evaluation.EvaluationID,
			DimensionID:  entry.DimensionID,
			Value:        entry.Value,
		})
	}
	if err := tx.Create(&scores).Error; err != nil {
		return internalError("failed to insert scores: %v", err)
	}
	evaluation.Scores = scores
	return nil
}

// ReviewerCycleView assembles the GET view for a reviewer: eligibility,
// editability, and any existing submission. Locked cycles still show the
// original submission.
func (s *ReviewService) ReviewerCycleView(cycleID, reviewerID int, roles []models.EvaluatorRole) (*CycleEvaluationView, error) {
	cycle, err := s.GetCycle(cycleID)
	if err != nil {
		return nil, err
	}

	eligible, err := s.eligibleForReviewer(cycle, roles)
	if err != nil {
		return nil, err
	}

	view := &CycleEvaluationView{
		Cycle:              cycle,
		EligibleDimensions: eligible,
		CanEdit:            !cycle.IsLocked() && len(eligible) > 0,
	}

	var evaluation models.Evaluation
	err = s.db.Preload("Scores").
		Where("cycle_id = ? AND reviewer_id = ?", cycle.CycleID, reviewerID).
		First(&evaluation).Error
	if err == nil {
		view.Evaluation = &evaluation
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internalError("failed to load evaluation: %v", err)
	}
	return view, nil
}

// PendingEvaluations lists unlocked cycles the caller has not yet scored and
// on which at least one dimension is eligible for them.
func (s *ReviewService) PendingEvaluations(reviewerID int, roles []models.EvaluatorRole) ([]PendingCycle, error) {
	if !IsEvaluator(roles) {
		return []PendingCycle{}, nil
	}

	dims, err := s.ActiveDimensions()
	if err != nil {
		return nil, err
	}

	var cycles []models.ReviewCycle
	if err := s.db.Preload("Card").
		Where("locked_at IS NULL").
		Where("cycle_id NOT IN (?)",
			s.db.Model(&models.Evaluation{}).Select("cycle_id").Where("reviewer_id = ?", reviewerID)).
		Order("opened_at ASC").
		Find(&cycles).Error; err != nil {
		return nil, internalError("failed to load pending cycles: %v", err)
	}

	pending := make([]PendingCycle, 0, len(cycles))
	for _, cycle := range cycles {
		if cycle.Card == nil || cycle.Card.DeleteAt != nil {
			continue
		}
		eligible := ApplicableDimensions(cycle.Card, dims, roles)
		if len(eligible) == 0 {
			continue
		}
		card := *cycle.Card
		cycle.Card = nil
		pending = append(pending, PendingCycle{
			Cycle:              cycle,
			Card:               card,
			EligibleDimensions: eligible,
		})
	}
	return pending, nil
}
