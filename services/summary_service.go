package services

import (
	"studio-board-api/models"
)

// CardQualityView is the card-level quality read model: the latest and final
// cycle summaries plus the full historical progression.
type CardQualityView struct {
	Card        models.Card    `json:"card"`
	Latest      *CycleSummary  `json:"latest,omitempty"`
	Final       *CycleSummary  `json:"final,omitempty"`
	Progression []CycleSummary `json:"progression"`
}

// CycleSummaryByID loads one cycle with all evaluations and scores and
// aggregates it. Reads are snapshot-based: a racing submission simply shows up
// on the next fetch.
func (s *ReviewService) CycleSummaryByID(cycleID int) (*CycleSummary, error) {
	var cycle models.ReviewCycle
	if err := s.db.Preload("Card").
		Preload("Evaluations.Scores").
		Where("cycle_id = ?", cycleID).
		First(&cycle).Error; err != nil {
		return nil, s.cycleLoadError(cycleID, err)
	}

	summary, err := s.aggregate(&cycle)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// CardQuality assembles the quality view for one card: per-cycle progression
// in round order, the latest round, and the definitive (final) round if one
// was marked. When several cycles carry the final flag the latest one wins.
func (s *ReviewService) CardQuality(cardID int) (*CardQualityView, error) {
	card, err := s.GetCard(cardID)
	if err != nil {
		return nil, err
	}

	var cycles []models.ReviewCycle
	if err := s.db.Preload("Evaluations.Scores").
		Where("card_id = ?", card.CardID).
		Order("cycle_number ASC").
		Find(&cycles).Error; err != nil {
		return nil, internalError("failed to load review cycles: %v", err)
	}

	view := &CardQualityView{
		Card:        *card,
		Progression: make([]CycleSummary, 0, len(cycles)),
	}

	for i := range cycles {
		cycles[i].Card = card
		summary, err := s.aggregate(&cycles[i])
		if err != nil {
			return nil, err
		}
		view.Progression = append(view.Progression, *summary)
		if cycles[i].IsFinal {
			view.Final = summary
		}
	}
	if len(view.Progression) > 0 {
		view.Latest = &view.Progression[len(view.Progression)-1]
	}
	return view, nil
}

// FinalTier resolves a card's definitive quality tier from its latest final
// cycle, UNSCORED when no final cycle exists or it collected no scores. The
// second return reports whether the final cycle had a non-null overall
// average.
func (s *ReviewService) FinalTier(cardID int) (models.QualityTier, bool, error) {
	var cycle models.ReviewCycle
	err := s.db.Preload("Evaluations.Scores").
		Where("card_id = ? AND is_final = ?", cardID, true).
		Order("cycle_number DESC").
		First(&cycle).Error
	if err != nil {
		if isNotFound(err) {
			return models.TierUnscored, false, nil
		}
		return models.TierUnscored, false, internalError("failed to load final cycle: %v", err)
	}

	summary, err := s.aggregate(&cycle)
	if err != nil {
		return models.TierUnscored, false, err
	}
	return summary.QualityTier, summary.OverallAverage != nil, nil
}

// aggregate resolves dimension metadata and reviewer roles for the cycle's
// evaluations and runs the pure aggregation engine. All dimensions are loaded
// (active or not) so historical scores on deactivated dimensions keep their
// names in old summaries.
func (s *ReviewService) aggregate(cycle *models.ReviewCycle) (*CycleSummary, error) {
	var dims []models.ReviewDimension
	if err := s.db.Preload("Roles").Order("position ASC").Find(&dims).Error; err != nil {
		return nil, internalError("failed to load review dimensions: %v", err)
	}

	rolesByReviewer, err := s.reviewerRoles(cycle)
	if err != nil {
		return nil, err
	}

	summary := AggregateCycle(cycle, dims, rolesByReviewer, s.settings)
	return &summary, nil
}

// reviewerRoles resolves evaluator roles for every reviewer that evaluated
// the cycle, for divergence grouping.
func (s *ReviewService) reviewerRoles(cycle *models.ReviewCycle) (map[int][]models.EvaluatorRole, error) {
	reviewerIDs := make([]int, 0, len(cycle.Evaluations))
	for _, evaluation := range cycle.Evaluations {
		reviewerIDs = append(reviewerIDs, evaluation.ReviewerID)
	}
	if len(reviewerIDs) == 0 {
		return map[int][]models.EvaluatorRole{}, nil
	}

	var users []models.User
	if err := s.db.Preload("CompanyRoles").
		Where("user_id IN ?", reviewerIDs).
		Find(&users).Error; err != nil {
		return nil, internalError("failed to load reviewers: %v", err)
	}

	rolesByReviewer := make(map[int][]models.EvaluatorRole, len(users))
	for i := range users {
		rolesByReviewer[users[i].UserID] = ResolveEvaluatorRoles(s.settings.RoleTable, users[i].CompanyRoleNames())
	}
	return rolesByReviewer, nil
}

func (s *ReviewService) cycleLoadError(cycleID int, err error) error {
	if isNotFound(err) {
		return notFoundError("review cycle %d not found", cycleID)
	}
	return internalError("failed to load review cycle: %v", err)
}
