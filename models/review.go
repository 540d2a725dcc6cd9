package models

import "time"

// EvaluatorRole is the closed set of reviewer categories used for eligibility
// and divergence grouping.
type EvaluatorRole string

const (
	RoleLead      EvaluatorRole = "LEAD"
	RolePO        EvaluatorRole = "PO"
	RoleHeadOfArt EvaluatorRole = "HEAD_OF_ART"
)

// EvaluatorRoleOrder fixes the canonical ordering of evaluator roles so that
// resolved role sets and divergence pairs are stable across calls.
var EvaluatorRoleOrder = []EvaluatorRole{RoleLead, RolePO, RoleHeadOfArt}

// Audience is the two-role shorthand for the common LEAD/PO cases. The
// dimension's role set remains the source of truth; the shorthand is derived.
const (
	AudienceLead = "LEAD"
	AudiencePO   = "PO"
	AudienceBoth = "BOTH"
)

// QualityTier is the discretized bucket of overall cycle quality.
type QualityTier string

const (
	TierUnscored  QualityTier = "UNSCORED"
	TierPoor      QualityTier = "POOR"
	TierFair      QualityTier = "FAIR"
	TierGood      QualityTier = "GOOD"
	TierExcellent QualityTier = "EXCELLENT"
)

// ReviewDimension is one named axis of quality a card can be scored on.
type ReviewDimension struct {
	DimensionID int        `gorm:"primaryKey;column:dimension_id" json:"dimension_id"`
	Name        string     `gorm:"column:name" json:"name"`
	Description *string    `gorm:"column:description" json:"description,omitempty"`
	Position    int        `gorm:"column:position;unique" json:"position"`
	IsActive    bool       `gorm:"column:is_active" json:"is_active"`
	AppliesTo   *string    `gorm:"column:applies_to" json:"applies_to,omitempty"`
	ArtOnly     bool       `gorm:"column:art_only" json:"art_only"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Roles []DimensionRole `gorm:"foreignKey:DimensionID" json:"roles,omitempty"`
}

// DimensionRole is one evaluator role allowed to score a dimension.
type DimensionRole struct {
	DimensionRoleID int           `gorm:"primaryKey;column:dimension_role_id" json:"dimension_role_id"`
	DimensionID     int           `gorm:"column:dimension_id;index:idx_dimension_role,unique" json:"dimension_id"`
	Role            EvaluatorRole `gorm:"column:role;index:idx_dimension_role,unique" json:"role"`
}

// RoleSet returns the dimension's evaluator roles in canonical order.
func (d *ReviewDimension) RoleSet() []EvaluatorRole {
	seen := make(map[EvaluatorRole]bool, len(d.Roles))
	for _, r := range d.Roles {
		seen[r.Role] = true
	}
	out := make([]EvaluatorRole, 0, len(seen))
	for _, role := range EvaluatorRoleOrder {
		if seen[role] {
			out = append(out, role)
		}
	}
	return out
}

// HasRole reports whether the dimension is scorable by the given role.
func (d *ReviewDimension) HasRole(role EvaluatorRole) bool {
	for _, r := range d.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// Audience returns the LEAD/PO shorthand for the dimension's role set, or ""
// when the set is not expressible in two-role terms (e.g. HEAD_OF_ART only).
func (d *ReviewDimension) Audience() string {
	lead := d.HasRole(RoleLead)
	po := d.HasRole(RolePO)
	switch {
	case lead && po:
		return AudienceBoth
	case lead:
		return AudienceLead
	case po:
		return AudiencePO
	}
	return ""
}

// ReviewCycle is one review round for one card. Closed and locked are
// independent flags: a cycle may be locked while still open if the card is
// force-completed.
type ReviewCycle struct {
	CycleID     int        `gorm:"primaryKey;column:cycle_id" json:"cycle_id"`
	CardID      int        `gorm:"column:card_id;index:idx_card_cycle_number,unique" json:"card_id"`
	CycleNumber int        `gorm:"column:cycle_number;index:idx_card_cycle_number,unique" json:"cycle_number"`
	IsFinal     bool       `gorm:"column:is_final" json:"is_final"`
	OpenedAt    time.Time  `gorm:"column:opened_at" json:"opened_at"`
	ClosedAt    *time.Time `gorm:"column:closed_at" json:"closed_at,omitempty"`
	LockedAt    *time.Time `gorm:"column:locked_at" json:"locked_at,omitempty"`

	// Relations
	Card        *Card        `gorm:"foreignKey:CardID" json:"card,omitempty"`
	Evaluations []Evaluation `gorm:"foreignKey:CycleID" json:"evaluations,omitempty"`
}

// IsLocked reports whether evaluation writes are rejected for this cycle.
func (c *ReviewCycle) IsLocked() bool {
	return c.LockedAt != nil
}

// IsClosed reports whether the review round has ended. Evaluations may still
// be created or edited until the cycle is locked.
func (c *ReviewCycle) IsClosed() bool {
	return c.ClosedAt != nil
}

// Evaluation is one reviewer's submission for one cycle. At most one exists
// per (cycle, reviewer); revision replaces the score collection wholesale.
type Evaluation struct {
	EvaluationID int       `gorm:"primaryKey;column:evaluation_id" json:"evaluation_id"`
	CycleID      int       `gorm:"column:cycle_id;index:idx_cycle_reviewer,unique" json:"cycle_id"`
	ReviewerID   int       `gorm:"column:reviewer_id;index:idx_cycle_reviewer,unique" json:"reviewer_id"`
	SubmittedAt  time.Time `gorm:"column:submitted_at" json:"submitted_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`

	// Relations
	Reviewer *User             `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Scores   []EvaluationScore `gorm:"foreignKey:EvaluationID" json:"scores,omitempty"`
}

// EvaluationScore is one ordinal rating of one dimension within an evaluation.
type EvaluationScore struct {
	ScoreID      int `gorm:"primaryKey;column:score_id" json:"score_id"`
	EvaluationID int `gorm:"column:evaluation_id;index:idx_evaluation_dimension,unique" json:"evaluation_id"`
	DimensionID  int `gorm:"column:dimension_id;index:idx_evaluation_dimension,unique" json:"dimension_id"`
	Value        int `gorm:"column:value" json:"value"`
}

// TableName overrides
func (ReviewDimension) TableName() string {
	return "review_dimensions"
}

func (DimensionRole) TableName() string {
	return "dimension_roles"
}

func (ReviewCycle) TableName() string {
	return "review_cycles"
}

func (Evaluation) TableName() string {
	return "evaluations"
}

func (EvaluationScore) TableName() string {
	return "evaluation_scores"
}
