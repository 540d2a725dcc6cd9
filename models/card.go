package models

import "time"

// Card types understood by the eligibility predicate.
const (
	CardTypeAsset   = "asset"
	CardTypeFeature = "feature"
	CardTypeChore   = "chore"
)

// Card statuses. Velocity only counts cards in CardStatusDone.
const (
	CardStatusOpen     = "open"
	CardStatusInReview = "in_review"
	CardStatusDone     = "done"
	CardStatusArchived = "archived"
)

type Project struct {
	ProjectID   int        `gorm:"primaryKey;column:project_id" json:"project_id"`
	ProjectName string     `gorm:"column:project_name" json:"project_name"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Card is the reviewable unit. Board/list placement and the rest of the card
// surface live outside this service; only the fields the review engine reads
// are modeled here.
type Card struct {
	CardID      int        `gorm:"primaryKey;column:card_id" json:"card_id"`
	ProjectID   int        `gorm:"column:project_id" json:"project_id"`
	Title       string     `gorm:"column:title" json:"title"`
	CardType    string     `gorm:"column:card_type" json:"card_type"`
	HasArtwork  bool       `gorm:"column:has_artwork" json:"has_artwork"`
	StoryPoints *int       `gorm:"column:story_points" json:"story_points,omitempty"`
	Status      string     `gorm:"column:status" json:"status"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreateAt    *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt    *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt    *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Project *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}

// StoryPointValue returns the card's raw point weight, 0 when absent or invalid.
func (c *Card) StoryPointValue() int {
	if c.StoryPoints == nil || *c.StoryPoints < 0 {
		return 0
	}
	return *c.StoryPoints
}

// TableName overrides
func (Project) TableName() string {
	return "projects"
}

func (Card) TableName() string {
	return "cards"
}
