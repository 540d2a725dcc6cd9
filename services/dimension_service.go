package services

import (
	"strings"
	"time"

	"studio-board-api/models"

	"gorm.io/gorm"
)

// DimensionInput is the write payload for creating or updating a dimension.
// Roles may be given directly or through the LEAD/PO/BOTH audience shorthand;
// explicit roles win when both are present.
type DimensionInput struct {
	Name        string   `json:"name" binding:"required"`
	Description *string  `json:"description"`
	IsActive    *bool    `json:"is_active"`
	AppliesTo   *string  `json:"applies_to"`
	ArtOnly     bool     `json:"art_only"`
	Roles       []string `json:"roles"`
	Audience    string   `json:"audience"`
}

// resolveRoles normalizes the input role set. An empty set is accepted at the
// storage layer; such a dimension never matches a role-scoped eligibility
// query.
func (in *DimensionInput) resolveRoles() ([]models.EvaluatorRole, error) {
	source := in.Roles
	if len(source) == 0 && in.Audience != "" {
		switch strings.ToUpper(strings.TrimSpace(in.Audience)) {
		case models.AudienceLead:
			source = []string{string(models.RoleLead)}
		case models.AudiencePO:
			source = []string{string(models.RolePO)}
		case models.AudienceBoth:
			source = []string{string(models.RoleLead), string(models.RolePO)}
		default:
			return nil, validationError("unknown audience %q", in.Audience)
		}
	}

	seen := make(map[models.EvaluatorRole]bool, len(source))
	for _, raw := range source {
		role := models.EvaluatorRole(strings.ToUpper(strings.TrimSpace(raw)))
		switch role {
		case models.RoleLead, models.RolePO, models.RoleHeadOfArt:
			seen[role] = true
		default:
			return nil, validationError("unknown evaluator role %q", raw)
		}
	}

	roles := make([]models.EvaluatorRole, 0, len(seen))
	for _, role := range models.EvaluatorRoleOrder {
		if seen[role] {
			roles = append(roles, role)
		}
	}
	return roles, nil
}

// ListDimensions returns the dimension catalog ordered by position. Inactive
// dimensions are included only on request (the admin management view).
func (s *ReviewService) ListDimensions(includeInactive bool) ([]models.ReviewDimension, error) {
	query := s.db.Preload("Roles").Order("position ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	var dims []models.ReviewDimension
	if err := query.Find(&dims).Error; err != nil {
		return nil, internalError("failed to load review dimensions: %v", err)
	}
	return dims, nil
}

// CreateDimension appends a dimension at the end of the ordering and writes
// its role set in the same transaction.
func (s *ReviewService) CreateDimension(in DimensionInput) (*models.ReviewDimension, error) {
	roles, err := in.resolveRoles()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	dim := models.ReviewDimension{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		IsActive:    active,
		AppliesTo:   normalizeAppliesTo(in.AppliesTo),
		ArtOnly:     in.ArtOnly,
		CreateAt:    &now,
		UpdateAt:    &now,
	}
	if dim.Name == "" {
		return nil, validationError("dimension name is required")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var maxPosition int
		row := tx.Model(&models.ReviewDimension{}).Select("COALESCE(MAX(position), 0)").Row()
		if err := row.Scan(&maxPosition); err != nil {
			return internalError("failed to position dimension: %v", err)
		}
		dim.Position = maxPosition + 1

		if err := tx.Create(&dim).Error; err != nil {
			return internalError("failed to create dimension: %v", err)
		}
		return replaceDimensionRoles(tx, dim.DimensionID, roles)
	})
	if err != nil {
		return nil, AsServiceError(err)
	}
	return s.getDimension(dim.DimensionID)
}

// UpdateDimension rewrites a dimension's attributes and replaces its role set
// atomically. Position is managed through ReorderDimensions only.
func (s *ReviewService) UpdateDimension(dimensionID int, in DimensionInput) (*models.ReviewDimension, error) {
	roles, err := in.resolveRoles()
	if err != nil {
		return nil, err
	}

	dim, err := s.getDimension(dimensionID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, validationError("dimension name is required")
	}

	updates := map[string]interface{}{
		"name":       name,
		"art_only":   in.ArtOnly,
		"update_at":  time.Now(),
		"applies_to": normalizeAppliesTo(in.AppliesTo),
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ReviewDimension{}).
			Where("dimension_id = ?", dim.DimensionID).
			Updates(updates).Error; err != nil {
			return internalError("failed to update dimension: %v", err)
		}
		return replaceDimensionRoles(tx, dim.DimensionID, roles)
	})
	if err != nil {
		return nil, AsServiceError(err)
	}
	return s.getDimension(dim.DimensionID)
}

// DeleteDimension deactivates a dimension so historical scores survive. When
// no score references it the row and its role set are removed outright. The
// second return reports whether the delete was hard.
func (s *ReviewService) DeleteDimension(dimensionID int) (bool, error) {
	dim, err := s.getDimension(dimensionID)
	if err != nil {
		return false, err
	}

	var refs int64
	if err := s.db.Model(&models.EvaluationScore{}).
		Where("dimension_id = ?", dim.DimensionID).
		Count(&refs).Error; err != nil {
		return false, internalError("failed to count dimension references: %v", err)
	}

	if refs > 0 {
		if err := s.db.Model(&models.ReviewDimension{}).
			Where("dimension_id = ?", dim.DimensionID).
			Updates(map[string]interface{}{"is_active": false, "update_at": time.Now()}).Error; err != nil {
			return false, internalError("failed to deactivate dimension: %v", err)
		}
		return false, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dimension_id = ?", dim.DimensionID).
			Delete(&models.DimensionRole{}).Error; err != nil {
			return internalError("failed to delete dimension roles: %v", err)
		}
		if err := tx.Where("dimension_id = ?", dim.DimensionID).
			Delete(&models.ReviewDimension{}).Error; err != nil {
			return internalError("failed to delete dimension: %v", err)
		}
		return nil
	})
	if err != nil {
		return false, AsServiceError(err)
	}
	return true, nil
}

// ReorderDimensions rewrites the ordering from a complete permutation of the
// existing dimension ids. The set must match exactly: no duplicates, no
// unknown ids, no missing ids. Positions come out dense, starting at 1.
func (s *ReviewService) ReorderDimensions(orderedIDs []int) ([]models.ReviewDimension, error) {
	if len(orderedIDs) == 0 {
		return nil, validationError("dimension order is required")
	}

	seen := make(map[int]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return nil, validationError("duplicate dimension id %d in order", id)
		}
		seen[id] = true
	}

	var existing []models.ReviewDimension
	if err := s.db.Find(&existing).Error; err != nil {
		return nil, internalError("failed to load review dimensions: %v", err)
	}
	if len(existing) != len(orderedIDs) {
		return nil, validationError("order must list every dimension exactly once (%d given, %d exist)", len(orderedIDs), len(existing))
	}
	for _, dim := range existing {
		if !seen[dim.DimensionID] {
			return nil, validationError("order is missing dimension %d", dim.DimensionID)
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Park every row outside the live range first so the unique position
		// index never trips mid-permutation.
		for i, id := range orderedIDs {
			if err := tx.Model(&models.ReviewDimension{}).
				Where("dimension_id = ?", id).
				Update("position", -(i + 1)).Error; err != nil {
				return internalError("failed to reorder dimensions: %v", err)
			}
		}
		for i, id := range orderedIDs {
			if err := tx.Model(&models.ReviewDimension{}).
				Where("dimension_id = ?", id).
				Update("position", i+1).Error; err != nil {
				return internalError("failed to reorder dimensions: %v", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, AsServiceError(err)
	}
	return s.ListDimensions(true)
}

func (s *ReviewService) getDimension(dimensionID int) (*models.ReviewDimension, error) {
	var dim models.ReviewDimension
	if err := s.db.Preload("Roles").
		Where("dimension_id = ?", dimensionID).
		First(&dim).Error; err != nil {
		if isNotFound(err) {
			return nil, notFoundError("dimension %d not found", dimensionID)
		}
		return nil, internalError("failed to load dimension: %v", err)
	}
	return &dim, nil
}

func replaceDimensionRoles(tx *gorm.DB, dimensionID int, roles []models.EvaluatorRole) error {
	if err := tx.Where("dimension_id = ?", dimensionID).
		Delete(&models.DimensionRole{}).Error; err != nil {
		return internalError("failed to clear dimension roles: %v", err)
	}
	if len(roles) == 0 {
		return nil
	}
	rows := make([]models.DimensionRole, 0, len(roles))
	for _, role := range roles {
		rows = append(rows, models.DimensionRole{DimensionID: dimensionID, Role: role})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return internalError("failed to write dimension roles: %v", err)
	}
	return nil
}

func normalizeAppliesTo(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
