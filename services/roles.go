package services

import (
	"strings"

	"studio-board-api/config"
	"studio-board-api/models"
)

// ResolveEvaluatorRoles maps a user's company-role names onto evaluator roles
// via the configured role table. Unknown names map to nothing; the result is
// deduped and returned in canonical role order so repeated calls for the same
// input are identical.
func ResolveEvaluatorRoles(table map[string][]models.EvaluatorRole, companyRoles []string) []models.EvaluatorRole {
	seen := make(map[models.EvaluatorRole]bool)
	for _, name := range companyRoles {
		for _, role := range table[strings.TrimSpace(name)] {
			seen[role] = true
		}
	}

	resolved := make([]models.EvaluatorRole, 0, len(seen))
	for _, role := range models.EvaluatorRoleOrder {
		if seen[role] {
			resolved = append(resolved, role)
		}
	}
	return resolved
}

// IsEvaluator reports whether the user holds at least one evaluator role.
func IsEvaluator(roles []models.EvaluatorRole) bool {
	return len(roles) > 0
}

// IsNonViewer reports whether the user has any company role beyond the
// configured viewer set. Viewers see boards but nothing in this engine.
func IsNonViewer(settings *config.ReviewSettings, companyRoles []string) bool {
	for _, name := range companyRoles {
		if !settings.ViewerRoles[strings.TrimSpace(name)] {
			return true
		}
	}
	return false
}

// IsSummaryViewer reports whether the user may read aggregated metrics:
// evaluators always may, plus any configured summary-viewer company role.
func IsSummaryViewer(settings *config.ReviewSettings, companyRoles []string, roles []models.EvaluatorRole) bool {
	if IsEvaluator(roles) {
		return true
	}
	for _, name := range companyRoles {
		if settings.SummaryViewerRoles[strings.TrimSpace(name)] {
			return true
		}
	}
	return false
}

// IsSuperAdmin reports whether the user may manage dimensions and cycles.
func IsSuperAdmin(settings *config.ReviewSettings, user *models.User) bool {
	if user.IsSuperAdmin {
		return true
	}
	for _, role := range user.CompanyRoles {
		if settings.AdminRoles[role.RoleName] {
			return true
		}
	}
	return false
}
