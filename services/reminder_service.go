package services

import (
	"fmt"
	"log"
	"strings"

	"studio-board-api/config"
	"studio-board-api/models"
)

// SendPendingReminders mails every evaluator that still owes an evaluation on
// an unlocked cycle. Returns the number of reminder mails sent. Mail failures
// for one recipient do not abort the rest.
func (s *ReviewService) SendPendingReminders() (int, error) {
	var users []models.User
	if err := s.db.Preload("CompanyRoles").
		Where("delete_at IS NULL").
		Find(&users).Error; err != nil {
		return 0, internalError("failed to load users: %v", err)
	}

	sent := 0
	for i := range users {
		roles := ResolveEvaluatorRoles(s.settings.RoleTable, users[i].CompanyRoleNames())
		if !IsEvaluator(roles) {
			continue
		}

		pending, err := s.PendingEvaluations(users[i].UserID, roles)
		if err != nil {
			return sent, err
		}
		if len(pending) == 0 {
			continue
		}

		if err := config.SendMail([]string{users[i].Email},
			fmt.Sprintf("%d review(s) waiting for you", len(pending)),
			reminderBody(&users[i], pending)); err != nil {
			log.Printf("Warning: reminder mail to %s failed: %v", users[i].Email, err)
			continue
		}
		sent++
	}
	return sent, nil
}

func reminderBody(user *models.User, pending []PendingCycle) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", user.UserFname)
	b.WriteString("<p>The following cards are waiting for your review:</p><ul>")
	for _, p := range pending {
		fmt.Fprintf(&b, "<li>%s — round %d (%d dimension(s) to score)</li>",
			p.Card.Title, p.Cycle.CycleNumber, len(p.EligibleDimensions))
	}
	b.WriteString("</ul>")
	return b.String()
}
