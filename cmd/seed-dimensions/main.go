// Seeds a starter review-dimension catalog into an empty deployment.
// Existing dimensions (matched by name) are left untouched.
package main

import (
	"log"

	"studio-board-api/config"
	"studio-board-api/models"
	"studio-board-api/services"

	"github.com/joho/godotenv"
)

type seedDimension struct {
	name        string
	description string
	audience    string
	roles       []string
	artOnly     bool
}

var catalog = []seedDimension{
	{name: "Visual polish", description: "Finish quality of the delivered visuals", roles: []string{string(models.RoleLead), string(models.RoleHeadOfArt)}, artOnly: true},
	{name: "Requirement fit", description: "How well the work matches what was asked", audience: models.AudienceBoth},
	{name: "Technical soundness", description: "Robustness of the implementation", audience: models.AudienceLead},
	{name: "Timeliness", description: "Delivered within the agreed window", audience: models.AudiencePO},
	{name: "Communication", description: "Status updates and handoff quality", audience: models.AudienceBoth},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	config.InitDB()
	config.InitReviewSettings()

	svc := services.NewReviewService(config.DB, config.Review)

	existing, err := svc.ListDimensions(true)
	if err != nil {
		log.Fatal("Failed to list dimensions:", err)
	}
	byName := make(map[string]bool, len(existing))
	for _, dim := range existing {
		byName[dim.Name] = true
	}

	created := 0
	for _, seed := range catalog {
		if byName[seed.name] {
			log.Printf("Dimension %q already exists, skipping\n", seed.name)
			continue
		}
		description := seed.description
		if _, err := svc.CreateDimension(services.DimensionInput{
			Name:        seed.name,
			Description: &description,
			Audience:    seed.audience,
			Roles:       seed.roles,
			ArtOnly:     seed.artOnly,
		}); err != nil {
			log.Fatalf("Failed to create dimension %q: %v", seed.name, err)
		}
		created++
		log.Printf("Created dimension %q\n", seed.name)
	}

	log.Printf("Seeding completed, %d dimension(s) created\n", created)
}
