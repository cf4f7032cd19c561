// Command main runs the database seeder for FriendlyVoice.
package main

import (
	"flag"
	"log"

	"friendlyvoice/internal/config"
	"friendlyvoice/internal/database"
	"friendlyvoice/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of random users to create")
	numVoces := flag.Int("voces", 200, "Number of voces to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	fixtureOnly := flag.Bool("fixture-only", false, "Only create the well-known demo accounts")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if _, err := s.Fixture(); err != nil {
		log.Fatalf("❌ Fixture seeding failed: %v", err)
	}
	log.Println("✓ Demo accounts created (ana, carlos, laura, demo @friendlyvoice.app)")

	if !*fixtureOnly {
		users, err := s.SeedSocialMesh(*numUsers)
		if err != nil {
			log.Fatalf("❌ User seeding failed: %v", err)
		}
		if _, err := s.SeedEngagement(users, *numVoces); err != nil {
			log.Fatalf("❌ Engagement seeding failed: %v", err)
		}
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Println("📧 All seeded users have the password: password123")
}
