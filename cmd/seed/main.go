// Command main runs the database seeder for Cloudnine.
package main

import (
	"flag"
	"log"

	"cloudnine/internal/config"
	"cloudnine/internal/database"
	"cloudnine/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	numDiaries := flag.Int("diaries", 200, "Number of diaries to create")
	maxDays := flag.Int("max-days", 90, "How many days back diaries spread")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (fast, dev only)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Println("===============")
	log.Printf("Target: %d users, %d diaries, clean=%v\n", *numUsers, *numDiaries, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:   *numUsers,
		NumDiaries: *numDiaries,
		MaxDays:    *maxDays,
		SkipBcrypt: *skipBcrypt,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Run(); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Println("All done! The database is populated with test data.")
	log.Println("All test users have the password: password123")
}
