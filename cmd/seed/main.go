// Command main runs the database seeder for Uplift.
package main

import (
	"flag"
	"log"

	"uplift/internal/bootstrap"
	"uplift/internal/config"
	"uplift/internal/seed"
)

func main() {
	numOrgs := flag.Int("orgs", 10, "Number of organizations to create")
	numVolunteers := flag.Int("volunteers", 50, "Number of volunteer accounts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	s := seed.NewSeeder(db)
	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}
	if err := s.Demo(*numOrgs, *numVolunteers); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d organizations and %d volunteers", *numOrgs, *numVolunteers)
}
