package seed

import (
	"fmt"
	"log/slog"

	"uplift/internal/models"

	"gorm.io/gorm"
)

// Seeder fills the database with a realistic mesh of organizations,
// campaigns, posts, comments and submissions.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes every seeded row. Order matters for foreign keys.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.Report{},
		&models.Comment{},
		&models.ApplicationSubmission{},
		&models.CampaignPost{},
		&models.SkilledImpactRequest{},
		&models.Campaign{},
		&models.Conservationist{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Unscoped().Delete(table).Error; err != nil {
			return fmt.Errorf("clear %T: %w", table, err)
		}
	}
	return nil
}

// Demo seeds numOrgs organizations with campaigns and numVolunteers
// volunteer accounts that comment and apply across them.
func (s *Seeder) Demo(numOrgs, numVolunteers int) error {
	volunteers := make([]*models.User, 0, numVolunteers)
	for i := 0; i < numVolunteers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("create volunteer: %w", err)
		}
		volunteers = append(volunteers, user)
	}

	var campaigns []*models.Campaign
	for i := 0; i < numOrgs; i++ {
		owner, err := s.factory.CreateOrganization()
		if err != nil {
			return fmt.Errorf("create organization: %w", err)
		}
		// A couple of deactivated owners so the feed filter has work to do.
		if i%7 == 6 {
			if err := s.db.Model(owner).Update("is_deactivated", true).Error; err != nil {
				return err
			}
		}

		for j := 0; j < 1+s.factory.rand.Intn(2); j++ {
			campaign, err := s.factory.CreateCampaign(owner, 30)
			if err != nil {
				return fmt.Errorf("create campaign: %w", err)
			}
			campaigns = append(campaigns, campaign)

			for k := 0; k < s.factory.rand.Intn(4); k++ {
				post, err := s.factory.CreateUpdatePost(campaign, 14)
				if err != nil {
					return err
				}
				for c := 0; c < s.factory.rand.Intn(3) && len(volunteers) > 0; c++ {
					commenter := volunteers[s.factory.rand.Intn(len(volunteers))]
					if _, err := s.factory.CreateComment(post, commenter); err != nil {
						return err
					}
				}
			}
		}
	}

	applied := 0
	for _, campaign := range campaigns {
		var requests []models.SkilledImpactRequest
		if err := s.db.Where("campaign_id = ?", campaign.ID).Find(&requests).Error; err != nil {
			return err
		}
		for i := range requests {
			for a := 0; a < s.factory.rand.Intn(3) && len(volunteers) > 0; a++ {
				applicant := volunteers[s.factory.rand.Intn(len(volunteers))]
				if _, err := s.factory.CreateSubmission(&requests[i], applicant); err != nil {
					return err
				}
				applied++
			}
		}
	}

	slog.Info("seeded demo data",
		slog.Int("organizations", numOrgs),
		slog.Int("volunteers", numVolunteers),
		slog.Int("campaigns", len(campaigns)),
		slog.Int("submissions", applied))
	return nil
}
