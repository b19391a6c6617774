// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"uplift/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var urgencies = []string{"low", "medium", "high", "critical"}

var skills = []string{
	"gis", "photography", "logistics", "fundraising", "web design",
	"legal", "translation", "field biology", "drone piloting",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser persists a volunteer account with a usable password ("password").
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     gofakeit.Username(),
		Email:        gofakeit.Email(),
		Password:     string(hashed),
		Location:     gofakeit.City(),
		ProfileImage: fmt.Sprintf("https://picsum.photos/seed/%s/200/200", gofakeit.UUID()),
	}
	for _, override := range overrides {
		override(user)
	}
	return user, f.db.Create(user).Error
}

// CreateOrganization persists a user together with a conservationist
// profile so it can publish campaigns under an organization name.
func (f *Factory) CreateOrganization() (*models.User, error) {
	user, err := f.CreateUser()
	if err != nil {
		return nil, err
	}
	org := &models.Conservationist{
		UserID:  user.ID,
		Name:    gofakeit.Company(),
		About:   gofakeit.Paragraph(1, 2, 8, " "),
		Website: gofakeit.URL(),
	}
	return user, f.db.Create(org).Error
}

// CreateCampaign persists a campaign with skill requests and its original
// announcement post, spread over the past maxDays days.
func (f *Factory) CreateCampaign(owner *models.User, maxDays int) (*models.Campaign, error) {
	if maxDays <= 0 {
		maxDays = 30
	}

	campaign := &models.Campaign{
		UserID:       owner.ID,
		Name:         gofakeit.Sentence(3),
		Description:  gofakeit.Paragraph(1, 3, 10, " "),
		CallToAction: gofakeit.Sentence(6),
		Urgency:      urgencies[f.rand.Intn(len(urgencies))],
		ImageURL:     fmt.Sprintf("https://picsum.photos/seed/%s/800/600", gofakeit.UUID()),
	}
	for i := 0; i < 1+f.rand.Intn(3); i++ {
		campaign.SkilledImpactRequests = append(campaign.SkilledImpactRequests, models.SkilledImpactRequest{
			Skill:       skills[f.rand.Intn(len(skills))],
			Description: gofakeit.Sentence(8),
		})
	}
	if err := f.db.Create(campaign).Error; err != nil {
		return nil, err
	}

	createdAt := f.pastTime(maxDays)
	post := &models.CampaignPost{
		CampaignID: campaign.ID,
		Body:       campaign.Description,
		ImageURL:   campaign.ImageURL,
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	if err := f.db.Model(post).Update("created_at", createdAt).Error; err != nil {
		return nil, err
	}
	if err := f.db.Model(campaign).Update("created_at", createdAt).Error; err != nil {
		return nil, err
	}
	return campaign, nil
}

// CreateUpdatePost appends an update post to the campaign.
func (f *Factory) CreateUpdatePost(campaign *models.Campaign, maxDays int) (*models.CampaignPost, error) {
	post := &models.CampaignPost{
		CampaignID: campaign.ID,
		Body:       gofakeit.Paragraph(1, 2, 12, " "),
		IsUpdate:   true,
	}
	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, f.db.Model(post).Update("created_at", f.pastTime(maxDays)).Error
}

// CreateComment attaches a comment by the given user to a post.
func (f *Factory) CreateComment(post *models.CampaignPost, user *models.User) (*models.Comment, error) {
	comment := &models.Comment{
		PostID: post.ID,
		UserID: user.ID,
		Body:   gofakeit.Sentence(10),
	}
	return comment, f.db.Create(comment).Error
}

// CreateSubmission files a pending application against a skill request.
func (f *Factory) CreateSubmission(request *models.SkilledImpactRequest, user *models.User) (*models.ApplicationSubmission, error) {
	sub := &models.ApplicationSubmission{
		SkilledImpactRequestID: request.ID,
		UserID:                 user.ID,
		Pitch:                  gofakeit.Paragraph(1, 2, 10, " "),
	}
	return sub, f.db.Create(sub).Error
}

func (f *Factory) pastTime(maxDays int) time.Time {
	return time.Now().
		Add(-time.Duration(f.rand.Intn(maxDays*24)) * time.Hour).
		Add(-time.Duration(f.rand.Intn(60)) * time.Minute)
}
