package repository

import (
	"uplift/internal/models"

	"gorm.io/gorm"
)

// deleteCampaignCascade hard-deletes a campaign and everything hanging off
// it: posts, their comments, skilled impact requests, their submissions,
// and reports filed against the campaign. Runs inside the caller's
// transaction so a failure leaves nothing half-removed.
func deleteCampaignCascade(tx *gorm.DB, campaignID uint) error {
	var postIDs []uint
	if err := tx.Model(&models.CampaignPost{}).
		Where("campaign_id = ?", campaignID).
		Pluck("id", &postIDs).Error; err != nil {
		return err
	}
	if len(postIDs) > 0 {
		if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("campaign_id = ?", campaignID).Delete(&models.CampaignPost{}).Error; err != nil {
		return err
	}

	var requestIDs []uint
	if err := tx.Model(&models.SkilledImpactRequest{}).
		Where("campaign_id = ?", campaignID).
		Pluck("id", &requestIDs).Error; err != nil {
		return err
	}
	if len(requestIDs) > 0 {
		if err := tx.Where("skilled_impact_request_id IN ?", requestIDs).
			Delete(&models.ApplicationSubmission{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("campaign_id = ?", campaignID).Delete(&models.SkilledImpactRequest{}).Error; err != nil {
		return err
	}

	if err := tx.Where("post_id = ? AND table_name = ?", campaignID, "campaigns").
		Delete(&models.Report{}).Error; err != nil {
		return err
	}

	return tx.Unscoped().Delete(&models.Campaign{}, campaignID).Error
}
