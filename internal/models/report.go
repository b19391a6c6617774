package models

import "time"

// Report is a user-filed report against a record in another table.
// Reports referencing a campaign are removed when the campaign is deleted.
type Report struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PostID     uint      `gorm:"not null;index" json:"post_id"`
	TableName  string    `gorm:"not null;index" json:"table_name"`
	ReporterID uint      `gorm:"not null" json:"reporter_id"`
	Reason     string    `gorm:"type:text" json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
}
