package entity

import "time"

const (
	// CampaignStatusActive marks a campaign that accepts new items.
	CampaignStatusActive = "ativa"
	// CampaignStatusClosed marks a finished campaign.
	CampaignStatusClosed = "encerrada"
)

// DbCampaign represents an auction campaign (one fundraising drive).
type DbCampaign struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:nome;type:varchar(255);not null" json:"nome"`
	Year      int       `gorm:"column:ano;not null" json:"ano"`
	Status    string    `gorm:"column:status;type:varchar(50);index;not null" json:"status"`
	Banner    string    `gorm:"column:banner;type:text" json:"banner"`
}

// TableName overrides default pluralised name.
func (DbCampaign) TableName() string {
	return "campanhas"
}

// CampaignSummary is the campaign shape returned to clients.
type CampaignSummary struct {
	ID     uint   `json:"id"`
	Name   string `json:"nome"`
	Year   int    `json:"ano"`
	Status string `json:"status"`
	Banner string `json:"banner"`
}

type CampaignCreateRequest struct {
	Name   string  `json:"nome"`
	Year   *int    `json:"ano"`
	Status string  `json:"status"`
	Banner *string `json:"banner"`
}

type CampaignUpdateRequest struct {
	Name   *string `json:"nome,omitempty"`
	Year   *int    `json:"ano,omitempty"`
	Status *string `json:"status,omitempty"`
	Banner *string `json:"banner,omitempty"`
}
