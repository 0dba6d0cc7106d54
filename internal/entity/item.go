package entity

import "time"

// DbItem represents an auctioned item. It belongs to exactly one campaign and
// one category. Its current price is derived from the bid ledger, never stored.
type DbItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `gorm:"column:nome;type:varchar(255);not null" json:"nome"`
	StartingBid float64   `gorm:"column:lance_inicial;type:decimal(10,2);not null" json:"lance_inicial"`
	Banner169   string    `gorm:"column:banner_16_9;type:text" json:"banner_16_9"`
	Banner11    string    `gorm:"column:banner_1_1;type:text" json:"banner_1_1"`
	CampaignID  uint      `gorm:"column:campanha_id;index;not null" json:"campanha_id"`
	CategoryID  uint      `gorm:"column:categoria_id;index;not null" json:"categoria_id"`

	Campaign DbCampaign `gorm:"foreignKey:CampaignID" json:"-"`
	Category DbCategory `gorm:"foreignKey:CategoryID" json:"-"`
}

// TableName overrides default pluralised name.
func (DbItem) TableName() string {
	return "itens"
}

// ItemSummary is the item shape returned in listings. CurrentBid is the
// derived current price: highest bid, or the starting bid when none exists.
type ItemSummary struct {
	ID          uint       `json:"id"`
	Name        string     `json:"nome"`
	StartingBid float64    `json:"lance_inicial"`
	Banner169   string     `json:"banner_16_9"`
	Banner11    string     `json:"banner_1_1"`
	Campaign    RefSummary `json:"campanha"`
	Category    RefSummary `json:"categoria"`
	CurrentBid  float64    `json:"lance_atual"`
}

// BidValue is a value+timestamp pair shown on the item detail page.
type BidValue struct {
	Value float64   `json:"valor"`
	Date  time.Time `json:"data"`
}

// ItemDetail is ItemSummary plus the most recent bids for the item.
type ItemDetail struct {
	ItemSummary
	LatestBids []BidValue `json:"ultimos_lances"`
}

type ItemCreateRequest struct {
	Name        string   `json:"nome"`
	CampaignID  *uint    `json:"campanha_id"`
	CategoryID  *uint    `json:"categoria_id"`
	StartingBid *float64 `json:"lance_inicial"`
	Banner169   *string  `json:"banner_16_9"`
	Banner11    *string  `json:"banner_1_1"`
}

type ItemUpdateRequest struct {
	Name        *string  `json:"nome,omitempty"`
	CampaignID  *uint    `json:"campanha_id,omitempty"`
	CategoryID  *uint    `json:"categoria_id,omitempty"`
	StartingBid *float64 `json:"lance_inicial,omitempty"`
	Banner169   *string  `json:"banner_16_9,omitempty"`
	Banner11    *string  `json:"banner_1_1,omitempty"`
}
