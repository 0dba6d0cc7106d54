package entity

import (
	"fmt"
	"time"
)

// DbBid is one row of the bid ledger. Bids are append-only: the repository
// exposes no update or delete path for them.
type DbBid struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ItemID      uint      `gorm:"column:item_id;index;not null" json:"item_id"`
	Value       float64   `gorm:"column:valor;type:decimal(10,2);not null" json:"valor"`
	BidderName  string    `gorm:"column:nome_participante;type:varchar(255);not null" json:"nome_participante"`
	BidderPhone string    `gorm:"column:telefone;type:varchar(50);not null" json:"telefone"`
	CreatedAt   time.Time `gorm:"column:data_lance" json:"data_lance"`

	Item DbItem `gorm:"foreignKey:ItemID" json:"-"`
}

// TableName overrides default pluralised name.
func (DbBid) TableName() string {
	return "lances"
}

// BidBelowCurrentError rejects a bid that does not strictly exceed the item's
// current price. Current carries the price so clients can show "must exceed X".
type BidBelowCurrentError struct {
	Current float64
}

func (e *BidBelowCurrentError) Error() string {
	return fmt.Sprintf("lance deve ser maior que o lance atual de %.2f", e.Current)
}

type BidCreateRequest struct {
	ItemID      *uint    `json:"item_id"`
	Value       *float64 `json:"valor"`
	BidderName  string   `json:"nome_participante"`
	BidderPhone string   `json:"telefone"`
}

// BidQuery carries the optional filters of the bid listing endpoint. Dates are
// accepted as-is and compared against the bid timestamp.
type BidQuery struct {
	ItemID     uint   `form:"item_id"`
	CategoryID uint   `form:"categoria_id"`
	DateFrom   string `form:"data_inicio"`
	DateTo     string `form:"data_fim"`
}

// BidSummary is the bid shape returned to clients, joined with its item (and,
// on the full listing, the item's category).
type BidSummary struct {
	ID          uint        `json:"id"`
	Value       float64     `json:"valor"`
	BidderName  string      `json:"nome_participante"`
	BidderPhone string      `json:"telefone"`
	Date        time.Time   `json:"data_lance"`
	Item        RefSummary  `json:"item"`
	Category    *RefSummary `json:"categoria,omitempty"`
}
