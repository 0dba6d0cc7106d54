package entity

import "time"

// DbCategory represents an item category (lookup entity).
type DbCategory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"column:nome;type:varchar(255);uniqueIndex;not null" json:"nome"`
}

// TableName overrides default pluralised name.
func (DbCategory) TableName() string {
	return "categorias"
}

// CategorySummary is the category shape returned to clients.
type CategorySummary struct {
	ID   uint   `json:"id"`
	Name string `json:"nome"`
}

type CategoryRequest struct {
	Name string `json:"nome"`
}

// RefSummary is a minimal id+name reference embedded in other responses.
type RefSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"nome"`
}
