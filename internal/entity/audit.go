package entity

import "time"

// DbAuditEntry is an immutable record of a privileged mutation. UserID is
// nullable: the acting user may be deleted later while the entry remains.
type DbAuditEntry struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    *uint     `gorm:"column:usuario_id;index" json:"usuario_id"`
	Action    string    `gorm:"column:acao;type:text;not null" json:"acao"`
	CreatedAt time.Time `gorm:"column:data_acao" json:"data_acao"`

	User *DbUser `gorm:"foreignKey:UserID" json:"-"`
}

// TableName overrides default pluralised name.
func (DbAuditEntry) TableName() string {
	return "auditoria"
}

// AuditSummary is the audit entry shape returned to clients.
type AuditSummary struct {
	ID     uint       `json:"id"`
	Action string     `json:"acao"`
	Date   time.Time  `json:"data_acao"`
	User   *AuditUser `json:"usuario"`
}

// AuditUser identifies the acting user of an audit entry, when still present.
type AuditUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
}
