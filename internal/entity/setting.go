package entity

import "time"

// Defaults returned when no settings row exists yet.
const (
	DefaultInstitutionName = "Igreja"
	DefaultCurrency        = "R$"
	DefaultHomeMessage     = "Bem-vindo ao Leilão Missionário!"
)

// DbSetting holds the site-wide configuration. The latest row wins; when the
// table is empty the application serves the defaults above.
type DbSetting struct {
	ID              uint      `gorm:"primarykey" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	InstitutionName string    `gorm:"column:nome_instituicao;type:varchar(255)" json:"nome_instituicao"`
	Logo            string    `gorm:"column:logo;type:text" json:"logo"`
	Phone           string    `gorm:"column:telefone;type:varchar(50)" json:"telefone"`
	Email           string    `gorm:"column:email;type:varchar(255)" json:"email"`
	Currency        string    `gorm:"column:moeda;type:varchar(10)" json:"moeda"`
	HomeMessage     string    `gorm:"column:mensagem_home;type:text" json:"mensagem_home"`
}

// TableName overrides default pluralised name.
func (DbSetting) TableName() string {
	return "configuracoes"
}

// SettingResponse is the configuration shape returned to clients.
type SettingResponse struct {
	ID              *uint  `json:"id,omitempty"`
	InstitutionName string `json:"nome_instituicao"`
	Logo            string `json:"logo"`
	Phone           string `json:"telefone"`
	Email           string `json:"email"`
	Currency        string `json:"moeda"`
	HomeMessage     string `json:"mensagem_home"`
}

type SettingUpdateRequest struct {
	InstitutionName *string `json:"nome_instituicao,omitempty"`
	Logo            *string `json:"logo,omitempty"`
	Phone           *string `json:"telefone,omitempty"`
	Email           *string `json:"email,omitempty"`
	Currency        *string `json:"moeda,omitempty"`
	HomeMessage     *string `json:"mensagem_home,omitempty"`
}
