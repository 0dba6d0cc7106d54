package entity

// Partial-update structs: one pointer field per updatable column. Only fields
// present in the request are applied; the maps feed gorm Updates directly so
// no statement text is ever assembled by hand.

// UserUpdates holds the updatable user fields.
type UserUpdates struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Role         *string
}

func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["nome"] = *u.Name
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.PasswordHash != nil {
		updates["senha"] = *u.PasswordHash
	}
	if u.Role != nil {
		updates["permissao"] = *u.Role
	}
	return updates
}

func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// CampaignUpdates holds the updatable campaign fields.
type CampaignUpdates struct {
	Name   *string
	Year   *int
	Status *string
	Banner *string
}

func (u CampaignUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["nome"] = *u.Name
	}
	if u.Year != nil {
		updates["ano"] = *u.Year
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	if u.Banner != nil {
		updates["banner"] = *u.Banner
	}
	return updates
}

func (u CampaignUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// CategoryUpdates holds the updatable category fields.
type CategoryUpdates struct {
	Name *string
}

func (u CategoryUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["nome"] = *u.Name
	}
	return updates
}

func (u CategoryUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// ItemUpdates holds the updatable item fields.
type ItemUpdates struct {
	Name        *string
	CampaignID  *uint
	CategoryID  *uint
	StartingBid *float64
	Banner169   *string
	Banner11    *string
}

func (u ItemUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["nome"] = *u.Name
	}
	if u.CampaignID != nil {
		updates["campanha_id"] = *u.CampaignID
	}
	if u.CategoryID != nil {
		updates["categoria_id"] = *u.CategoryID
	}
	if u.StartingBid != nil {
		updates["lance_inicial"] = *u.StartingBid
	}
	if u.Banner169 != nil {
		updates["banner_16_9"] = *u.Banner169
	}
	if u.Banner11 != nil {
		updates["banner_1_1"] = *u.Banner11
	}
	return updates
}

func (u ItemUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// SettingUpdates holds the updatable configuration fields.
type SettingUpdates struct {
	InstitutionName *string
	Logo            *string
	Phone           *string
	Email           *string
	Currency        *string
	HomeMessage     *string
}

func (u SettingUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.InstitutionName != nil {
		updates["nome_instituicao"] = *u.InstitutionName
	}
	if u.Logo != nil {
		updates["logo"] = *u.Logo
	}
	if u.Phone != nil {
		updates["telefone"] = *u.Phone
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.Currency != nil {
		updates["moeda"] = *u.Currency
	}
	if u.HomeMessage != nil {
		updates["mensagem_home"] = *u.HomeMessage
	}
	return updates
}

func (u SettingUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
