package entity

import "time"

const (
	// UserRoleAdmin may manage every resource, including users and settings.
	UserRoleAdmin = "admin"
	// UserRoleManager may manage campaigns, categories and items.
	UserRoleManager = "gestor"
)

// DbUser represents a persisted staff account.
type DbUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Name         string    `gorm:"column:nome;type:varchar(255);not null" json:"nome"`
	Email        string    `gorm:"column:email;type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"column:senha;type:varchar(255);not null" json:"-"`
	Role         string    `gorm:"column:permissao;type:varchar(50);index;not null" json:"permissao"`
}

// TableName overrides default pluralised name.
func (DbUser) TableName() string {
	return "usuarios"
}

// UserSummary is the user shape returned to clients. The password hash never
// leaves the server.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email"`
	Role  string `json:"permissao"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"senha"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserSummary `json:"user"`
}

type UserCreateRequest struct {
	Name     string `json:"nome"`
	Email    string `json:"email"`
	Password string `json:"senha"`
	Role     string `json:"permissao"`
}

type UserUpdateRequest struct {
	Name     *string `json:"nome,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"senha,omitempty"`
	Role     *string `json:"permissao,omitempty"`
}

// ValidRole reports whether the provided role is one the system accepts.
func ValidRole(role string) bool {
	switch role {
	case UserRoleAdmin, UserRoleManager:
		return true
	default:
		return false
	}
}
