package model

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"leilao/internal/auth"
	"leilao/internal/config"
	"leilao/internal/entity"
)

// SeedDefaultAdmin creates the first admin account when the user table is
// empty and seed credentials are configured. Without an admin no privileged
// endpoint is reachable, so a fresh install would be unusable otherwise.
func SeedDefaultAdmin(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	email := strings.TrimSpace(cfg.AdminEmail)
	password := strings.TrimSpace(cfg.AdminPassword)
	if email == "" || password == "" {
		return nil
	}

	count, err := repo.CountUsers(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Administrador"
	}

	admin := &entity.DbUser{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.UserRoleAdmin,
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		return err
	}

	logrus.WithField("email", email).Info("seeded initial admin user")
	return nil
}
