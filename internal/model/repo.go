package model

import (
	"context"

	"leilao/internal/entity"
)

// Repository defines the persistence operations of the auction backend.
type Repository interface {
	// Transaction runs fn against a repository bound to a single database
	// transaction. Any error from fn rolls the whole transaction back.
	Transaction(ctx context.Context, fn func(Repository) error) error

	// Users
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	GetUserByEmail(ctx context.Context, email string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context) ([]entity.DbUser, error)
	DeleteUser(ctx context.Context, id uint) error
	CountUsers(ctx context.Context) (int64, error)

	// Campaigns
	CreateCampaign(ctx context.Context, campaign *entity.DbCampaign) error
	UpdateCampaign(ctx context.Context, id uint, updates entity.CampaignUpdates) error
	GetCampaign(ctx context.Context, id uint) (*entity.DbCampaign, error)
	ListCampaigns(ctx context.Context, status string) ([]entity.DbCampaign, error)
	DeleteCampaign(ctx context.Context, id uint) error
	CountCampaignsByStatus(ctx context.Context, status string) (int64, error)

	// Categories
	CreateCategory(ctx context.Context, category *entity.DbCategory) error
	UpdateCategory(ctx context.Context, id uint, updates entity.CategoryUpdates) error
	GetCategory(ctx context.Context, id uint) (*entity.DbCategory, error)
	ListCategories(ctx context.Context) ([]entity.DbCategory, error)
	DeleteCategory(ctx context.Context, id uint) error

	// Items
	CreateItem(ctx context.Context, item *entity.DbItem) error
	UpdateItem(ctx context.Context, id uint, updates entity.ItemUpdates) error
	GetItem(ctx context.Context, id uint) (*entity.DbItem, error)
	ListItems(ctx context.Context, campaignID uint) ([]entity.DbItem, error)
	DeleteItem(ctx context.Context, id uint) error
	CountItems(ctx context.Context) (int64, error)

	// Bid ledger. PlaceBid is the only write path for bids; it enforces the
	// strictly-increasing current-price invariant inside one transaction and
	// returns *entity.BidBelowCurrentError when the bid does not beat it.
	PlaceBid(ctx context.Context, bid *entity.DbBid) error
	CurrentPrice(ctx context.Context, itemID uint) (float64, error)
	CurrentPrices(ctx context.Context, itemIDs []uint) (map[uint]float64, error)
	ListItemBids(ctx context.Context, itemID uint, limit int) ([]entity.DbBid, error)
	ListBids(ctx context.Context, query *entity.BidQuery) ([]entity.DbBid, error)
	LatestBids(ctx context.Context, limit int) ([]entity.DbBid, error)
	CountBids(ctx context.Context) (int64, error)
	SumBidValues(ctx context.Context) (float64, error)

	// Audit trail (append-only)
	AppendAudit(ctx context.Context, entry *entity.DbAuditEntry) error
	ListAudit(ctx context.Context, limit int) ([]entity.DbAuditEntry, error)

	// Settings
	LatestSetting(ctx context.Context) (*entity.DbSetting, error)
	CreateSetting(ctx context.Context, setting *entity.DbSetting) error
	UpdateSetting(ctx context.Context, id uint, updates entity.SettingUpdates) error
}
