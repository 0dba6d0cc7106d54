package model

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"leilao/internal/config"
	"leilao/internal/entity"
)

func newTestRepository(t *testing.T) Repository {
	t.Helper()
	cfg := config.Config{
		DBType:         DBTypeSQLite,
		DBPath:         filepath.Join(t.TempDir(), "test.db"),
		DBMaxOpenConns: 1,
		DBMaxIdleConns: 1,
	}
	repo, err := InitRepository(&cfg)
	require.NoError(t, err)
	return repo
}

func createTestItem(t *testing.T, repo Repository, startingBid float64) *entity.DbItem {
	t.Helper()
	ctx := context.Background()

	campaign := entity.DbCampaign{Name: "Leilão 2026", Year: 2026, Status: entity.CampaignStatusActive}
	require.NoError(t, repo.CreateCampaign(ctx, &campaign))

	category := entity.DbCategory{Name: "Artesanato"}
	require.NoError(t, repo.CreateCategory(ctx, &category))

	item := entity.DbItem{
		Name:        "Toalha bordada",
		StartingBid: startingBid,
		CampaignID:  campaign.ID,
		CategoryID:  category.ID,
	}
	require.NoError(t, repo.CreateItem(ctx, &item))
	return &item
}

func TestCurrentPriceWithoutBids(t *testing.T) {
	repo := newTestRepository(t)
	item := createTestItem(t, repo, 100)

	price, err := repo.CurrentPrice(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, 100.0, price)
}

func TestPlaceBidStrictlyIncreasing(t *testing.T) {
	repo := newTestRepository(t)
	item := createTestItem(t, repo, 100)
	ctx := context.Background()

	// A bid equal to the starting price is not enough.
	equalStart := entity.DbBid{ItemID: item.ID, Value: 100, BidderName: "Ana", BidderPhone: "11999990000"}
	err := repo.PlaceBid(ctx, &equalStart)
	var below *entity.BidBelowCurrentError
	require.ErrorAs(t, err, &below)
	require.Equal(t, 100.0, below.Current)

	first := entity.DbBid{ItemID: item.ID, Value: 150, BidderName: "Ana", BidderPhone: "11999990000"}
	require.NoError(t, repo.PlaceBid(ctx, &first))

	price, err := repo.CurrentPrice(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 150.0, price)

	// Ties with the current price are rejected and never persisted.
	tie := entity.DbBid{ItemID: item.ID, Value: 150, BidderName: "Bruno", BidderPhone: "11988880000"}
	err = repo.PlaceBid(ctx, &tie)
	require.ErrorAs(t, err, &below)
	require.Equal(t, 150.0, below.Current)

	count, err := repo.CountBids(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	// Any strictly greater value wins, however small the difference.
	next := entity.DbBid{ItemID: item.ID, Value: 150.01, BidderName: "Bruno", BidderPhone: "11988880000"}
	require.NoError(t, repo.PlaceBid(ctx, &next))

	price, err = repo.CurrentPrice(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 150.01, price)
}

func TestPlaceBidConcurrentEqualValues(t *testing.T) {
	repo := newTestRepository(t)
	item := createTestItem(t, repo, 100)
	ctx := context.Background()

	// All bidders race with the same over-bid; the row lock serialises them,
	// so whoever commits first sets the price and everyone else ties with it.
	const bidders = 8
	errs := make(chan error, bidders)
	var wg sync.WaitGroup
	for i := 0; i < bidders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			bid := entity.DbBid{
				ItemID:      item.ID,
				Value:       150,
				BidderName:  fmt.Sprintf("Participante %d", n),
				BidderPhone: "11999990000",
			}
			errs <- repo.PlaceBid(ctx, &bid)
		}(i)
	}
	wg.Wait()
	close(errs)

	var successes, rejections int
	for err := range errs {
		if err == nil {
			successes++
			continue
		}
		var below *entity.BidBelowCurrentError
		require.ErrorAs(t, err, &below)
		require.Equal(t, 150.0, below.Current)
		rejections++
	}
	require.Equal(t, 1, successes)
	require.Equal(t, bidders-1, rejections)

	count, err := repo.CountBids(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	price, err := repo.CurrentPrice(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 150.0, price)
}

func TestPlaceBidUnknownItem(t *testing.T) {
	repo := newTestRepository(t)

	bid := entity.DbBid{ItemID: 9999, Value: 50, BidderName: "Ana", BidderPhone: "11999990000"}
	err := repo.PlaceBid(context.Background(), &bid)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCurrentPricesMixed(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	withBids := createTestItem(t, repo, 80)
	withoutBids := createTestItem(t, repo, 60)

	bid := entity.DbBid{ItemID: withBids.ID, Value: 95, BidderName: "Carla", BidderPhone: "11977770000"}
	require.NoError(t, repo.PlaceBid(ctx, &bid))

	prices, err := repo.CurrentPrices(ctx, []uint{withBids.ID, withoutBids.ID})
	require.NoError(t, err)
	require.Equal(t, 95.0, prices[withBids.ID])

	// Items without bids stay absent; callers fall back to the starting bid.
	_, ok := prices[withoutBids.ID]
	require.False(t, ok)
}

func TestListBidsCategoryFilter(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	item := createTestItem(t, repo, 10)

	otherCategory := entity.DbCategory{Name: "Doces"}
	require.NoError(t, repo.CreateCategory(ctx, &otherCategory))
	otherItem := entity.DbItem{
		Name:        "Bolo de fubá",
		StartingBid: 20,
		CampaignID:  item.CampaignID,
		CategoryID:  otherCategory.ID,
	}
	require.NoError(t, repo.CreateItem(ctx, &otherItem))

	require.NoError(t, repo.PlaceBid(ctx, &entity.DbBid{ItemID: item.ID, Value: 15, BidderName: "Ana", BidderPhone: "1"}))
	require.NoError(t, repo.PlaceBid(ctx, &entity.DbBid{ItemID: otherItem.ID, Value: 25, BidderName: "Bruno", BidderPhone: "2"}))

	all, err := repo.ListBids(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)

	filtered, err := repo.ListBids(ctx, &entity.BidQuery{CategoryID: otherCategory.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, otherItem.ID, filtered[0].ItemID)
	require.Equal(t, "Doces", filtered[0].Item.Category.Name)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := repo.Transaction(ctx, func(tx Repository) error {
		campaign := entity.DbCampaign{Name: "Descartada", Year: 2026, Status: entity.CampaignStatusActive}
		if err := tx.CreateCampaign(ctx, &campaign); err != nil {
			return err
		}
		if err := tx.AppendAudit(ctx, &entity.DbAuditEntry{Action: "Criou a campanha 'Descartada'"}); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	campaigns, err := repo.ListCampaigns(ctx, "")
	require.NoError(t, err)
	require.Empty(t, campaigns)

	entries, err := repo.ListAudit(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestUserDuplicateEmail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first := entity.DbUser{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: entity.UserRoleAdmin}
	require.NoError(t, repo.CreateUser(ctx, &first))

	dup := entity.DbUser{Name: "Outra Ana", Email: "ana@example.com", PasswordHash: "y", Role: entity.UserRoleManager}
	err := repo.CreateUser(ctx, &dup)
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserUpdateAndDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	user := entity.DbUser{Name: "Ana", Email: "ana@example.com", PasswordHash: "x", Role: entity.UserRoleManager}
	require.NoError(t, repo.CreateUser(ctx, &user))

	newRole := entity.UserRoleAdmin
	require.NoError(t, repo.UpdateUser(ctx, user.ID, entity.UserUpdates{Role: &newRole}))

	reloaded, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, entity.UserRoleAdmin, reloaded.Role)

	require.NoError(t, repo.DeleteUser(ctx, user.ID))
	_, err = repo.GetUserByID(ctx, user.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.DeleteUser(ctx, user.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSettingsLifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, err := repo.LatestSetting(ctx)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	setting := entity.DbSetting{
		InstitutionName: entity.DefaultInstitutionName,
		Currency:        entity.DefaultCurrency,
		HomeMessage:     entity.DefaultHomeMessage,
	}
	require.NoError(t, repo.CreateSetting(ctx, &setting))

	name := "Igreja Batista Central"
	require.NoError(t, repo.UpdateSetting(ctx, setting.ID, entity.SettingUpdates{InstitutionName: &name}))

	latest, err := repo.LatestSetting(ctx)
	require.NoError(t, err)
	require.Equal(t, name, latest.InstitutionName)
	require.Equal(t, entity.DefaultCurrency, latest.Currency)
}

func TestDashboardAggregates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	item := createTestItem(t, repo, 50)

	closed := entity.DbCampaign{Name: "Encerrada", Year: 2025, Status: entity.CampaignStatusClosed}
	require.NoError(t, repo.CreateCampaign(ctx, &closed))

	require.NoError(t, repo.PlaceBid(ctx, &entity.DbBid{ItemID: item.ID, Value: 60, BidderName: "Ana", BidderPhone: "1"}))
	require.NoError(t, repo.PlaceBid(ctx, &entity.DbBid{ItemID: item.ID, Value: 70, BidderName: "Bruno", BidderPhone: "2"}))

	active, err := repo.CountCampaignsByStatus(ctx, entity.CampaignStatusActive)
	require.NoError(t, err)
	require.Equal(t, int64(1), active)

	items, err := repo.CountItems(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), items)

	bids, err := repo.CountBids(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), bids)

	total, err := repo.SumBidValues(ctx)
	require.NoError(t, err)
	require.Equal(t, 130.0, total)

	latest, err := repo.LatestBids(ctx, 5)
	require.NoError(t, err)
	require.Len(t, latest, 2)
}
