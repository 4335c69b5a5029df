package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"monkeybets/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Each test gets its own named in-memory database.
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&models.Monkey{}, &models.Prop{}, &models.Wager{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func createMonkey(t *testing.T, repo *Repository, phone string) *models.Monkey {
	t.Helper()
	monkey := &models.Monkey{Phone: phone, PhoneVerified: true}
	if err := repo.CreateMonkey(context.Background(), monkey); err != nil {
		t.Fatalf("failed to create monkey: %v", err)
	}
	return monkey
}

func createProp(t *testing.T, repo *Repository, creator uuid.UUID, name string, expiry time.Time) *models.Prop {
	t.Helper()
	prop := &models.Prop{Name: name, CreatorID: creator, ExpiryDate: expiry.UTC()}
	if err := repo.CreateProp(context.Background(), prop); err != nil {
		t.Fatalf("failed to create prop: %v", err)
	}
	return prop
}

func createWager(t *testing.T, repo *Repository, prop, bettor uuid.UUID, prediction bool, bananas int64) *models.Wager {
	t.Helper()
	wager := &models.Wager{PropID: prop, BettorID: bettor, Prediction: prediction, Bananas: bananas}
	if err := repo.CreateWager(context.Background(), wager); err != nil {
		t.Fatalf("failed to create wager: %v", err)
	}
	return wager
}

func TestMonkeyLookups(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))

	missing, err := repo.GetMonkeyByPhone(ctx, "+15550000000")
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for unknown phone, got %v, %v", missing, err)
	}

	monkey := &models.Monkey{Phone: "+15551234567"}
	if err := repo.CreateMonkey(ctx, monkey); err != nil {
		t.Fatalf("CreateMonkey failed: %v", err)
	}

	dup := &models.Monkey{Phone: "+15551234567"}
	if err := repo.CreateMonkey(ctx, dup); err == nil {
		t.Error("expected unique violation for duplicate phone")
	}

	if err := repo.MarkMonkeyVerified(ctx, monkey.ID); err != nil {
		t.Fatalf("MarkMonkeyVerified failed: %v", err)
	}

	found, err := repo.GetMonkeyByID(ctx, monkey.ID)
	if err != nil || found == nil {
		t.Fatalf("GetMonkeyByID failed: %v", err)
	}
	if !found.PhoneVerified {
		t.Error("expected phone to be verified")
	}
}

func TestSetPropResultConditions(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))
	now := time.Now().UTC()

	creator := createMonkey(t, repo, "+15551111111")
	other := createMonkey(t, repo, "+15552222222")

	open := createProp(t, repo, creator.ID, "Open prop", now.Add(time.Hour))
	expired := createProp(t, repo, creator.ID, "Expired prop", now.Add(-time.Hour))

	if changed, err := repo.SetPropResult(ctx, open.ID, creator.ID, true, now); err != nil || changed {
		t.Errorf("open prop must not be resolvable, changed=%v err=%v", changed, err)
	}
	if changed, err := repo.SetPropResult(ctx, expired.ID, other.ID, true, now); err != nil || changed {
		t.Errorf("non-creator must not resolve, changed=%v err=%v", changed, err)
	}

	changed, err := repo.SetPropResult(ctx, expired.ID, creator.ID, false, now)
	if err != nil || !changed {
		t.Fatalf("expected creator to resolve expired prop, changed=%v err=%v", changed, err)
	}
	if changed, _ := repo.SetPropResult(ctx, expired.ID, creator.ID, true, now); changed {
		t.Error("result must only be set once")
	}

	stored, _ := repo.GetPropByID(ctx, expired.ID)
	if stored.Result == nil || *stored.Result != false {
		t.Errorf("expected stored result false, got %v", stored.Result)
	}
	if stored.ResolvedAt == nil {
		t.Error("expected resolved_at to be set")
	}
}

func TestSoftDeleteProp(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))
	now := time.Now().UTC()

	creator := createMonkey(t, repo, "+15551111111")
	other := createMonkey(t, repo, "+15552222222")
	prop := createProp(t, repo, creator.ID, "Delete me", now.Add(time.Hour))
	resolved := createProp(t, repo, creator.ID, "Keep me", now.Add(-time.Hour))
	if ok, _ := repo.SetPropResult(ctx, resolved.ID, creator.ID, true, now); !ok {
		t.Fatal("failed to resolve prop")
	}

	if changed, _ := repo.SoftDeleteProp(ctx, prop.ID, other.ID); changed {
		t.Error("only the creator may delete")
	}
	if changed, _ := repo.SoftDeleteProp(ctx, resolved.ID, creator.ID); changed {
		t.Error("resolved props cannot be deleted")
	}
	if changed, err := repo.SoftDeleteProp(ctx, prop.ID, creator.ID); err != nil || !changed {
		t.Fatalf("expected delete to succeed, changed=%v err=%v", changed, err)
	}
	if changed, _ := repo.SoftDeleteProp(ctx, prop.ID, creator.ID); changed {
		t.Error("deleting twice should be a no-op")
	}

	stored, err := repo.GetPropByID(ctx, prop.ID)
	if err != nil || stored == nil {
		t.Fatalf("deleted prop should still be addressable: %v", err)
	}
	if !stored.Deleted() {
		t.Error("expected prop to be flagged deleted")
	}

	active, _ := repo.ListActivePropsByCreator(ctx, creator.ID)
	if len(active) != 0 {
		t.Errorf("expected no active props, got %d", len(active))
	}
}

func TestListPropsByCreatorOrdering(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := NewRepository(db)
	now := time.Now().UTC()

	creator := createMonkey(t, repo, "+15551111111")
	older := createProp(t, repo, creator.ID, "Older open", now.Add(time.Hour))
	resolved := createProp(t, repo, creator.ID, "Resolved", now.Add(-time.Hour))
	newer := createProp(t, repo, creator.ID, "Newer open", now.Add(time.Hour))

	db.Model(older).Update("created_at", now.Add(-3*time.Minute))
	db.Model(resolved).Update("created_at", now.Add(-2*time.Minute))
	db.Model(newer).Update("created_at", now.Add(-1*time.Minute))
	repo.SetPropResult(ctx, resolved.ID, creator.ID, true, now)

	props, err := repo.ListPropsByCreator(ctx, creator.ID)
	if err != nil {
		t.Fatalf("ListPropsByCreator failed: %v", err)
	}
	if len(props) != 3 {
		t.Fatalf("expected 3 props, got %d", len(props))
	}
	want := []uuid.UUID{newer.ID, older.ID, resolved.ID}
	for i, id := range want {
		if props[i].ID != id {
			t.Errorf("position %d: expected %s, got %s (%s)", i, id, props[i].ID, props[i].Name)
		}
	}
}

func TestWagerQueries(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))
	now := time.Now().UTC()

	creator := createMonkey(t, repo, "+15551111111")
	bettor := createMonkey(t, repo, "+15552222222")

	active := createProp(t, repo, creator.ID, "Active", now.Add(time.Hour))
	deleted := createProp(t, repo, creator.ID, "Deleted", now.Add(time.Hour))

	createWager(t, repo, active.ID, bettor.ID, true, 75)
	createWager(t, repo, active.ID, creator.ID, false, 25)
	createWager(t, repo, deleted.ID, bettor.ID, false, 10)
	repo.SoftDeleteProp(ctx, deleted.ID, creator.ID)

	wagers, err := repo.ListActiveWagersByBettor(ctx, bettor.ID)
	if err != nil {
		t.Fatalf("ListActiveWagersByBettor failed: %v", err)
	}
	if len(wagers) != 1 || wagers[0].PropID != active.ID {
		t.Fatalf("expected only the active wager, got %d", len(wagers))
	}
	if wagers[0].Prop == nil || wagers[0].Prop.Name != "Active" {
		t.Error("expected prop to be preloaded")
	}

	stakes, err := repo.ListStakes(ctx, active.ID)
	if err != nil {
		t.Fatalf("ListStakes failed: %v", err)
	}
	if len(stakes) != 2 {
		t.Errorf("expected 2 stakes, got %d", len(stakes))
	}

	all, _ := repo.ListStakes(ctx)
	if len(all) != 3 {
		t.Errorf("expected 3 stakes without a filter, got %d", len(all))
	}

	count, _ := repo.CountWagersByBettorOnProp(ctx, bettor.ID, active.ID)
	if count != 1 {
		t.Errorf("expected 1 wager, got %d", count)
	}

	onProp, _ := repo.ListWagersByProp(ctx, active.ID)
	if len(onProp) != 2 {
		t.Errorf("expected 2 wagers on prop, got %d", len(onProp))
	}
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))
	now := time.Now().UTC()

	creator := createMonkey(t, repo, "+15551111111")
	prop := createProp(t, repo, creator.ID, "Tx", now.Add(time.Hour))

	err := repo.Transaction(ctx, func(tx *Repository) error {
		if err := tx.CreateWager(ctx, &models.Wager{PropID: prop.ID, BettorID: creator.ID, Prediction: true, Bananas: 5}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	if err == nil {
		t.Fatal("expected transaction error")
	}

	wagers, _ := repo.ListWagersByProp(ctx, prop.ID)
	if len(wagers) != 0 {
		t.Errorf("expected rollback, found %d wagers", len(wagers))
	}
}

func TestLockPropByID(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupTestDB(t))
	now := time.Now().UTC()

	creator := createMonkey(t, repo, "+15551111111")
	prop := createProp(t, repo, creator.ID, "Locked", now.Add(time.Hour))
	repo.SoftDeleteProp(ctx, prop.ID, creator.ID)

	err := repo.Transaction(ctx, func(tx *Repository) error {
		locked, err := tx.LockPropByID(ctx, prop.ID)
		if err != nil {
			return err
		}
		if locked == nil || !locked.Deleted() {
			t.Errorf("expected the deleted prop, got %+v", locked)
		}

		missing, err := tx.LockPropByID(ctx, uuid.New())
		if err != nil {
			return err
		}
		if missing != nil {
			t.Errorf("expected nil for a missing prop, got %+v", missing)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("transaction failed: %v", err)
	}
}

func TestLockPropByIDSelectsForUpdate(t *testing.T) {
	db, err := gorm.Open(postgres.Open("host=localhost user=monkey dbname=monkeybets sslmode=disable"), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open dry-run dialector: %v", err)
	}

	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		return lockedProp(tx, uuid.New()).First(&models.Prop{})
	})
	if !strings.Contains(sql, "FOR UPDATE") {
		t.Errorf("expected a row lock, got %q", sql)
	}
	if strings.Contains(sql, "deleted_at IS NULL") {
		t.Errorf("expected soft-deleted props to stay visible, got %q", sql)
	}
}
