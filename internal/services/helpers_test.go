package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"monkeybets/internal/cache"
	"monkeybets/internal/config"
	"monkeybets/internal/database"
	"monkeybets/internal/models"
	"monkeybets/internal/repository"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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

type recordingPublisher struct {
	mu     sync.Mutex
	tables []string
}

func (p *recordingPublisher) Publish(table string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tables = append(p.tables, table)
}

func (p *recordingPublisher) Published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.tables...)
}

type fakeVerifier struct {
	sent    []string
	code    string
	sendErr error
	failAll error
}

func (f *fakeVerifier) SendCode(_ context.Context, phone string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, phone)
	return nil
}

func (f *fakeVerifier) CheckCode(_ context.Context, _ string, code string) (bool, error) {
	if f.failAll != nil {
		return false, f.failAll
	}
	return code == f.code, nil
}

type fixture struct {
	db        *gorm.DB
	repo      *repository.Repository
	publisher *recordingPublisher
	props     *PropService
	wagers    *WagerService
	drafts    *DraftService
	now       time.Time
}

func newFixture(t *testing.T, policy string) *fixture {
	t.Helper()
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	publisher := &recordingPublisher{}
	drafts := NewDraftService(cache.NewMemoryStore(), time.Minute)

	f := &fixture{
		db:        db,
		repo:      repo,
		publisher: publisher,
		drafts:    drafts,
		now:       time.Now().UTC().Truncate(time.Second),
	}
	if policy == "" {
		policy = config.WagerPolicySingle
	}
	if err := database.EnsureWagerPolicy(db, policy == config.WagerPolicySingle); err != nil {
		t.Fatalf("failed to apply wager policy: %v", err)
	}
	f.props = NewPropService(repo, publisher, nil, "https://monkeybets.test/", policy)
	f.wagers = NewWagerService(repo, publisher, nil, drafts, policy)
	clock := func() time.Time { return f.now }
	f.props.now = clock
	f.wagers.now = clock
	return f
}

func (f *fixture) monkey(t *testing.T, phone string) *models.Monkey {
	t.Helper()
	m := &models.Monkey{Phone: phone, PhoneVerified: true}
	if err := f.repo.CreateMonkey(context.Background(), m); err != nil {
		t.Fatalf("failed to create monkey: %v", err)
	}
	return m
}

func (f *fixture) prop(t *testing.T, creator uuid.UUID, name string, expiresIn time.Duration) *models.Prop {
	t.Helper()
	p, err := f.props.CreateProp(context.Background(), creator, name, f.now.Add(expiresIn))
	if err != nil {
		t.Fatalf("failed to create prop: %v", err)
	}
	return p
}

func (f *fixture) wager(t *testing.T, bettor, prop uuid.UUID, prediction bool, bananas int64) *models.Wager {
	t.Helper()
	w, err := f.wagers.PlaceWager(context.Background(), bettor, prop, &prediction, bananas, "")
	if err != nil {
		t.Fatalf("failed to place wager: %v", err)
	}
	return w
}

func boolPtr(b bool) *bool {
	return &b
}
