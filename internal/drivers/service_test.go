package drivers

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/skburgers/backend/pkg/config"
	"github.com/skburgers/backend/pkg/db/models"
	"github.com/skburgers/backend/pkg/enums"
	pkgerrors "github.com/skburgers/backend/pkg/errors"
	"github.com/skburgers/backend/pkg/security"
)

var testPassword = config.PasswordConfig{
	ArgonMemoryKB:    32768,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type fakeRepo struct {
	drivers  map[uuid.UUID]*models.Driver
	updates  map[uuid.UUID]map[string]any
	notFound bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		drivers: make(map[uuid.UUID]*models.Driver),
		updates: make(map[uuid.UUID]map[string]any),
	}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, driver *models.Driver) (*models.Driver, error) {
	f.drivers[driver.ID] = driver
	return driver, nil
}

func (f *fakeRepo) Find(ctx context.Context, id uuid.UUID) (*models.Driver, error) {
	if d, ok := f.drivers[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) List(ctx context.Context) ([]models.Driver, error) {
	out := make([]models.Driver, 0, len(f.drivers))
	for _, d := range f.drivers {
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeRepo) ListByStatus(ctx context.Context, status enums.DriverStatus) ([]models.Driver, error) {
	var out []models.Driver
	for _, d := range f.drivers {
		if d.Status == status {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if f.notFound {
		return gorm.ErrRecordNotFound
	}
	f.updates[id] = updates
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.drivers[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.drivers, id)
	return nil
}

func seedDriver(t *testing.T, repo *fakeRepo, name, pin string, status enums.DriverStatus) *models.Driver {
	t.Helper()
	hash, err := security.HashPIN(pin, testPassword)
	require.NoError(t, err)
	driver := &models.Driver{ID: uuid.New(), Name: name, PINHash: hash, Status: status}
	repo.drivers[driver.ID] = driver
	return driver
}

func TestCreateHashesPIN(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo, testPassword)
	require.NoError(t, err)

	driver, err := svc.Create(context.Background(), CreateInput{Name: "Marcos", Phone: "92999990000", PIN: "4321"})
	require.NoError(t, err)

	assert.Equal(t, enums.DriverStatusOffline, driver.Status)
	assert.NotEqual(t, "4321", driver.PINHash)

	ok, err := security.VerifyPIN("4321", driver.PINHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAuthenticateMatchesDriverByPIN(t *testing.T) {
	repo := newFakeRepo()
	seedDriver(t, repo, "Marcos", "4321", enums.DriverStatusIdle)
	target := seedDriver(t, repo, "Paula", "8765", enums.DriverStatusIdle)
	svc, err := NewService(repo, testPassword)
	require.NoError(t, err)

	driver, err := svc.Authenticate(context.Background(), "8765")
	require.NoError(t, err)
	assert.Equal(t, target.ID, driver.ID)
}

func TestAuthenticateRejectsUnknownPIN(t *testing.T) {
	repo := newFakeRepo()
	seedDriver(t, repo, "Marcos", "4321", enums.DriverStatusIdle)
	svc, err := NewService(repo, testPassword)
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), "0000")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeUnauthorized, typed.Code())
}

func TestSetStatusValidation(t *testing.T) {
	repo := newFakeRepo()
	svc, err := NewService(repo, testPassword)
	require.NoError(t, err)

	err = svc.SetStatus(context.Background(), uuid.New(), enums.DriverStatus("sleeping"))
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSetStatusNotFound(t *testing.T) {
	repo := newFakeRepo()
	repo.notFound = true
	svc, err := NewService(repo, testPassword)
	require.NoError(t, err)

	err = svc.SetStatus(context.Background(), uuid.New(), enums.DriverStatusIdle)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestResetPINStoresNewHash(t *testing.T) {
	repo := newFakeRepo()
	driver := seedDriver(t, repo, "Marcos", "4321", enums.DriverStatusIdle)
	svc, err := NewService(repo, testPassword)
	require.NoError(t, err)

	err = svc.ResetPIN(context.Background(), driver.ID, "9911")
	require.NoError(t, err)

	updates := repo.updates[driver.ID]
	require.Contains(t, updates, "pin_hash")
	ok, err := security.VerifyPIN("9911", updates["pin_hash"].(string))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestResetPINNotFound(t *testing.T) {
	repo := newFakeRepo()
	repo.notFound = true
	svc, err := NewService(repo, testPassword)
	require.NoError(t, err)

	err = svc.ResetPIN(context.Background(), uuid.New(), "9911")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestListIdleFiltersRoster(t *testing.T) {
	repo := newFakeRepo()
	seedDriver(t, repo, "Marcos", "4321", enums.DriverStatusIdle)
	seedDriver(t, repo, "Paula", "8765", enums.DriverStatusBusy)
	svc, err := NewService(repo, testPassword)
	require.NoError(t, err)

	idle, err := svc.ListIdle(context.Background())
	require.NoError(t, err)
	require.Len(t, idle, 1)
	assert.Equal(t, "Marcos", idle[0].Name)
}
