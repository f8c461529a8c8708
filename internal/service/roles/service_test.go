package roles

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agritrace/agritrace/internal/domain/models"
	"github.com/agritrace/agritrace/internal/repository/mongodb"
)

type fakeRoleRepo struct {
	mu    sync.Mutex
	roles map[string]models.Role
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{roles: make(map[string]models.Role)}
}

func (f *fakeRoleRepo) SaveRole(_ context.Context, userID string, role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roles[userID] = role
	return nil
}

func (f *fakeRoleRepo) GetRole(_ context.Context, userID string) (models.Role, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	role, ok := f.roles[userID]
	if !ok {
		return "", mongodb.ErrRoleNotFound
	}
	return role, nil
}

func (f *fakeRoleRepo) InsertBatch(context.Context, models.ProduceBatch) error { return nil }
func (f *fakeRoleRepo) GetBatch(context.Context, string) (models.ProduceBatch, error) {
	return models.ProduceBatch{}, mongodb.ErrBatchNotFound
}
func (f *fakeRoleRepo) ListBatches(context.Context, models.BatchStatus) ([]models.ProduceBatch, error) {
	return nil, nil
}
func (f *fakeRoleRepo) TransitionBatch(context.Context, string, models.BatchStatus, models.BatchStatus, string) error {
	return nil
}
func (f *fakeRoleRepo) InsertTransaction(context.Context, models.Transaction) error { return nil }
func (f *fakeRoleRepo) ListTransactionsByBatch(context.Context, string) ([]models.Transaction, error) {
	return nil, nil
}
func (f *fakeRoleRepo) ListTransactionsSince(context.Context, time.Time) ([]models.Transaction, error) {
	return nil, nil
}

func TestSaveRoleOverwrites(t *testing.T) {
	repo := newFakeRoleRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	role, err := svc.SaveRole(ctx, "user-1", "farmer")
	require.NoError(t, err)
	assert.Equal(t, models.RoleFarmer, role)

	// A repeated save replaces the previous role; no history is kept.
	role, err = svc.SaveRole(ctx, "user-1", "distributor")
	require.NoError(t, err)
	assert.Equal(t, models.RoleDistributor, role)

	got, err := svc.GetRole(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleDistributor, got)
}

func TestSaveRoleRejectsUnknownRole(t *testing.T) {
	svc := NewService(newFakeRoleRepo(), nil)

	_, err := svc.SaveRole(context.Background(), "user-1", "admin")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestGetRoleUnknownUser(t *testing.T) {
	svc := NewService(newFakeRoleRepo(), nil)

	_, err := svc.GetRole(context.Background(), "nobody")
	assert.ErrorIs(t, err, mongodb.ErrRoleNotFound)
}

func TestRedirectTarget(t *testing.T) {
	svc := NewService(newFakeRoleRepo(), nil)

	assert.Equal(t, models.RouteFarmerDashboard, svc.RedirectTarget(true, models.RoleFarmer))
	assert.Equal(t, models.RouteSelectRole, svc.RedirectTarget(true, ""))
	assert.Equal(t, models.RouteHome, svc.RedirectTarget(false, models.RoleFarmer))
}
