package services_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/HerbHall/testerhub/internal/services"
	"github.com/HerbHall/testerhub/internal/testutil"
)

// backends returns a constructor for every SettingsRepository implementation.
func backends() map[string]func(t *testing.T) services.SettingsRepository {
	return map[string]func(t *testing.T) services.SettingsRepository{
		"sqlite": func(t *testing.T) services.SettingsRepository {
			t.Helper()
			repo, err := services.NewSQLiteSettingsRepository(context.Background(), testutil.NewStore(t))
			require.NoError(t, err)
			return repo
		},
		"bolt": func(t *testing.T) services.SettingsRepository {
			t.Helper()
			repo, err := services.OpenBoltSettingsRepository(filepath.Join(t.TempDir(), "settings.db"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = repo.Close() })
			return repo
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, repo services.SettingsRepository)) {
	for name, newRepo := range backends() {
		t.Run(name, func(t *testing.T) {
			fn(t, newRepo(t))
		})
	}
}

func TestSettingsRepository_SetAndGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo services.SettingsRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Set(ctx, "theme", "light"))

		s, err := repo.Get(ctx, "theme")
		require.NoError(t, err)
		require.Equal(t, "theme", s.Key)
		require.Equal(t, "light", s.Value)
		require.False(t, s.UpdatedAt.IsZero(), "UpdatedAt is zero")
	})
}

func TestSettingsRepository_SetOverwrite(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo services.SettingsRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Set(ctx, "theme", "light"))
		require.NoError(t, repo.Set(ctx, "theme", "dark"))

		s, err := repo.Get(ctx, "theme")
		require.NoError(t, err)
		require.Equal(t, "dark", s.Value)
	})
}

func TestSettingsRepository_GetNotFound(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo services.SettingsRepository) {
		_, err := repo.Get(context.Background(), "nonexistent")
		require.True(t, errors.Is(err, services.ErrNotFound), "Get nonexistent = %v, want ErrNotFound", err)
	})
}

func TestSettingsRepository_GetAll(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo services.SettingsRepository) {
		ctx := context.Background()

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Empty(t, all)

		for _, kv := range []struct{ k, v string }{
			{"language", "en"},
			{"fontSize", "md"},
			{"theme", "dark"},
		} {
			require.NoError(t, repo.Set(ctx, kv.k, kv.v))
		}

		all, err = repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		// Ordered by key.
		require.Equal(t, []string{"fontSize", "language", "theme"},
			[]string{all[0].Key, all[1].Key, all[2].Key})
	})
}

func TestSettingsRepository_Delete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo services.SettingsRepository) {
		ctx := context.Background()
		require.NoError(t, repo.Set(ctx, "to_delete", "value"))
		require.NoError(t, repo.Delete(ctx, "to_delete"))

		_, err := repo.Get(ctx, "to_delete")
		require.ErrorIs(t, err, services.ErrNotFound)
		require.ErrorIs(t, repo.Delete(ctx, "to_delete"), services.ErrNotFound)
	})
}

func TestBoltSettingsRepository_Closed(t *testing.T) {
	repo, err := services.OpenBoltSettingsRepository(filepath.Join(t.TempDir(), "settings.db"))
	require.NoError(t, err)
	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close())

	_, err = repo.Get(context.Background(), "theme")
	require.ErrorIs(t, err, services.ErrStoreClosed)
	require.ErrorIs(t, repo.Set(context.Background(), "theme", "dark"), services.ErrStoreClosed)
}

func TestBoltSettingsRepository_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.db")
	repo, err := services.OpenBoltSettingsRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.Set(context.Background(), "language", "de"))
	require.NoError(t, repo.Close())

	reopened, err := services.OpenBoltSettingsRepository(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	s, err := reopened.Get(context.Background(), "language")
	require.NoError(t, err)
	require.Equal(t, "de", s.Value)
}
