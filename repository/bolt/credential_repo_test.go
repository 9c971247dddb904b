package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskgo/client/domain"
)

func openRepo(t *testing.T) *CredentialRepository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "creds.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := openRepo(t)

	sess := &domain.Session{
		Token: "T1",
		User:  domain.User{ID: 1, Name: "Ana", Email: "a@b.com"},
	}
	require.NoError(t, repo.Save(sess))

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Equal(t, "T1", loaded.Token)
	require.Equal(t, sess.User, loaded.User)
}

func TestLoadAbsentWhenNeverSaved(t *testing.T) {
	repo := openRepo(t)

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestSaveRejectsIncompleteSession(t *testing.T) {
	repo := openRepo(t)

	err := repo.Save(&domain.Session{Token: "T1"})
	require.Error(t, err)

	err = repo.Save(&domain.Session{User: domain.User{ID: 1}})
	require.Error(t, err)
}

func TestSaveUserAloneIsNotASession(t *testing.T) {
	repo := openRepo(t)

	require.NoError(t, repo.SaveUser(&domain.User{ID: 2, Name: "Bo"}))

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestClearIsIdempotent(t *testing.T) {
	repo := openRepo(t)

	require.NoError(t, repo.Save(&domain.Session{
		Token: "T1",
		User:  domain.User{ID: 1},
	}))
	require.NoError(t, repo.Clear())
	require.NoError(t, repo.Clear())

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.Nil(t, loaded)
}

func TestSaveOverwritesPriorValue(t *testing.T) {
	repo := openRepo(t)

	require.NoError(t, repo.Save(&domain.Session{Token: "T1", User: domain.User{ID: 1}}))
	require.NoError(t, repo.Save(&domain.Session{Token: "T2", User: domain.User{ID: 2}}))

	loaded, err := repo.Load()
	require.NoError(t, err)
	require.Equal(t, "T2", loaded.Token)
	require.Equal(t, int64(2), loaded.User.ID)
}
