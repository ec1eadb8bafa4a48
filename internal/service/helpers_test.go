package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nvoss/strongbox/internal/model"
	"github.com/nvoss/strongbox/internal/repository/statefile"
	"github.com/nvoss/strongbox/internal/testutil"
)

// Test fixtures use web password "strongbox", unlock password "123456".
func newTestStoreAt(t *testing.T, path string) *statefile.Store {
	t.Helper()

	webHash, err := HashSecret("strongbox", bcrypt.MinCost)
	require.NoError(t, err)
	unlockHash, err := HashSecret("123456", bcrypt.MinCost)
	require.NoError(t, err)

	defaults := model.DeviceState{
		State:  model.StateLocked,
		Web:    model.WebCredential{Username: "admin", PasswordHash: webHash},
		Unlock: model.UnlockCredential{Hash: unlockHash},
		WiFi:   model.WiFiCredential{SSID: "safe-ap", Password: ""},
	}

	store, err := statefile.New(path, defaults, testutil.MakeNoopLogger())
	require.NoError(t, err)
	return store
}

func newTestStore(t *testing.T) *statefile.Store {
	t.Helper()
	return newTestStoreAt(t, filepath.Join(t.TempDir(), "state.json"))
}

func newTestCredentials(t *testing.T) *Credentials {
	t.Helper()
	return NewCredentials(newTestStore(t), bcrypt.MinCost, testutil.MakeNoopLogger())
}
