package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvoss/strongbox/internal/model"
)

func TestCredentials_VerifyUnlock(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t)

	assert.True(t, c.VerifyUnlock(ctx, "123456"))
	assert.False(t, c.VerifyUnlock(ctx, "654321"))
	assert.False(t, c.VerifyUnlock(ctx, ""))
}

func TestCredentials_SetUnlock(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t)

	require.NoError(t, c.SetUnlock(ctx, "opensesame", "opensesame"))
	assert.True(t, c.VerifyUnlock(ctx, "opensesame"))
	assert.False(t, c.VerifyUnlock(ctx, "123456"))
}

func TestCredentials_SetUnlock_MismatchLeavesCredentialUnchanged(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t)

	err := c.SetUnlock(ctx, "one", "two")
	require.ErrorIs(t, err, model.ErrPasswordMismatch)
	assert.True(t, c.VerifyUnlock(ctx, "123456"))
}

func TestCredentials_SetUnlock_EmptySecret(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t)

	err := c.SetUnlock(ctx, "", "")
	require.ErrorIs(t, err, model.ErrWeakSecret)
	assert.True(t, c.VerifyUnlock(ctx, "123456"))
}

func TestCredentials_VerifyWeb(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t)

	assert.True(t, c.VerifyWeb(ctx, "admin", "strongbox"))
	assert.False(t, c.VerifyWeb(ctx, "admin", "wrong"))
	assert.False(t, c.VerifyWeb(ctx, "nobody", "strongbox"))
}

func TestCredentials_SetWeb(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t)

	require.NoError(t, c.SetWeb(ctx, "owner", "hunter2"))
	assert.True(t, c.VerifyWeb(ctx, "owner", "hunter2"))
	assert.False(t, c.VerifyWeb(ctx, "admin", "strongbox"))
}

func TestCredentials_SetWeb_EmptyFields(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t)

	require.ErrorIs(t, c.SetWeb(ctx, "", "pw"), model.ErrEmptyField)
	require.ErrorIs(t, c.SetWeb(ctx, "user", ""), model.ErrEmptyField)
	assert.True(t, c.VerifyWeb(ctx, "admin", "strongbox"))
}

func TestCredentials_SetWiFi_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t)

	require.NoError(t, c.SetWiFi(ctx, "home-net", "s3cret"))

	wifi, err := c.WiFi(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.WiFiCredential{SSID: "home-net", Password: "s3cret"}, wifi)
}

func TestCredentials_SetWiFi_EmptySSID(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t)

	require.ErrorIs(t, c.SetWiFi(ctx, "", "pw"), model.ErrEmptyField)
}

func TestCredentials_SetWiFi_OpenNetworkAllowed(t *testing.T) {
	ctx := context.Background()
	c := newTestCredentials(t)

	require.NoError(t, c.SetWiFi(ctx, "open-net", ""))

	wifi, err := c.WiFi(ctx)
	require.NoError(t, err)
	assert.Equal(t, "open-net", wifi.SSID)
	assert.Empty(t, wifi.Password)
}
