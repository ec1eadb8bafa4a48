package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/nvoss/strongbox/internal/logger"
	"github.com/nvoss/strongbox/internal/model"
)

// Credentials guards the three secrets on the device: the web login, the
// physical unlock password and the WiFi details. Comparisons run in
// constant time with respect to the secret; setters persist durably before
// anything becomes observable.
type Credentials struct {
	store  model.StateStore
	cost   int
	logger *logger.Logger
}

// NewCredentials creates the credential service. cost is the bcrypt cost
// used for new hashes.
func NewCredentials(store model.StateStore, cost int, l *logger.Logger) *Credentials {
	return &Credentials{store: store, cost: cost, logger: l}
}

// HashSecret hashes a secret for storage. Exposed so boot code can seed the
// state file with factory defaults.
func HashSecret(secret string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hash), nil
}

// VerifyUnlock reports whether candidate matches the stored unlock
// password. It has no side effects.
func (c *Credentials) VerifyUnlock(ctx context.Context, candidate string) bool {
	var hash string
	if err := c.store.View(ctx, func(d model.DeviceState) { hash = d.Unlock.Hash }); err != nil {
		c.logger.Error("credentials: read unlock hash", "error", err.Error())
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

// SetUnlock replaces the unlock password. Both inputs must match and must
// not be empty.
func (c *Credentials) SetUnlock(ctx context.Context, new1, new2 string) error {
	if new1 != new2 {
		return model.ErrPasswordMismatch
	}
	if new1 == "" {
		return model.ErrWeakSecret
	}

	hash, err := HashSecret(new1, c.cost)
	if err != nil {
		return err
	}

	if err := c.store.Update(ctx, func(d *model.DeviceState) error {
		d.Unlock.Hash = hash
		return nil
	}); err != nil {
		return err
	}

	c.logger.Info("unlock password replaced")
	return nil
}

// VerifyWeb reports whether the username/password pair matches the stored
// web credential.
func (c *Credentials) VerifyWeb(ctx context.Context, username, candidate string) bool {
	var web model.WebCredential
	if err := c.store.View(ctx, func(d model.DeviceState) { web = d.Web }); err != nil {
		c.logger.Error("credentials: read web credential", "error", err.Error())
		return false
	}

	userOK := subtle.ConstantTimeCompare([]byte(web.Username), []byte(username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(web.PasswordHash), []byte(candidate)) == nil
	return userOK && passOK
}

// SetWeb replaces the web login credential. The caller is responsible for
// revoking open sessions afterwards.
func (c *Credentials) SetWeb(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return model.ErrEmptyField
	}

	hash, err := HashSecret(password, c.cost)
	if err != nil {
		return err
	}

	if err := c.store.Update(ctx, func(d *model.DeviceState) error {
		d.Web = model.WebCredential{Username: username, PasswordHash: hash}
		return nil
	}); err != nil {
		return err
	}

	c.logger.Info("web credential replaced", "username", username)
	return nil
}

// WiFi returns the stored access-point credential.
func (c *Credentials) WiFi(ctx context.Context) (model.WiFiCredential, error) {
	var wifi model.WiFiCredential
	if err := c.store.View(ctx, func(d model.DeviceState) { wifi = d.WiFi }); err != nil {
		return model.WiFiCredential{}, err
	}
	return wifi, nil
}

// SetWiFi replaces the access-point credential. The password may be empty
// (open network), the SSID may not.
func (c *Credentials) SetWiFi(ctx context.Context, ssid, password string) error {
	if ssid == "" {
		return model.ErrEmptyField
	}

	if err := c.store.Update(ctx, func(d *model.DeviceState) error {
		d.WiFi = model.WiFiCredential{SSID: ssid, Password: password}
		return nil
	}); err != nil {
		return err
	}

	c.logger.Info("wifi credential replaced", "ssid", ssid)
	return nil
}
