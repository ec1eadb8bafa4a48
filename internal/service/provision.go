package service

import (
	"context"
	"sync"
	"time"

	"github.com/nvoss/strongbox/internal/logger"
)

// Rebooter restarts the device.
type Rebooter interface {
	Reboot() error
}

// SessionRevoker invalidates every issued session.
type SessionRevoker interface {
	RevokeAll(ctx context.Context)
}

// CredentialWriter is the slice of the credential service provisioning needs.
type CredentialWriter interface {
	SetWeb(ctx context.Context, username, password string) error
	SetWiFi(ctx context.Context, ssid, password string) error
}

// Provisioning applies WiFi and web-auth changes. An accepted WiFi change
// schedules a deferred reboot so the in-flight HTTP response is delivered
// before the restart; a second change before the reboot re-arms the same
// delay from the new write. An accepted auth change revokes all sessions,
// so no stale session outlives the credential it was issued under.
type Provisioning struct {
	creds    CredentialWriter
	sessions SessionRevoker
	rebooter Rebooter
	delay    time.Duration
	logger   *logger.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// NewProvisioning creates the provisioning service.
func NewProvisioning(creds CredentialWriter, sessions SessionRevoker, rebooter Rebooter, delay time.Duration, l *logger.Logger) *Provisioning {
	return &Provisioning{creds: creds, sessions: sessions, rebooter: rebooter, delay: delay, logger: l}
}

// ApplyWiFi persists the new access-point credential and schedules the
// reboot that applies it.
func (p *Provisioning) ApplyWiFi(ctx context.Context, ssid, password string) error {
	if err := p.creds.SetWiFi(ctx, ssid, password); err != nil {
		return err
	}
	p.scheduleReboot()
	return nil
}

// ApplyAuth persists the new web credential and revokes all sessions. The
// caller must log in again.
func (p *Provisioning) ApplyAuth(ctx context.Context, username, password string) error {
	if err := p.creds.SetWeb(ctx, username, password); err != nil {
		return err
	}
	p.sessions.RevokeAll(ctx)
	return nil
}

func (p *Provisioning) scheduleReboot() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
	}
	p.logger.Info("reboot scheduled", "delay", p.delay)
	p.timer = time.AfterFunc(p.delay, func() {
		p.logger.Info("rebooting to apply provisioning change")
		if err := p.rebooter.Reboot(); err != nil {
			p.logger.Error("reboot failed", "error", err.Error())
		}
	})
}
