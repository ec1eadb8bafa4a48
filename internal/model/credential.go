package model

import "context"

// WebCredential gates access to the web control surface.
type WebCredential struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// UnlockCredential gates physical door actuation. It is distinct from the
// web login password.
type UnlockCredential struct {
	Hash string `json:"hash"`
}

// WiFiCredential holds the access-point details the radio is provisioned
// with. The password is kept in cleartext because the radio needs it as-is.
type WiFiCredential struct {
	SSID     string `json:"ssid"`
	Password string `json:"password"`
}

// DeviceState is the complete persisted state of the device. It survives
// reboot and power loss.
type DeviceState struct {
	State  SafeState        `json:"safe_state"`
	Web    WebCredential    `json:"web"`
	Unlock UnlockCredential `json:"unlock"`
	WiFi   WiFiCredential   `json:"wifi"`
}

// StateStore defines persistence operations for the device state.
// Update must be atomic: either the whole mutated state becomes durable, or
// the prior state stays intact. A partially written state must never be
// observable, not even after a crash mid-write.
type StateStore interface {
	View(ctx context.Context, fn func(DeviceState)) error
	Update(ctx context.Context, fn func(*DeviceState) error) error
}
