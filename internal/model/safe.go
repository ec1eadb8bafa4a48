package model

import "time"

// SafeState represents the lock state of the safe door.
// The state machine is intentionally small; the intended transitions:
//
// locked             -> unlocked_once | unlocked_permanent
// unlocked_once      -> unlocked_permanent | door_open | locked
// unlocked_permanent -> door_open | locked
// door_open          -> locked | unlocked_permanent
//
// door_open is transient: it is entered only while the actuator drives the
// door mechanism and is never persisted. A one-shot unlock is consumed the
// moment the door starts opening, so a power loss mid-pulse boots locked.
type SafeState string

const (
	StateLocked            SafeState = "locked"
	StateUnlockedOnce      SafeState = "unlocked_once"
	StateUnlockedPermanent SafeState = "unlocked_permanent"
	StateDoorOpen          SafeState = "door_open"
)

// OpenDurations lists the door-open pulse lengths the controller accepts.
var OpenDurations = []time.Duration{
	5 * time.Second,
	10 * time.Second,
	20 * time.Second,
	30 * time.Second,
	60 * time.Second,
}

// ValidOpenDuration reports whether d is one of the accepted pulse lengths.
func ValidOpenDuration(d time.Duration) bool {
	for _, v := range OpenDurations {
		if d == v {
			return true
		}
	}
	return false
}
