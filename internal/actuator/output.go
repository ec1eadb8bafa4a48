package actuator

import (
	"fmt"
	"os"
)

// Output is the physical line the door mechanism hangs off.
type Output interface {
	Engage() error
	Release() error
}

// SysfsOutput toggles a GPIO line through its sysfs value file, e.g.
// /sys/class/gpio/gpio17/value.
type SysfsOutput struct {
	valuePath string
}

// NewSysfsOutput creates an Output backed by the given sysfs value file.
func NewSysfsOutput(valuePath string) *SysfsOutput {
	return &SysfsOutput{valuePath: valuePath}
}

func (o *SysfsOutput) Engage() error  { return o.write("1") }
func (o *SysfsOutput) Release() error { return o.write("0") }

func (o *SysfsOutput) write(v string) error {
	if err := os.WriteFile(o.valuePath, []byte(v), 0o200); err != nil {
		return fmt.Errorf("write gpio %s: %w", o.valuePath, err)
	}
	return nil
}

// NopOutput is used on hosts without the door hardware.
type NopOutput struct{}

func (NopOutput) Engage() error  { return nil }
func (NopOutput) Release() error { return nil }
