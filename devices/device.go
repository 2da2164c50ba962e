// Package devices enumerates audio input/output endpoints, classifies
// them as physical or virtual, and resolves opaque ids back to them.
//
// Grounded on github.com/shaban/macaudio/devices (AudioDevice shape and
// filter-method idiom), backed by github.com/gordonklaus/portaudio instead
// of the reference engine's CoreAudio CGo bridge so it runs on any host
// portaudio supports.
package devices

import "fmt"

// Type classifies an endpoint along two axes: direction and whether it is
// backed by hardware or a virtual driver.
type Type string

const (
	InputPhysical  Type = "input_physical"
	OutputPhysical Type = "output_physical"
	InputVirtual   Type = "input_virtual"
	OutputVirtual  Type = "output_virtual"
)

// ID is an opaque, enumeration-scoped device identifier. The reserved
// value DefaultID resolves to the host default for whatever role it is
// used in.
type ID string

// DefaultID resolves to the host default input or output device,
// depending on context.
const DefaultID ID = "default"

// fixed probe set from which a device's supported sample rates are drawn
var probeSampleRates = []int{8000, 16000, 22050, 44100, 48000, 96000}

var defaultSampleRates = []int{44100, 48000}
var defaultChannelCounts = []int{1, 2}

// Device describes one enumerated audio endpoint.
type Device struct {
	ID                   ID
	Name                 string
	Type                 Type
	IsDefault            bool
	SupportedSampleRates []int
	SupportedChannels    []int
}

// CanInput reports whether this device can act as a microphone role.
func (d Device) CanInput() bool {
	return d.Type == InputPhysical || d.Type == InputVirtual
}

// CanOutput reports whether this device can act as a render role.
func (d Device) CanOutput() bool {
	return d.Type == OutputPhysical || d.Type == OutputVirtual
}

// IsVirtual reports whether the device was classified as a virtual-audio
// driver rather than hardware.
func (d Device) IsVirtual() bool {
	return d.Type == InputVirtual || d.Type == OutputVirtual
}

// SupportsSampleRate reports whether rate is in the device's probed set.
func (d Device) SupportsSampleRate(rate int) bool {
	for _, r := range d.SupportedSampleRates {
		if r == rate {
			return true
		}
	}
	return false
}

// Devices is a slice of Device with the reference engine's filter-method
// idiom (Inputs/Outputs/ByType, plus ByID lookup), narrowed to the
// properties this spec actually exposes. There is no Online filter: a
// device here has no "online" state beyond being present in the current
// enumeration.
type Devices []Device

func (ds Devices) Inputs() Devices {
	var out Devices
	for _, d := range ds {
		if d.CanInput() {
			out = append(out, d)
		}
	}
	return out
}

func (ds Devices) Outputs() Devices {
	var out Devices
	for _, d := range ds {
		if d.CanOutput() {
			out = append(out, d)
		}
	}
	return out
}

func (ds Devices) ByType(t Type) Devices {
	var out Devices
	for _, d := range ds {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

func (ds Devices) ByID(id ID) (Device, bool) {
	for _, d := range ds {
		if d.ID == id {
			return d, true
		}
	}
	return Device{}, false
}

// EnumerationError wraps a failure of the underlying host audio API.
type EnumerationError struct {
	Cause error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("device enumeration failed: %v", e.Cause)
}

func (e *EnumerationError) Unwrap() error { return e.Cause }

// NotFoundError reports that a device id did not resolve to an endpoint.
type NotFoundError struct {
	ID ID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("device not found: %s", e.ID)
}
