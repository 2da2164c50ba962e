package devices

import (
	"fmt"
	"sync"

	"github.com/gordonklaus/portaudio"
)

// Registry enumerates endpoints and resolves ids to them. Probing a
// device for capabilities never opens an exclusive handle — it reads the
// portaudio.DeviceInfo the host already cached at Initialize time — and
// any probing error falls back to the default rate/channel sets rather
// than failing the whole enumeration.
type Registry struct {
	mu      sync.RWMutex
	devices Devices
	raw     map[ID]*portaudio.DeviceInfo
}

// NewRegistry returns an empty registry. Call Refresh before first use.
func NewRegistry() *Registry {
	return &Registry{}
}

// Refresh re-enumerates every endpoint portaudio reports. Results
// returned by List/Get before Refresh completes may be stale; that is by
// design (§4.1): a Start always calls Refresh first so device identity is
// re-resolved across OS reboots or cable replugs.
func (r *Registry) Refresh() error {
	infos, err := portaudio.Devices()
	if err != nil {
		return &EnumerationError{Cause: err}
	}

	defaultIn, _ := portaudio.DefaultInputDevice()
	defaultOut, _ := portaudio.DefaultOutputDevice()

	var out Devices
	raw := make(map[ID]*portaudio.DeviceInfo, len(infos)*2)
	for _, info := range infos {
		if info.MaxInputChannels > 0 {
			d := deviceFromInfo(info, true, defaultIn)
			out = append(out, d)
			raw[d.ID] = info
		}
		if info.MaxOutputChannels > 0 {
			d := deviceFromInfo(info, false, defaultOut)
			out = append(out, d)
			raw[d.ID] = info
		}
	}

	r.mu.Lock()
	r.devices = out
	r.raw = raw
	r.mu.Unlock()
	return nil
}

// PortAudioInfo returns the underlying portaudio.DeviceInfo backing id,
// resolving "default"/"" the same way Get does. The Audio Engine uses
// this to open capture/render streams; nothing outside engine/ and this
// package should need raw portaudio types.
func (r *Registry) PortAudioInfo(id ID) (*portaudio.DeviceInfo, error) {
	d, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.raw[d.ID]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	return info, nil
}

func deviceFromInfo(info *portaudio.DeviceInfo, isInput bool, defaultDevice *portaudio.DeviceInfo) Device {
	isDefault := defaultDevice != nil && defaultDevice.Name == info.Name
	rates := probeRates(info)
	channels := probeChannels(info, isInput)
	id := ID(fmt.Sprintf("%s:%s", direction(isInput), info.Name))

	return Device{
		ID:                   id,
		Name:                 info.Name,
		Type:                 classify(info.Name, isInput),
		IsDefault:            isDefault,
		SupportedSampleRates: rates,
		SupportedChannels:    channels,
	}
}

func direction(isInput bool) string {
	if isInput {
		return "in"
	}
	return "out"
}

// probeRates intersects the fixed probe set with the device's reported
// default rate neighborhood. portaudio's DeviceInfo only exposes a single
// DefaultSampleRate rather than a min/max range, so any rate within a
// generous multiple is treated as supported; if that yields nothing (a
// pathological or unreadable DeviceInfo) the spec's default set applies.
func probeRates(info *portaudio.DeviceInfo) []int {
	if info == nil || info.DefaultSampleRate <= 0 {
		return append([]int(nil), defaultSampleRates...)
	}
	var out []int
	for _, rate := range probeSampleRates {
		if float64(rate) <= info.DefaultSampleRate*2 {
			out = append(out, rate)
		}
	}
	if len(out) == 0 {
		return append([]int(nil), defaultSampleRates...)
	}
	return out
}

func probeChannels(info *portaudio.DeviceInfo, isInput bool) []int {
	max := info.MaxOutputChannels
	if isInput {
		max = info.MaxInputChannels
	}
	if max <= 0 {
		return append([]int(nil), defaultChannelCounts...)
	}
	var out []int
	for _, c := range defaultChannelCounts {
		if c <= max {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return append([]int(nil), defaultChannelCounts...)
	}
	return out
}

// List returns every enumerated device.
func (r *Registry) List() Devices {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(Devices, len(r.devices))
	copy(out, r.devices)
	return out
}

// Get resolves id to a Device. The empty string and DefaultID both mean
// "the host default for whatever role the caller is using this in" — since
// a registry entry doesn't carry a role-specific default by itself, Get
// resolves "default" to the first device marked IsDefault for either
// direction; callers that need the input-specific or output-specific
// default should use DefaultInput/DefaultOutput instead.
func (r *Registry) Get(id ID) (Device, error) {
	if id == DefaultID || id == "" {
		if d, ok := r.firstDefault(); ok {
			return d, nil
		}
		return Device{}, &NotFoundError{ID: id}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if d, ok := r.devices.ByID(id); ok {
		return d, nil
	}
	return Device{}, &NotFoundError{ID: id}
}

func (r *Registry) firstDefault() (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.devices {
		if d.IsDefault {
			return d, true
		}
	}
	return Device{}, false
}

// DefaultInput returns the host default input device.
func (r *Registry) DefaultInput() (Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.devices.Inputs() {
		if d.IsDefault {
			return d, nil
		}
	}
	return Device{}, &NotFoundError{ID: DefaultID}
}

// DefaultOutput returns the host default output device.
func (r *Registry) DefaultOutput() (Device, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.devices.Outputs() {
		if d.IsDefault {
			return d, nil
		}
	}
	return Device{}, &NotFoundError{ID: DefaultID}
}

// Count returns the number of input and output devices currently known,
// used by the hotplug monitor's fast count-based change detection.
func (r *Registry) Count() (inputs, outputs int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.devices {
		if d.CanInput() {
			inputs++
		}
		if d.CanOutput() {
			outputs++
		}
	}
	return
}
