package devices

import "testing"

// seeded returns a Registry pre-populated without touching portaudio, so
// Get/DefaultInput/DefaultOutput can be tested in isolation from the host
// audio subsystem.
func seeded(devs Devices) *Registry {
	return &Registry{devices: devs}
}

func TestGet_DefaultIsRoleAgnostic(t *testing.T) {
	r := seeded(Devices{
		{ID: "in:Built-in Microphone", Name: "Built-in Microphone", Type: InputPhysical, IsDefault: true},
		{ID: "out:Built-in Speakers", Name: "Built-in Speakers", Type: OutputPhysical, IsDefault: true},
	})

	// Get("default") documents that it returns "the first device marked
	// IsDefault for either direction" — it does not know which role the
	// caller wants. Callers that need a specific role must use
	// DefaultInput/DefaultOutput instead (see below), which is exactly
	// what engine.Engine.resolveInput/resolveOutput do.
	got, err := r.Get(DefaultID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "in:Built-in Microphone" {
		t.Fatalf("Get(default) = %v, want the first IsDefault entry", got.ID)
	}
}

func TestDefaultInputAndDefaultOutput_ResolveDistinctDevices(t *testing.T) {
	r := seeded(Devices{
		{ID: "in:Built-in Microphone", Name: "Built-in Microphone", Type: InputPhysical, IsDefault: true},
		{ID: "out:Built-in Speakers", Name: "Built-in Speakers", Type: OutputPhysical, IsDefault: true},
		{ID: "in:USB Headset", Name: "USB Headset", Type: InputPhysical, IsDefault: false},
	})

	in, err := r.DefaultInput()
	if err != nil {
		t.Fatalf("DefaultInput: unexpected error: %v", err)
	}
	out, err := r.DefaultOutput()
	if err != nil {
		t.Fatalf("DefaultOutput: unexpected error: %v", err)
	}

	if in.ID != "in:Built-in Microphone" {
		t.Fatalf("DefaultInput() = %v, want the default input device", in.ID)
	}
	if out.ID != "out:Built-in Speakers" {
		t.Fatalf("DefaultOutput() = %v, want the default output device", out.ID)
	}
	if in.ID == out.ID {
		t.Fatalf("expected DefaultInput and DefaultOutput to resolve to distinct devices")
	}
}
