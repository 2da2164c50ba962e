package devices

import "strings"

// virtualNamePatterns is the fixed, case-insensitive substring set used to
// classify a device name as backed by a virtual-audio driver rather than
// hardware. Order never affects the result — classification is a pure
// membership test.
var virtualNamePatterns = []string{
	"virtual audio",
	"vb-audio",
	"cable",
	"voicemeeter",
	"blackhole",
	"loopback",
	"virtual cable",
}

// isVirtualName reports whether name matches any of the fixed virtual-
// device substrings, case-insensitively. Idempotent and independent of
// the order virtualNamePatterns is walked in.
func isVirtualName(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range virtualNamePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// classify derives a Type from direction and name.
func classify(name string, isInput bool) Type {
	virtual := isVirtualName(name)
	switch {
	case isInput && virtual:
		return InputVirtual
	case isInput:
		return InputPhysical
	case virtual:
		return OutputVirtual
	default:
		return OutputPhysical
	}
}
