package dsp

import (
	"fmt"
	"sync"
)

// Kind names one of the five fixed DSP block types (§4.4).
type Kind string

const (
	KindPitch      Kind = "pitch"
	KindFormant    Kind = "formant"
	KindRobot      Kind = "robot"
	KindDistortion Kind = "distortion"
	KindReverb     Kind = "reverb"
)

// fixedOrder is the one valid processing order: pitch → formant → robot
// → distortion → reverb. Reorder is deliberately not exposed (§4.4a):
// the spec fixes this order, it is not a user-configurable property.
var fixedOrder = []Kind{KindPitch, KindFormant, KindRobot, KindDistortion, KindReverb}

// block is the common shape every DSP effect implements: process a
// contiguous mono frame into a same-length output frame.
type block interface {
	Process(frame []float32) []float32
}

// Instance is one configured, positioned block in the chain, generalizing
// the reference engine's PluginInstance (plugin_chain.go) — position
// fixed by Kind, parameters keyed by name, bypass in place of unload.
type Instance struct {
	Kind    Kind
	Bypass  bool
	Params  map[string]float32
	impl    block
}

// InstanceState is the serializable form of an Instance, round-tripped
// by Chain.GetState/SetState for the external persistence contract (§6).
type InstanceState struct {
	Kind   Kind               `json:"kind" yaml:"kind"`
	Bypass bool               `json:"bypass" yaml:"bypass"`
	Params map[string]float32 `json:"params" yaml:"params"`
}

// ChainState is the serializable form of a whole Chain.
type ChainState struct {
	Instances []InstanceState `json:"instances" yaml:"instances"`
}

// Chain composes the DSP blocks of §4.4 in the fixed order of §4.4a,
// generalizing the reference engine's PluginChain (plugin_chain.go) from
// AudioUnit hosting to these five fixed kinds.
type Chain struct {
	mu         sync.RWMutex
	sampleRate int
	instances  map[Kind]*Instance
}

// NewChain returns an empty chain tuned to sampleRate (only the reverb
// and robot blocks need the rate; pitch/formant/distortion are rate
// independent given the fixed frame size).
func NewChain(sampleRate int) *Chain {
	return &Chain{sampleRate: sampleRate, instances: make(map[Kind]*Instance)}
}

// AddOrReplace inserts or reconfigures the instance for kind. params is
// interpreted per kind: pitch/formant read "semitones", distortion reads
// "amount", robot and reverb take no parameters.
func (c *Chain) AddOrReplace(kind Kind, params map[string]float32) error {
	impl, err := c.build(kind, params)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances[kind] = &Instance{Kind: kind, Params: copyParams(params), impl: impl}
	return nil
}

func (c *Chain) build(kind Kind, params map[string]float32) (block, error) {
	switch kind {
	case KindPitch:
		return NewPitchShifter(float64(params["semitones"])), nil
	case KindFormant:
		return NewFormantShifter(float64(params["semitones"])), nil
	case KindRobot:
		return NewRobot(c.sampleRate), nil
	case KindDistortion:
		return NewDistortion(params["amount"]), nil
	case KindReverb:
		return NewReverb(c.sampleRate), nil
	default:
		return nil, fmt.Errorf("dsp: unknown block kind %q", kind)
	}
}

// SetBypass toggles bypass for an existing instance. Bypassing is the
// chain's stand-in for "not present": a bypassed instance passes its
// input through unchanged rather than being removed and losing its
// internal state (comb/allpass tails, phase accumulators).
func (c *Chain) SetBypass(kind Kind, bypass bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	inst, ok := c.instances[kind]
	if !ok {
		return fmt.Errorf("dsp: no %q instance in chain", kind)
	}
	inst.Bypass = bypass
	return nil
}

// Remove drops the instance for kind entirely, discarding its state.
func (c *Chain) Remove(kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.instances, kind)
}

// Process runs every enabled, non-bypassed instance over frame in the
// fixed order of §4.4, returning the fully processed frame. Frame is
// never allocated here beyond each block's own output buffer.
func (c *Chain) Process(frame []float32) []float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, kind := range fixedOrder {
		inst, ok := c.instances[kind]
		if !ok || inst.Bypass {
			continue
		}
		frame = inst.impl.Process(frame)
	}
	return frame
}

// GetState returns a serializable snapshot of every configured instance,
// in fixed order, for the control layer to persist.
func (c *Chain) GetState() ChainState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var state ChainState
	for _, kind := range fixedOrder {
		inst, ok := c.instances[kind]
		if !ok {
			continue
		}
		state.Instances = append(state.Instances, InstanceState{
			Kind:   inst.Kind,
			Bypass: inst.Bypass,
			Params: copyParams(inst.Params),
		})
	}
	return state
}

// SetState restores the chain's instances from a snapshot, rebuilding
// each block fresh (its transient phase/delay-line state does not
// survive a round trip; only its configuration does).
func (c *Chain) SetState(state ChainState) error {
	for _, is := range state.Instances {
		if err := c.AddOrReplace(is.Kind, is.Params); err != nil {
			return err
		}
		if err := c.SetBypass(is.Kind, is.Bypass); err != nil {
			return err
		}
	}
	return nil
}

func copyParams(params map[string]float32) map[string]float32 {
	if params == nil {
		return nil
	}
	out := make(map[string]float32, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}

// EffectConfig is the control-facing view of the chain's five toggles
// (§3): the engine translates it into AddOrReplace/Remove calls rather
// than exposing the Chain's instance map directly.
type EffectConfig struct {
	PitchShiftSemitones   *float64
	FormantShiftSemitones *float64
	ReverbOn              bool
	RobotOn               bool
	DistortionAmount      *float32
}

// Apply wires cfg's toggles into the chain: present optional fields
// add-or-replace the corresponding instance, nil/false fields remove it.
func (c *Chain) Apply(cfg EffectConfig) error {
	if cfg.PitchShiftSemitones != nil {
		if err := c.AddOrReplace(KindPitch, map[string]float32{"semitones": float32(*cfg.PitchShiftSemitones)}); err != nil {
			return err
		}
	} else {
		c.Remove(KindPitch)
	}
	if cfg.FormantShiftSemitones != nil {
		if err := c.AddOrReplace(KindFormant, map[string]float32{"semitones": float32(*cfg.FormantShiftSemitones)}); err != nil {
			return err
		}
	} else {
		c.Remove(KindFormant)
	}
	if cfg.RobotOn {
		if err := c.AddOrReplace(KindRobot, nil); err != nil {
			return err
		}
	} else {
		c.Remove(KindRobot)
	}
	if cfg.DistortionAmount != nil {
		if err := c.AddOrReplace(KindDistortion, map[string]float32{"amount": *cfg.DistortionAmount}); err != nil {
			return err
		}
	} else {
		c.Remove(KindDistortion)
	}
	if cfg.ReverbOn {
		if err := c.AddOrReplace(KindReverb, nil); err != nil {
			return err
		}
	} else {
		c.Remove(KindReverb)
	}
	return nil
}
