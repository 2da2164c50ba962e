// Command voiceboardctl is a terminal demonstration of the Audio Engine
// and Preview Engine wired together through the Command/Event Bridge —
// the Go equivalent of _examples/shaban-macaudio/examples/engine_demo,
// adapted from the reference engine's channel-console API to this
// spec's Start/PlaySound/Stop/Shutdown command set.
//
// It does not replace the UI front-end or the settings/soundboard
// persistence layers (§1 Non-goals) — it is only a thin flag-driven
// harness for exercising the engine outside of them.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/shaban/voiceboard/bridge"
	"github.com/shaban/voiceboard/config"
	"github.com/shaban/voiceboard/decode"
	"github.com/shaban/voiceboard/devices"
	"github.com/shaban/voiceboard/engine"
	"github.com/shaban/voiceboard/preview"
)

func main() {
	var (
		configPath   = pflag.String("config", "", "path to a YAML config overlay (see config.Default for the tunables it can override)")
		inputDevice  = pflag.StringP("input", "i", string(devices.DefaultID), "input device id, or \"default\"")
		outputDevice = pflag.StringP("output", "o", string(devices.DefaultID), "output device id, or \"default\"")
		sampleRate   = pflag.Int("rate", 48000, "sample rate in Hz")
		channels     = pflag.Int("channels", 2, "channel count (1 or 2)")
		listDevices  = pflag.Bool("list-devices", false, "print enumerated devices and exit")
		playFile     = pflag.String("play", "", "decode this WAV file and play it through the soundboard once running")
		runFor       = pflag.Duration("duration", 5*time.Second, "how long to stay Running before Stop, when not interrupted")
	)
	pflag.Parse()

	logger := log.Default()
	logger.SetPrefix("voiceboard")

	if err := portaudio.Initialize(); err != nil {
		logger.Fatal("portaudio init failed", "err", err)
	}
	defer portaudio.Terminate()

	registry := devices.NewRegistry()
	if err := registry.Refresh(); err != nil {
		logger.Fatal("device enumeration failed", "err", err)
	}

	if *listDevices {
		printDevices(registry)
		return
	}

	monitor := devices.NewMonitor(registry, logger, func() {
		logger.Info("device topology changed, re-enumerated")
	})
	monitor.Start()
	defer monitor.Stop()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal("config load failed", "err", err)
		}
		cfg = loaded
	}

	eng := engine.New(cfg, registry, logger)
	eg := bridge.New[engine.Command, engine.Event](eng)

	prev := preview.New(registry, decode.WAVDecoder{}, cfg, logger)
	pb := bridge.New[preview.Command, preview.Event](prev)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go drainEvents(eg, logger)
	go drainPreviewEvents(pb, logger)

	if res := eg.SendCommand(engine.NewStartCommand(engine.StartParams{
		InputDevice:  *inputDevice,
		OutputDevice: *outputDevice,
		SampleRate:   *sampleRate,
		Channels:     *channels,
	})); res != bridge.OK {
		logger.Fatal("engine shut down before Start could be sent")
	}

	if *playFile != "" {
		go func() {
			time.Sleep(200 * time.Millisecond)
			decoded, err := decode.WAVDecoder{}.Decode(*playFile)
			if err != nil {
				logger.Error("decode failed", "path", *playFile, "err", err)
				return
			}
			logger.Info("playing", "path", *playFile, "rate", decoded.SampleRate, "channels", decoded.Channels, "samples", len(decoded.Samples))
			eg.SendCommand(engine.NewPlaySoundCommand("cli-play", decoded.Samples))
		}()
	}

	select {
	case <-sigCh:
		logger.Info("interrupted")
	case <-time.After(*runFor):
		logger.Info("duration elapsed")
	}

	eg.SendCommand(engine.NewStopCommand())
	eg.SendCommand(engine.NewShutdownCommand())
	pb.SendCommand(preview.NewShutdownCommand())

	time.Sleep(50 * time.Millisecond)
}

func printDevices(registry *devices.Registry) {
	for _, d := range registry.List() {
		star := " "
		if d.IsDefault {
			star = "*"
		}
		fmt.Printf("%s %-28s %-16s rates=%v channels=%v\n", star, d.ID, d.Type, d.SupportedSampleRates, d.SupportedChannels)
	}
}

func drainEvents(b *bridge.Bridge[engine.Command, engine.Event], logger *log.Logger) {
	for {
		if evt, ok := b.TryRecvEvent(); ok {
			switch evt.Kind {
			case engine.EvtError:
				logger.Error("engine event", "kind", evt.Kind, "message", evt.Message)
			case engine.EvtLevelUpdate:
				logger.Debug("levels", "inRMS", evt.Level.InputRMS, "inPeak", evt.Level.InputPeak, "outRMS", evt.Level.OutputRMS, "outPeak", evt.Level.OutputPeak)
			default:
				logger.Info("engine event", "kind", evt.Kind)
			}
			continue
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func drainPreviewEvents(b *bridge.Bridge[preview.Command, preview.Event], logger *log.Logger) {
	for {
		if evt, ok := b.TryRecvEvent(); ok {
			logger.Info("preview event", "kind", evt.Kind, "pad", evt.PadID, "message", evt.Message)
			continue
		}
		time.Sleep(20 * time.Millisecond)
	}
}
