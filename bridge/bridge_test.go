package bridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shaban/voiceboard/config"
	"github.com/shaban/voiceboard/devices"
	"github.com/shaban/voiceboard/engine"
)

func TestBridge_WrapsAudioEngine(t *testing.T) {
	e := engine.New(config.Default(), devices.NewRegistry(), nil)
	t.Cleanup(func() { _ = e.SendCommand(engine.NewShutdownCommand()) })

	b := New[engine.Command, engine.Event](e)

	require.Equal(t, OK, b.SendCommand(engine.NewSetMicVolumeCommand(1)))

	deadline := time.Now().Add(time.Second)
	var sawEvent bool
	for time.Now().Before(deadline) {
		if _, ok := b.TryRecvEvent(); ok {
			sawEvent = true
			break
		}
		time.Sleep(time.Millisecond)
	}
	require.True(t, sawEvent, "expected at least the periodic level update to surface through the bridge")
}

func TestBridge_QueueClosedAfterShutdown(t *testing.T) {
	e := engine.New(config.Default(), devices.NewRegistry(), nil)
	b := New[engine.Command, engine.Event](e)

	require.Equal(t, OK, b.SendCommand(engine.NewShutdownCommand()))
	require.Eventually(t, func() bool {
		return b.SendCommand(engine.NewStopCommand()) == QueueClosed
	}, time.Second, time.Millisecond)
}
