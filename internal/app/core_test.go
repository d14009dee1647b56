package app

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/lightbox/internal/config"
	diag "github.com/coreman2200/lightbox/internal/diagnostics"
	"github.com/coreman2200/lightbox/internal/effect"
	"github.com/coreman2200/lightbox/internal/led"
	"github.com/coreman2200/lightbox/internal/pixel"
	"github.com/coreman2200/lightbox/internal/sequence"
)

func testConfig() *config.Config {
	c := config.Default()
	c.FPS = 200
	c.Grid = config.Grid{Rows: 3, Cols: 3, Serpentine: true}
	c.Playlist = []config.Entry{{Effect: "solid", Color: "#ffffff"}}
	return c
}

func newTestCore(t *testing.T) (*Core, *led.Sim) {
	sim := led.NewSim(zerolog.Nop())
	c, err := NewCore(testConfig(), WithDriver(sim))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, sim
}

func TestNewCoreValidates(t *testing.T) {
	cfg := testConfig()
	cfg.Playlist = nil
	_, err := NewCore(cfg, WithDriver(led.NewSim(zerolog.Nop())))
	assert.ErrorIs(t, err, config.ErrEmptyPlaylist)

	cfg = testConfig()
	cfg.Driver = "laser"
	_, err = NewCore(cfg)
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	c, sim := newTestCore(t)
	ctx := context.Background()

	var frames atomic.Int64
	c.OnFrame(func(f []pixel.Pixel) {
		if len(f) == 9 {
			frames.Add(1)
		}
	})
	var mu sync.Mutex
	var codes []string
	c.OnDiagnostic(func(d diag.Diagnostic) {
		mu.Lock()
		codes = append(codes, d.Code)
		mu.Unlock()
	})

	require.NoError(t, c.Start(ctx))
	assert.ErrorIs(t, c.Start(ctx), ErrRunning)
	require.Eventually(t, func() bool { return frames.Load() > 2 }, 2*time.Second, 5*time.Millisecond)

	st := c.Status()
	assert.True(t, st.Running)
	assert.Equal(t, 0, st.Index)
	assert.Equal(t, "solid", st.Effect)
	assert.Equal(t, 3, st.Rows)
	assert.InDelta(t, 200, st.FPS, 0.01)

	require.NoError(t, c.Stop())
	assert.False(t, c.Running())
	assert.Equal(t, -1, c.Status().Index)
	// teardown leaves the strip dark
	for _, b := range sim.Last() {
		assert.Equal(t, byte(0), b)
	}
	mu.Lock()
	assert.Contains(t, codes, "EFFECT.ACTIVE")
	mu.Unlock()

	require.NoError(t, c.Stop(), "stopping twice is fine")
	require.NoError(t, c.Start(ctx), "restart after stop")
}

func TestConcurrentStop(t *testing.T) {
	c, sim := newTestCore(t)
	require.NoError(t, c.Start(context.Background()))
	require.Eventually(t, func() bool { return sim.Frames() > 0 }, time.Second, time.Millisecond)

	var wg sync.WaitGroup
	errs := make(chan error, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- c.Stop()
		}()
	}
	stopped := make(chan struct{})
	go func() {
		wg.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop callers did not all return")
	}
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.False(t, c.Running())
	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.Running())
}

func TestBrightnessPercent(t *testing.T) {
	c, _ := newTestCore(t)
	c.SetBrightness(40)
	assert.InDelta(t, 40, c.Brightness(), 1e-9)
	assert.InDelta(t, 0.4, c.Strip.Brightness(), 1e-9)
	c.SetBrightness(250)
	assert.InDelta(t, 100, c.Status().Brightness, 1e-9)
}

func TestPlayAndReset(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()

	require.NoError(t, c.Play(ctx, effect.Spec{Kind: "channels"}))
	require.Eventually(t, func() bool { return c.Status().Effect == "channels" }, 2*time.Second, 5*time.Millisecond)

	_, err := effect.New(effect.Spec{Kind: "bogus"})
	require.Error(t, err)
	assert.Error(t, c.Play(ctx, effect.Spec{Kind: "bogus"}))
	assert.True(t, c.Running(), "a bad test request leaves playback alone")

	require.NoError(t, c.Reset(ctx))
	require.Eventually(t, func() bool { return c.Status().Effect == "solid" }, 2*time.Second, 5*time.Millisecond)
}

func TestBuildPlaylist(t *testing.T) {
	pl, err := BuildPlaylist([]config.Entry{
		{Effect: "circle"},
		{Effect: "fireflies", Seed: 4, Brightness: []sequence.Keyframe{{T: 2, V: 1}, {T: 0, V: 0}}},
	})
	require.NoError(t, err)
	require.Len(t, pl, 2)
	assert.Nil(t, pl[0].Brightness)
	require.NotNil(t, pl[1].Brightness)
	assert.InDelta(t, 0.5, pl[1].Brightness.Eval(1), 1e-9)

	_, err = BuildPlaylist([]config.Entry{{Effect: "nope"}})
	assert.ErrorIs(t, err, effect.ErrUnknownEffect)
}
