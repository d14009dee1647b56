package led

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLimitBudgetClamp(t *testing.T) {
	// 10 LEDs, RGB white: 60mA each at 20mA/channel.
	frame := make([]byte, 10*Channels)
	for i := 0; i < 10; i++ {
		frame[i*Channels], frame[i*Channels+1], frame[i*Channels+2] = 255, 255, 255
	}
	Limit(frame, Power{ChanmA: 20, BudgetmA: 300, Knee: 0.9})
	assert.LessOrEqual(t, EstimatemA(frame, 20), 300.1)
}

func TestLimitUnderKneeUntouched(t *testing.T) {
	frame := []byte{100, 0, 0, 0}
	orig := append([]byte(nil), frame...)
	Limit(frame, Power{ChanmA: 20, BudgetmA: 1000})
	assert.Equal(t, orig, frame)
}

func TestLimitSoftKnee(t *testing.T) {
	// 95% of budget: scaled, but less than a hard clamp would.
	frame := []byte{255, 255, 255, 255}
	budget := EstimatemA(frame, 20) / 0.95
	Limit(frame, Power{ChanmA: 20, BudgetmA: budget, Knee: 0.9})
	got := EstimatemA(frame, 20)
	assert.Less(t, got, budget*0.95)
	assert.Greater(t, got, budget*0.85)
}

func TestWhiteCap(t *testing.T) {
	frame := []byte{255, 255, 255, 255} // sum = 4 full-scale
	Limit(frame, Power{WhiteCap: 1.5})
	sum := 0
	for _, v := range frame {
		sum += int(v)
	}
	limit := 1.5 * 255.0
	assert.LessOrEqual(t, float64(sum), limit)
	// 255 * 382.5/1020 truncates to 95 per channel
	assert.Equal(t, []byte{95, 95, 95, 95}, frame)
}

func TestLimitDisabled(t *testing.T) {
	frame := []byte{255, 255, 255, 255}
	Limit(frame, Power{})
	assert.Equal(t, []byte{255, 255, 255, 255}, frame)
}
