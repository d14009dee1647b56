package led

// Power configures the frame limiter.
//   - WhiteCap: per-LED cap on the sum of all channels, in full-scale units
//     (4.0 = no cap for RGBW). 0 disables the cap.
//   - ChanmA: current per channel at full scale (WS2812 ≈ 20mA).
//   - BudgetmA: global budget; 0 disables the budget stage.
//   - Knee: fraction of the budget where soft limiting begins (default 0.9).
type Power struct {
	WhiteCap float64
	ChanmA   float64
	BudgetmA float64
	Knee     float64
}

// Limit applies a two-stage limiter in place to an RGBW frame:
// 1) Per-LED white cap: scales the channels so their sum stays under WhiteCap.
// 2) Global current budget: estimates current and scales the whole frame to
// stay under BudgetmA, gently between Knee*budget and budget.
func Limit(rgbw []byte, p Power) {
	if p.WhiteCap > 0 && p.WhiteCap < Channels {
		limit := p.WhiteCap * 255.0
		for i := 0; i+Channels <= len(rgbw); i += Channels {
			s := 0.0
			for c := 0; c < Channels; c++ {
				s += float64(rgbw[i+c])
			}
			if s > limit {
				scaleBytes(rgbw[i:i+Channels], limit/s)
			}
		}
	}

	if p.BudgetmA <= 0 {
		return
	}
	chanmA := p.ChanmA
	if chanmA <= 0 {
		chanmA = 20
	}
	knee := p.Knee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}
	total := EstimatemA(rgbw, chanmA)
	if total <= 0 {
		return
	}
	ratio := total / p.BudgetmA
	if ratio <= knee {
		return
	}
	minS := p.BudgetmA / total
	if ratio <= 1.0 {
		// map ratio in [knee,1] to scale in [1, budget/total]
		t := (ratio - knee) / (1.0 - knee)
		scaleBytes(rgbw, 1.0-t*(1.0-minS))
		return
	}
	scaleBytes(rgbw, minS)
}

// EstimatemA returns the estimated current draw of a frame.
func EstimatemA(rgbw []byte, chanmA float64) float64 {
	var sum float64
	for _, v := range rgbw {
		sum += float64(v)
	}
	return sum / 255.0 * chanmA
}

func scaleBytes(b []byte, s float64) {
	if s >= 1 {
		return
	}
	if s < 0 {
		s = 0
	}
	for i := range b {
		b[i] = byte(float64(b[i]) * s)
	}
}
