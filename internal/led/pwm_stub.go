//go:build !linux || !ws2811

package led

import "fmt"

type PWM struct{}

func NewPWM(gpio int, dma int, freq int, count int, order Order) (*PWM, error) {
	return nil, fmt.Errorf("pwm driver not compiled in (build with -tags ws2811 on linux)")
}
func (p *PWM) Write(rgbw []byte) error { return nil }
func (p *PWM) Close() error            { return nil }
