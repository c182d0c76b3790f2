// Package announce plays the fixed blink and beep sequences that mark phase
// changes. Sequences block the caller until they finish; sleep is injected so
// tests run without real delays.
package announce

import (
	"log"
	"time"

	"github.com/sweeney/focus-timer/internal/gpio"
	"github.com/sweeney/focus-timer/internal/logic"
)

// Sequence timings.
const (
	BlinkDelay  = 300 * time.Millisecond
	BlinkCycles = 5
	BeepOn      = 100 * time.Millisecond
	BeepOff     = 100 * time.Millisecond
	TripleGap   = 500 * time.Millisecond
	TripleBeeps = 3
)

// Player drives the indicator and buzzer through announcement sequences.
type Player struct {
	indicator gpio.Indicator
	buzzer    gpio.Buzzer
	sleep     func(time.Duration)
}

// NewPlayer creates a Player. A nil sleep uses time.Sleep.
func NewPlayer(indicator gpio.Indicator, buzzer gpio.Buzzer, sleep func(time.Duration)) *Player {
	if sleep == nil {
		sleep = time.Sleep
	}
	return &Player{
		indicator: indicator,
		buzzer:    buzzer,
		sleep:     sleep,
	}
}

// Play runs the named sequence to completion.
func (p *Player) Play(a logic.Announcement) {
	switch a {
	case logic.AnnounceStart:
		p.Start()
	case logic.AnnounceTripleBeep:
		p.TripleBeep()
	default:
		log.Printf("announce: unknown sequence %q", a)
	}
}

// Start alternates red and green, turns the LEDs off and beeps once.
func (p *Player) Start() {
	for i := 0; i < BlinkCycles; i++ {
		p.set(logic.ColorRed, logic.ColorOff)
		p.sleep(BlinkDelay)
		p.set(logic.ColorOff, logic.ColorGreen)
		p.sleep(BlinkDelay)
	}
	if err := p.indicator.Clear(); err != nil {
		log.Printf("announce: clear leds: %v", err)
	}
	p.Beep()
}

// TripleBeep beeps three times with a fixed gap.
func (p *Player) TripleBeep() {
	for i := 0; i < TripleBeeps; i++ {
		if i > 0 {
			p.sleep(TripleGap)
		}
		p.Beep()
	}
}

// Beep sounds the buzzer for one fixed pulse.
// Errors are logged; the pulse timing is kept either way.
func (p *Player) Beep() {
	if err := p.buzzer.On(); err != nil {
		log.Printf("announce: buzzer on: %v", err)
	}
	p.sleep(BeepOn)
	if err := p.buzzer.Off(); err != nil {
		log.Printf("announce: buzzer off: %v", err)
	}
	p.sleep(BeepOff)
}

// Duration returns how long a sequence blocks the caller.
func Duration(a logic.Announcement) time.Duration {
	beep := BeepOn + BeepOff
	switch a {
	case logic.AnnounceStart:
		return BlinkCycles*2*BlinkDelay + beep
	case logic.AnnounceTripleBeep:
		return TripleBeeps*beep + (TripleBeeps-1)*TripleGap
	}
	return 0
}

func (p *Player) set(front, back logic.Color) {
	if err := p.indicator.Set(front, back); err != nil {
		log.Printf("announce: set leds: %v", err)
	}
}
