package logic

import "time"

// Machine is the focus/break timer state machine.
// It is not safe for concurrent use; the control loop owns it.
type Machine struct {
	cfg            Config
	phase          Phase
	focusStartedAt time.Time
	breakStartedAt time.Time
	lastReportAt   time.Time
	breaksTaken    int
	idleShown      bool
	// starting is set on the press tick; Focus is entered on the tick after
	// the START announcement has played.
	starting bool
}

// NewMachine creates a machine in the Idle phase.
func NewMachine(cfg Config) *Machine {
	return &Machine{
		cfg:   cfg,
		phase: PhaseIdle,
	}
}

// Tick evaluates the machine against one input sample and returns the
// commands to dispatch, in order.
func (m *Machine) Tick(in Input) []Command {
	switch m.phase {
	case PhaseIdle:
		return m.tickIdle(in)
	case PhaseFocus:
		return m.tickFocus(in)
	case PhaseBreak:
		return m.tickBreak(in)
	case PhaseFinished:
		return m.tickFinished(in)
	}
	return nil
}

func (m *Machine) tickIdle(in Input) []Command {
	if m.starting {
		return m.enterFocus(in.Now)
	}

	var cmds []Command
	if !m.idleShown {
		cmds = append(cmds, setIndicator(ColorOff, ColorGreen))
		m.idleShown = true
	}

	// The start gesture needs no hold guard.
	if !in.Pressed {
		return cmds
	}

	m.starting = true
	return append(cmds, announce(AnnounceStart))
}

// enterFocus completes the start gesture. The timer starts at now, which is
// read after the START announcement has finished blocking the loop.
func (m *Machine) enterFocus(now time.Time) []Command {
	m.starting = false
	m.phase = PhaseFocus
	m.focusStartedAt = now
	m.breakStartedAt = time.Time{}
	m.lastReportAt = now

	return []Command{
		setIndicator(ColorRed, ColorOff),
		m.log(ReportFocusOn, 0),
		m.transition(now, EventFocusStarted, PhaseIdle, 0),
	}
}

func (m *Machine) tickFocus(in Input) []Command {
	elapsed := in.Now.Sub(m.focusStartedAt)
	cmds := m.progress(in.Now, elapsed)

	// Completion is checked first so it wins over a simultaneous press.
	if elapsed >= m.cfg.FocusDuration {
		m.phase = PhaseFinished
		return append(cmds,
			m.log(ReportFocusCompleted, elapsed),
			m.transition(in.Now, EventFocusCompleted, PhaseFocus, elapsed),
		)
	}

	if !in.Pressed || in.SinceChange < m.cfg.DebounceGuard {
		return cmds
	}

	m.phase = PhaseBreak
	m.breakStartedAt = in.Now
	return append(cmds,
		m.log(ReportBreakStarted, 0),
		m.log(ReportFocusSummary, elapsed),
		setIndicator(ColorOff, ColorGreen),
		Command{Type: CommandBeep},
		m.transition(in.Now, EventBreakStarted, PhaseFocus, elapsed),
	)
}

func (m *Machine) tickBreak(in Input) []Command {
	elapsed := in.Now.Sub(m.breakStartedAt)
	cmds := m.progress(in.Now, elapsed)

	if elapsed < m.cfg.BreakDuration {
		return cmds
	}

	// BREAK_FINISHED is not a resting phase: the machine lands in Focus
	// within this tick.
	m.breaksTaken++
	m.focusStartedAt = in.Now
	m.phase = PhaseFocus
	return append(cmds,
		m.log(ReportBreakFinished, 0),
		m.log(ReportBreakSummary, elapsed),
		m.log(ReportFocusStarted, 0),
		setIndicator(ColorRed, ColorOff),
		announce(AnnounceTripleBeep),
		m.transition(in.Now, EventBreakFinished, PhaseBreak, elapsed),
	)
}

func (m *Machine) tickFinished(in Input) []Command {
	// Summarise before the timers are cleared.
	focused := in.Now.Sub(m.focusStartedAt)
	cmds := []Command{
		m.log(ReportSession, focused),
		m.log(ReportBreakCount, 0),
		m.log(ReportDone, 0),
	}

	m.focusStartedAt = time.Time{}
	m.breakStartedAt = time.Time{}
	m.lastReportAt = time.Time{}
	m.phase = PhaseIdle
	m.idleShown = false

	return append(cmds,
		setIndicator(ColorOff, ColorGreen),
		announce(AnnounceTripleBeep),
		m.transition(in.Now, EventSessionEnded, PhaseFinished, 0),
	)
}

// progress returns a PROGRESS log command if a report interval has passed
// since the last one.
func (m *Machine) progress(now time.Time, elapsed time.Duration) []Command {
	if now.Sub(m.lastReportAt) < m.cfg.ReportInterval {
		return nil
	}
	m.lastReportAt = now
	return []Command{m.log(ReportProgress, elapsed)}
}

func (m *Machine) log(kind ReportKind, elapsed time.Duration) Command {
	return Command{
		Type: CommandLog,
		Report: Report{
			Kind:        kind,
			Phase:       m.phase,
			Elapsed:     elapsed,
			BreaksTaken: m.breaksTaken,
		},
	}
}

func (m *Machine) transition(now time.Time, event TransitionEvent, from Phase, elapsed time.Duration) Command {
	return Command{
		Type: CommandTransition,
		Transition: Transition{
			Timestamp:   now,
			Event:       event,
			From:        from,
			To:          m.phase,
			BreaksTaken: m.breaksTaken,
			Elapsed:     elapsed,
		},
	}
}

func setIndicator(front, back Color) Command {
	return Command{Type: CommandSetIndicator, Front: front, Back: back}
}

func announce(a Announcement) Command {
	return Command{Type: CommandAnnounce, Announcement: a}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Starting reports whether a start press has been accepted and Focus will be
// entered on the next tick.
func (m *Machine) Starting() bool {
	return m.starting
}

// BreaksTaken returns the number of completed breaks since startup.
// It is never reset.
func (m *Machine) BreaksTaken() int {
	return m.breaksTaken
}

// FocusStartedAt returns when the current focus interval began, or the zero
// time if unset.
func (m *Machine) FocusStartedAt() time.Time {
	return m.focusStartedAt
}

// BreakStartedAt returns when the current break began, or the zero time if unset.
func (m *Machine) BreakStartedAt() time.Time {
	return m.breakStartedAt
}

// Elapsed returns the time spent in the current timed phase. It is zero in
// Idle and Finished.
func (m *Machine) Elapsed(now time.Time) time.Duration {
	switch m.phase {
	case PhaseFocus:
		return now.Sub(m.focusStartedAt)
	case PhaseBreak:
		return now.Sub(m.breakStartedAt)
	}
	return 0
}

// Config returns the machine's durations.
func (m *Machine) Config() Config {
	return m.cfg
}
