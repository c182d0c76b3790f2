// Command focus-timer runs a one-button focus/break timer on GPIO and
// publishes phase changes to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sweeney/focus-timer/internal/announce"
	"github.com/sweeney/focus-timer/internal/config"
	"github.com/sweeney/focus-timer/internal/gpio"
	"github.com/sweeney/focus-timer/internal/logic"
	"github.com/sweeney/focus-timer/internal/mqtt"
	"github.com/sweeney/focus-timer/internal/report"
	"github.com/sweeney/focus-timer/internal/sim"
	"github.com/sweeney/focus-timer/internal/status"
	"github.com/sweeney/focus-timer/internal/web"
)

func main() {
	def := config.Default()
	configPath := flag.String("config", "", "YAML config file (optional)")
	focus := flag.Duration("focus", def.Focus, "Focus interval")
	brk := flag.Duration("break", def.Break, "Break interval")
	poll := flag.Duration("poll", def.Poll, "Button polling interval")
	debounce := flag.Duration("debounce", def.Debounce, "Button debounce window")
	broker := flag.String("broker", def.Broker, "MQTT broker address (empty to disable)")
	heartbeat := flag.Duration("heartbeat", def.Heartbeat, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", def.HTTP, "HTTP status address (empty to disable)")
	simulate := flag.Bool("sim", false, "Simulate the device in the terminal instead of using GPIO")
	printButton := flag.Bool("print-button", false, "Print the raw button state and exit")
	bench := flag.Bool("bench", false, "Use short bench durations (5s focus, 1s break)")
	writeConfig := flag.String("write-config", "", "Write the effective config to this path and exit")

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	if *bench {
		bc := logic.BenchConfig()
		cfg.Focus = bc.FocusDuration
		cfg.Break = bc.BreakDuration
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "focus":
			cfg.Focus = *focus
		case "break":
			cfg.Break = *brk
		case "poll":
			cfg.Poll = *poll
		case "debounce":
			cfg.Debounce = *debounce
		case "broker":
			cfg.Broker = *broker
		case "heartbeat":
			cfg.Heartbeat = *heartbeat
		case "http":
			cfg.HTTP = *httpAddr
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if *writeConfig != "" {
		if err := config.Save(*writeConfig, cfg); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		fmt.Printf("wrote %s\n", *writeConfig)
		return
	}

	if err := run(cfg, *simulate, *printButton); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// devices groups the three outputs the control loop drives.
type devices struct {
	button    gpio.Button
	indicator gpio.Indicator
	buzzer    gpio.Buzzer
}

func run(cfg config.Config, simulate, printButton bool) error {
	var dev devices
	var simDev *sim.Device
	if simulate {
		simDev = sim.NewDevice()
		dev = devices{button: simDev, indicator: simDev, buzzer: simDev}
	} else {
		hw, err := gpio.NewRealDevice(cfg.Chip, cfg.Pins, cfg.Debounce)
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		defer hw.Close()

		if printButton {
			pressed, err := hw.Raw()
			if err != nil {
				return fmt.Errorf("read gpio: %w", err)
			}
			fmt.Printf("Button: %s\n", buttonString(pressed))
			return nil
		}
		dev = devices{button: hw, indicator: hw, buzzer: hw}
	}

	// Initialize MQTT
	var publisher mqtt.Publisher = noPublisher{}
	var mqttStatus mqtt.ConnectionStatus
	if cfg.Broker != "" {
		rp := mqtt.NewRealPublisher(cfg.Broker)
		defer rp.Close()
		publisher, mqttStatus = rp, rp
	} else {
		log.Printf("mqtt disabled")
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		FocusMs:     cfg.Focus.Milliseconds(),
		BreakMs:     cfg.Break.Milliseconds(),
		MaxBreaks:   cfg.MaxBreaks,
		PollMs:      cfg.Poll.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		Broker:      cfg.Broker,
		HTTPAddr:    cfg.HTTP,
	})

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.HTTP != "" {
		srv := web.New(cfg.HTTP, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// The simulator owns the terminal; quitting it stops the daemon.
	if simDev != nil {
		logFile, err := tea.LogToFile("focus-timer.log", "")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer logFile.Close()

		p := tea.NewProgram(sim.NewModel(simDev, tracker))
		simDev.OnChange(func() { p.Send(sim.RefreshMsg{}) })
		uiDone := make(chan struct{})
		go func() {
			defer close(uiDone)
			if _, err := p.Run(); err != nil {
				log.Printf("simulator error: %v", err)
			}
			select {
			case sigCh <- os.Interrupt:
			default:
			}
		}()
		defer func() {
			p.Quit()
			<-uiDone
		}()
	}

	log.Printf("started: focus=%v break=%v poll=%v debounce=%v broker=%s heartbeat=%v",
		cfg.Focus, cfg.Break, cfg.Poll, cfg.Debounce, cfg.Broker, cfg.Heartbeat)

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	return runLoop(dev, publisher, mqttStatus, tracker, cfg.Logic(), cfg.Heartbeat, time.Now, nil, ticker.C, sigCh)
}

func runLoop(dev devices, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, cfg logic.Config, heartbeat time.Duration, now func() time.Time, sleep func(time.Duration), tick <-chan time.Time, sig <-chan os.Signal) error {
	startTime := now()
	lastHeartbeat := startTime
	machine := logic.NewMachine(cfg)
	player := announce.NewPlayer(dev.indicator, dev.buzzer, sleep)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			if err := dev.indicator.Clear(); err != nil {
				log.Printf("clear leds: %v", err)
			}
			if err := dev.buzzer.Off(); err != nil {
				log.Printf("buzzer off: %v", err)
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			if err := dev.button.Read(t); err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			cmds := machine.Tick(logic.Input{
				Now:         t,
				Pressed:     dev.button.WasPressed(),
				SinceChange: dev.button.SinceChange(),
			})
			for _, c := range cmds {
				dispatch(c, dev, player, publisher, tracker)
			}

			if tracker != nil && mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}

			// Check for heartbeat
			if heartbeat > 0 && t.Sub(lastHeartbeat) >= heartbeat {
				lastHeartbeat = t
				log.Printf("heartbeat: uptime=%v phase=%s breaks=%d",
					t.Sub(startTime).Truncate(time.Second), machine.Phase(), machine.BreaksTaken())

				hbEvent := mqtt.SystemEvent{
					Timestamp: t,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					hbEvent.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}
		}
	}
}

// dispatch performs one machine command. Output failures are logged and
// never stop the loop.
func dispatch(c logic.Command, dev devices, player *announce.Player, publisher mqtt.Publisher, tracker *status.Tracker) {
	switch c.Type {
	case logic.CommandSetIndicator:
		if err := dev.indicator.Set(c.Front, c.Back); err != nil {
			log.Printf("set leds: %v", err)
		}
	case logic.CommandBeep:
		player.Beep()
	case logic.CommandAnnounce:
		player.Play(c.Announcement)
	case logic.CommandLog:
		log.Print(report.Line(c.Report))
	case logic.CommandTransition:
		tr := c.Transition
		log.Printf("event: %s (%s -> %s, breaks=%d)", tr.Event, tr.From, tr.To, tr.BreaksTaken)
		if err := publisher.Publish(tr); err != nil {
			log.Printf("publish error: %v", err)
		}
		if tracker != nil {
			tracker.Record(tr)
		}
	}
}

// noPublisher drops everything. Used when no broker is configured.
type noPublisher struct{}

func (noPublisher) Publish(logic.Transition) error { return nil }

func (noPublisher) PublishSystem(mqtt.SystemEvent) error { return nil }

func (noPublisher) Close() error { return nil }

func buttonString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
