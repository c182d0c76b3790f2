package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/focus-timer/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"duration": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"phaseClass": func(p string) string {
		switch p {
		case "FOCUS":
			return "focus"
		case "BREAK":
			return "break"
		}
		return "idle"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Focus Timer</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.focus { color: #c00; font-weight: bold; }
.break { color: green; font-weight: bold; }
.idle { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Focus Timer</h1>

<h2>Timer</h2>
<table>
<tr><th>Phase</th><td id="phase" class="{{phaseClass .PhaseName}}">{{.PhaseName}}</td></tr>
{{if .Timed}}<tr><th>Elapsed</th><td>{{duration .Elapsed}}</td></tr>
<tr><th>Remaining</th><td>{{duration .Remaining}}</td></tr>{{end}}
<tr><th>Breaks taken</th><td>{{.BreaksTaken}}</td></tr>
<tr><th>Sessions</th><td>{{.Sessions}}</td></tr>
<tr><th>Last event</th><td>{{if .LastEvent}}{{.LastEvent}}{{else}}none{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{duration .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Focus</th><td>{{.Config.FocusMs}}ms</td></tr>
<tr><th>Break</th><td>{{.Config.BreakMs}}ms</td></tr>
<tr><th>Max breaks</th><td>{{.Config.MaxBreaks}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot exposes durations as methods; the template reads fields.
	data := struct {
		status.Snapshot
		PhaseName string
		Timed     bool
		Elapsed   time.Duration
		Remaining time.Duration
		Uptime    time.Duration
	}{
		Snapshot:  snap,
		PhaseName: string(snap.Phase),
		Timed:     !snap.PhaseStartedAt.IsZero(),
		Elapsed:   snap.PhaseElapsed(),
		Remaining: snap.PhaseRemaining(),
		Uptime:    snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render: %v", err)
	}
}
