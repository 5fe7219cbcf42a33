package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/humidistat/internal/logic"
	"github.com/sweeney/humidistat/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
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
	"modeClass": func(s logic.DeviceState) string {
		if !s.On {
			return "off"
		}
		return "on"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Humidistat {{.Config.DeviceID}}</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
pre.lcd { background: #113; color: #9cf; padding: 8px; display: inline-block; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unsafe { color: red; font-weight: bold; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Humidistat {{.Config.DeviceID}}</h1>

<pre class="lcd">{{range .Display}}{{.}}
{{end}}</pre>

<h2>Device</h2>
<table>
<tr><th>State</th><td id="device-state" class="{{modeClass .State}}">{{.State.Label}}</td></tr>
<tr><th>Mode</th><td>{{.State.Mode}}</td></tr>
<tr><th>Manual</th><td>{{if .State.ManualDesired}}on{{else}}off{{end}}</td></tr>
<tr><th>Rule</th><td>{{if .Rule}}{{.Rule}}{{else}}-{{end}}</td></tr>
<tr><th>Reason</th><td>{{.Reason}}</td></tr>
{{if .ActiveRoutine}}<tr><th>Routine</th><td>{{.ActiveRoutine}}</td></tr>{{end}}
</table>

<h2>Environment</h2>
<table>
<tr><th>Temperature</th><td>{{printf "%.1f" .State.Temperature}} &deg;C</td></tr>
<tr><th>Humidity</th><td>{{printf "%.1f" .State.Humidity}} %</td></tr>
<tr><th>ICA</th><td>{{.State.ICA}}</td></tr>
<tr><th>Safe</th><td class="{{if .Safe}}on{{else}}unsafe{{end}}">{{if .Safe}}yes{{else if .BoundsLoaded}}no{{else}}no bounds yet{{end}}</td></tr>
{{if .BoundsLoaded}}<tr><th>Temperature range</th><td>{{printf "%.1f" .Bounds.TempMin}} - {{printf "%.1f" .Bounds.TempMax}}</td></tr>
<tr><th>Humidity range</th><td>{{printf "%.1f" .Bounds.HumMin}} - {{printf "%.1f" .Bounds.HumMax}}</td></tr>{{end}}
</table>

<h2>Remote</h2>
<table>
<tr><th>Server</th><td>{{.Config.Server}}</td></tr>
<tr><th>Routines</th><td>{{.Routines}}</td></tr>
<tr><th>Error</th><td{{if .APIError}} class="unsafe"{{end}}>{{if .APIError}}{{.APIError}}{{else}}none{{end}}</td></tr>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>DEVICE_ON</th><td>{{.Counts.DeviceOn}}</td></tr>
<tr><th>DEVICE_OFF</th><td>{{.Counts.DeviceOff}}</td></tr>
<tr><th>MODE_CHANGE</th><td>{{.Counts.ModeChange}}</td></tr>
<tr><th>SAFETY_TRIP</th><td>{{.Counts.SafetyTrip}}</td></tr>
<tr><th>MANUAL_ON</th><td>{{.Counts.ManualOn}}</td></tr>
<tr><th>MANUAL_OFF</th><td>{{.Counts.ManualOff}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Sensor</th><td>{{.Config.SensorMs}}ms</td></tr>
<tr><th>Remote</th><td>{{.Config.RemoteMs}}ms</td></tr>
<tr><th>Control</th><td>{{.Config.ControlMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
{{if .Config.Simulate}}<tr><th>Hardware</th><td>simulated</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() and Safe() methods but the template reads fields.
	data := struct {
		status.Snapshot
		Uptime time.Duration
		Safe   bool
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
		Safe:     snap.Safe(),
	}
	indexTmpl.Execute(w, data)
}
