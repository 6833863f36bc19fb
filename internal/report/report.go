// Package report renders audit results as a standalone HTML page.
package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/fabriziosalmi/domainmate/internal/audit"
	"github.com/fabriziosalmi/domainmate/internal/monitors"
)

// statusColors maps each status to the badge colour used in the report.
var statusColors = map[monitors.Status]string{
	monitors.StatusOK:       "#2e7d32",
	monitors.StatusWarning:  "#f9a825",
	monitors.StatusCritical: "#c62828",
	monitors.StatusUnknown:  "#6a1b9a",
	monitors.StatusError:    "#546e7a",
}

var pageTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"statusColor": func(s monitors.Status) string {
		if c, ok := statusColors[s]; ok {
			return c
		}
		return "#546e7a"
	},
}).Parse(page))

const page = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Domain health report</title>
<style>
body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 2rem auto; max-width: 60rem; color: #212121; }
h1 { font-size: 1.4rem; }
h2 { font-size: 1.1rem; margin-top: 2rem; border-bottom: 1px solid #e0e0e0; padding-bottom: .3rem; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #eeeeee; vertical-align: top; }
th { color: #616161; font-weight: 600; }
.badge { display: inline-block; padding: .1rem .5rem; border-radius: .7rem; color: #ffffff; font-size: .8rem; }
.meta { color: #757575; font-size: .85rem; }
</style>
</head>
<body>
<h1>Domain health report</h1>
<p class="meta">Generated {{.Report.GeneratedAt.Format "2006-01-02 15:04:05 MST"}} &mdash; {{.Report.Summary}}</p>
{{range $domain := .Report.Domains}}
<h2>{{$domain}}</h2>
<table>
<tr><th>Monitor</th><th>Status</th><th>Summary</th></tr>
{{range $.Report.FindingsFor $domain}}
<tr>
<td>{{.Monitor}}</td>
<td><span class="badge" style="background: {{statusColor .Status}}">{{.Status}}</span></td>
<td>{{.Summary}}</td>
</tr>
{{end}}
</table>
{{end}}
</body>
</html>
`

// templateData wraps the report for template execution.
type templateData struct {
	Report *audit.Report
}

// Generate writes an HTML report into dir and returns the file path. The
// directory is created if it does not exist; the file name carries the
// report's generation timestamp.
func Generate(report *audit.Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	name := fmt.Sprintf("report_%s.html", report.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}
	defer f.Close()

	if err := pageTemplate.Execute(f, templateData{Report: report}); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
