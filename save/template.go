package save

import (
	"strconv"
	"strings"
	"time"

	"github.com/captureframe/screencap/geom"
)

// resolveTemplate instantiates output_template's placeholders against
// one capture's geometry and timestamp: `{mon}`, `{top}`, `{left}`,
// `{width}`, `{height}`, `{date}`.
func resolveTemplate(tmpl string, monitor int, region geom.Monitor, now time.Time, formatter func(time.Time) string) string {
	r := strings.NewReplacer(
		"{mon}", strconv.Itoa(monitor),
		"{left}", strconv.Itoa(int(region.Left)),
		"{top}", strconv.Itoa(int(region.Top)),
		"{width}", strconv.Itoa(int(region.Width)),
		"{height}", strconv.Itoa(int(region.Height)),
		"{date}", formatter(now),
	)
	return r.Replace(tmpl)
}

// defaultDateFormatter renders an RFC3339 timestamp with colons
// replaced so the result is a legal filename component on every
// supported OS (Windows rejects ':' in paths).
func defaultDateFormatter(t time.Time) string {
	return strings.ReplaceAll(t.Format(time.RFC3339), ":", "-")
}
