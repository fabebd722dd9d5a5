// Package logview prints the console's JSON log files in a compact, readable form.
package logview

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ohler55/ojg/oj"

	"hompulse/console/internal/ui"
)

const timeLayout = "06-01-02 15:04:05.000"

// Viewer reads new entries from every *.log file in a directory
type Viewer struct {
	dir       string
	filter    string
	ui        *ui.UI
	positions map[string]int64
	known     map[string]bool
}

// New creates a Viewer for dir. Entries whose formatted text does not
// contain filter (case-insensitive) are skipped.
func New(dir, filter string, u *ui.UI) *Viewer {
	return &Viewer{
		dir:       dir,
		filter:    strings.ToLower(filter),
		ui:        u,
		positions: make(map[string]int64),
		known:     make(map[string]bool),
	}
}

// Scan prints the entries written since the last scan and returns how many were printed
func (v *Viewer) Scan() (int, error) {
	files, err := filepath.Glob(filepath.Join(v.dir, "*.log"))
	if err != nil {
		return 0, fmt.Errorf("failed to list log files: %w", err)
	}
	sort.Strings(files)

	printed := 0
	for _, path := range files {
		n, err := v.scanFile(path)
		printed += n
		if err != nil {
			v.ui.Error(err.Error())
		}
	}
	return printed, nil
}

func (v *Viewer) scanFile(path string) (int, error) {
	name := filepath.Base(path)
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if stat.Size() < v.positions[path] {
		v.ui.Warning(name + " was truncated, reading from the start")
		v.positions[path] = 0
	}
	if _, err := f.Seek(v.positions[path], io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to seek in %s: %w", name, err)
	}

	printed := 0
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadString('\n')
		// A partial last line is left for the next scan
		if err != nil {
			break
		}
		v.positions[path] += int64(len(line))

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		text, ok := v.Format(line)
		if !ok {
			v.ui.Warning(name + ": skipping malformed entry")
			continue
		}
		if v.filter != "" && !strings.Contains(strings.ToLower(text), v.filter) {
			continue
		}
		v.ui.Println(text)
		printed++
	}
	return printed, nil
}

// Follow scans the directory every interval until ctx is cancelled
func (v *Viewer) Follow(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := v.Scan(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Format renders one JSON log line. Attributes beyond time, level and msg
// follow on indented lines, sorted by key.
func (v *Viewer) Format(line string) (string, bool) {
	parsed, err := oj.ParseString(line)
	if err != nil {
		return "", false
	}
	entry, ok := parsed.(map[string]any)
	if !ok {
		return "", false
	}

	ts, _ := entry["time"].(string)
	if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
		ts = t.Format(timeLayout)
	}
	level, _ := entry["level"].(string)
	level = strings.ToUpper(level)
	msg, _ := entry["msg"].(string)

	var b strings.Builder
	b.WriteString(v.ui.Colorize(ts, ui.ColorLightPurple))
	b.WriteString(" ")
	b.WriteString(v.ui.Colorize(fmt.Sprintf("%-5s", level), levelColor(level)))
	b.WriteString(" ")
	b.WriteString(msg)

	keys := make([]string, 0, len(entry))
	for k := range entry {
		if k != "time" && k != "level" && k != "msg" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "\n    %s %v", v.ui.Colorize(k+":", ui.ColorGray), entry[k])
	}
	return b.String(), true
}

func levelColor(level string) ui.Color {
	switch level {
	case "DEBUG":
		return ui.ColorLightBlue
	case "INFO":
		return ui.ColorLightGreen
	case "WARN":
		return ui.ColorLightYellow
	case "ERROR":
		return ui.ColorRed
	default:
		return ui.ColorWhite
	}
}
