package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// eventRecord mirrors otel.Event for JSON decoding.
// Decoded from JSONL rather than importing otel so old logs stay readable
// when the event schema evolves.
type eventRecord struct {
	Time      time.Time      `json:"t"`
	Level     string         `json:"level"`
	Kind      string         `json:"kind"`
	Comp      string         `json:"comp"`
	SessionID string         `json:"session_id"`
	Candidate string         `json:"candidate"`
	Decision  string         `json:"decision"`
	Phase     string         `json:"phase"`
	Token     uint64         `json:"token"`
	DurMs     float64        `json:"dur_ms"`
	Count     int            `json:"count"`
	Source    string         `json:"source"`
	Err       string         `json:"err"`
	Msg       string         `json:"msg"`
	Extra     map[string]any `json:"extra"`
}

// levelRank returns a numeric rank for filtering (higher = more severe).
func levelRank(level string) int {
	switch level {
	case "debug":
		return 0
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 0
	}
}

// eventFilter selects events by kind prefix, minimum level, component,
// candidate and session.
type eventFilter struct {
	kind      string
	level     string
	comp      string
	candidate string
	session   string
}

func (f eventFilter) match(ev eventRecord) bool {
	if f.kind != "" && !strings.HasPrefix(ev.Kind, f.kind) {
		return false
	}
	if f.level != "" && levelRank(ev.Level) < levelRank(f.level) {
		return false
	}
	if f.comp != "" && ev.Comp != f.comp {
		return false
	}
	if f.candidate != "" && ev.Candidate != f.candidate {
		return false
	}
	if f.session != "" && !strings.HasPrefix(ev.SessionID, f.session) {
		return false
	}
	return true
}

func runEvents() {
	fs := flag.NewFlagSet("events", flag.ExitOnError)
	tail := fs.Int("tail", 50, "Number of recent lines to show")
	follow := fs.Bool("f", false, "Follow mode (like tail -f)")
	kind := fs.String("kind", "", "Filter by event kind prefix (e.g. 'swipe')")
	level := fs.String("level", "", "Minimum level: debug, info, warn, error")
	comp := fs.String("comp", "", "Filter by component name")
	cand := fs.String("candidate", "", "Filter by candidate ID")
	session := fs.String("session", "", "Filter by session ID prefix")
	decisions := fs.Bool("decisions", false, "Summarize duo/skip decisions instead of listing events")
	rawJSON := fs.Bool("json", false, "Output raw JSON lines")
	fs.Parse(os.Args[1:])

	logPath := eventLogPath()

	f, err := os.Open(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		fmt.Fprintf(os.Stderr, "  Event log not found at %s\n", logPath)
		fmt.Fprintf(os.Stderr, "  Run duo first to generate events.\n")
		os.Exit(1)
	}
	defer f.Close()

	filter := eventFilter{kind: *kind, level: *level, comp: *comp, candidate: *cand, session: *session}

	if *decisions {
		filter.kind = "swipe.decision"
		lines := readTailLines(f, 0, filter.match)
		printDecisionSummary(os.Stdout, lines)
		return
	}

	formatFn := func(ev eventRecord, raw []byte) string {
		if *rawJSON {
			return string(raw)
		}
		return formatEvent(ev)
	}

	lines := readTailLines(f, *tail, filter.match)
	for _, l := range lines {
		fmt.Println(formatFn(l.ev, l.raw))
	}
	if !*follow {
		return
	}

	// Poll for new lines
	reader := bufio.NewReader(f)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				time.Sleep(100 * time.Millisecond)
				continue
			}
			return
		}
		line = trimLine(line)
		if len(line) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(line, &ev) != nil {
			continue
		}
		if filter.match(ev) {
			fmt.Println(formatFn(ev, line))
		}
	}
}

func formatEvent(ev eventRecord) string {
	ts := ev.Time.Format("15:04:05.000")
	lvl := strings.ToUpper(ev.Level)
	if lvl == "" {
		lvl = "?"
	}

	parts := []string{fmt.Sprintf("%s %-5s [%-6s] %-18s", ts, lvl, ev.Comp, ev.Kind)}

	if ev.Candidate != "" {
		parts = append(parts, "cand="+ev.Candidate)
	}
	if ev.Decision != "" {
		parts = append(parts, ev.Decision)
	}
	if ev.Phase != "" {
		parts = append(parts, "phase="+ev.Phase)
	}
	if ev.Token != 0 {
		parts = append(parts, fmt.Sprintf("t=%d", ev.Token))
	}
	if ev.Msg != "" {
		parts = append(parts, "- "+ev.Msg)
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs))
	}
	if ev.Count > 0 {
		parts = append(parts, fmt.Sprintf("n=%d", ev.Count))
	}
	if ev.Source != "" {
		parts = append(parts, "src="+ev.Source)
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}

	return strings.Join(parts, " ")
}

// printDecisionSummary tallies decisions per session.
func printDecisionSummary(w io.Writer, lines []parsedLine) {
	type tally struct {
		duo, skip int
		first     time.Time
	}
	sessions := map[string]*tally{}
	var order []string
	for _, l := range lines {
		t, ok := sessions[l.ev.SessionID]
		if !ok {
			t = &tally{first: l.ev.Time}
			sessions[l.ev.SessionID] = t
			order = append(order, l.ev.SessionID)
		}
		switch l.ev.Decision {
		case "duo":
			t.duo++
		case "skip":
			t.skip++
		}
	}

	var duo, skip int
	for _, id := range order {
		t := sessions[id]
		short := id
		if len(short) > 8 {
			short = short[:8]
		}
		fmt.Fprintf(w, "%s  %s  duo=%-4d skip=%-4d\n", t.first.Format("2006-01-02 15:04"), short, t.duo, t.skip)
		duo += t.duo
		skip += t.skip
	}
	fmt.Fprintf(w, "\nSessions: %d  duo: %d  skip: %d\n", len(order), duo, skip)
}

type parsedLine struct {
	ev  eventRecord
	raw []byte
}

// readTailLines reads r and returns the last n lines matching the filter.
// n <= 0 returns every matching line.
func readTailLines(r io.Reader, n int, match func(eventRecord) bool) []parsedLine {
	scanner := bufio.NewScanner(r)
	// Allow large lines (some events may have big Extra maps)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	var ring []parsedLine
	if n > 0 {
		ring = make([]parsedLine, 0, n)
	}

	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(raw, &ev) != nil {
			continue
		}
		if !match(ev) {
			continue
		}
		// Make a copy of raw since scanner reuses the buffer
		rawCopy := make([]byte, len(raw))
		copy(rawCopy, raw)

		if n <= 0 || len(ring) < n {
			ring = append(ring, parsedLine{ev: ev, raw: rawCopy})
		} else {
			// Shift left
			copy(ring, ring[1:])
			ring[n-1] = parsedLine{ev: ev, raw: rawCopy}
		}
	}

	return ring
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func durPrecision(ms float64) int {
	if ms >= 100 {
		return 0
	}
	if ms >= 1 {
		return 1
	}
	return 2
}
