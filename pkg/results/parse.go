// Package results consumes @SSA_REPORT streams: parsing them back
// into records, aggregating them into CSV for benchmark comparisons,
// and drawing the distribution dashboard. This is the Go counterpart
// of the collector and plotting scripts that sit downstream of the
// simulator.
package results

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Record is one parsed report line. Class is empty for aggregate
// (function-level) lines.
type Record struct {
	Func     string
	Class    string
	Spills   int
	Pressure int
}

const reportMarker = "@SSA_REPORT"

// ParseLine parses a single report line. The second result is false
// for lines that are not report lines (compilers interleave all
// sorts of diagnostics on the same stream). Fields are matched by
// key, not position.
func ParseLine(line string) (Record, bool) {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 || fields[0] != reportMarker {
		return Record{}, false
	}

	var rec Record
	var haveFunc, haveSpills, havePressure bool
	for _, f := range fields[1:] {
		key, val, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		switch key {
		case "func":
			rec.Func = val
			haveFunc = true
		case "class":
			rec.Class = val
		case "spills":
			n, err := strconv.Atoi(val)
			if err != nil {
				return Record{}, false
			}
			rec.Spills = n
			haveSpills = true
		case "pressure":
			n, err := strconv.Atoi(val)
			if err != nil {
				return Record{}, false
			}
			rec.Pressure = n
			havePressure = true
		}
	}
	if !haveFunc || !haveSpills || !havePressure {
		return Record{}, false
	}
	return rec, true
}

// ParseStream reads every report line from r, skipping everything
// else.
func ParseStream(r io.Reader) ([]Record, error) {
	var recs []Record
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if rec, ok := ParseLine(scanner.Text()); ok {
			recs = append(recs, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading report stream: %w", err)
	}
	return recs, nil
}
