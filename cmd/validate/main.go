// Command validate checks the internal consistency of a Darwin Core archive
// produced by cmd/export: event identifier uniqueness and scheme, parent
// references, occurrence-to-event links, and eMoF-to-record links.
//
// Usage:
//
//	go run ./cmd/validate -dir dwca
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	setEventIDPattern  = regexp.MustCompile(`^(.+)-Set[0-9]+$`)
	occurrenceIDSuffix = regexp.MustCompile(`_[0-9]+$`)
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dir := flag.String("dir", "dwca", "directory containing event.csv, occurrence.csv and emof.csv")
	flag.Parse()

	if code := run(*dir); code != 0 {
		os.Exit(code)
	}
}

func run(dir string) int {
	fmt.Println("=== Darwin Core Archive Validation ===")
	fmt.Println()

	events, err := loadTable(filepath.Join(dir, "event.csv"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load event table: %v\n", err)
		return 1
	}
	occurrences, err := loadTable(filepath.Join(dir, "occurrence.csv"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load occurrence table: %v\n", err)
		return 1
	}
	facts, err := loadTable(filepath.Join(dir, "emof.csv"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load emof table: %v\n", err)
		return 1
	}

	eventIDs := idSet(events, "eventID")
	occurrenceIDs := idSet(occurrences, "occurrenceID")

	phases := []*phase{
		validateEvents(events, eventIDs),
		validateOccurrences(occurrences, eventIDs),
		validateFacts(facts, eventIDs, occurrenceIDs),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d events, %d occurrences, %d measurements\n",
		len(events), len(occurrences), len(facts))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Data loading ──

// row is a parsed CSV row with field values keyed by header name.
type row struct {
	lineNum int
	fields  map[string]string
}

func (r row) get(col string) string { return r.fields[col] }

func loadTable(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", filepath.Base(path))
	}

	header := records[0]
	rows := make([]row, 0, len(records)-1)
	for i, rec := range records[1:] {
		fields := make(map[string]string, len(header))
		for j, col := range header {
			if j < len(rec) {
				fields[col] = rec[j]
			}
		}
		rows = append(rows, row{lineNum: i + 2, fields: fields})
	}
	return rows, nil
}

func idSet(rows []row, col string) map[string]bool {
	ids := make(map[string]bool, len(rows))
	for _, r := range rows {
		if id := r.get(col); id != "" {
			ids[id] = true
		}
	}
	return ids
}

// ── Validation phases ──

// validateEvents checks event identifier uniqueness, the identifier scheme
// (a site visit ID is its parent's ID plus a -Set{n} suffix), parent
// references, and the presence of required Darwin Core fields.
func validateEvents(events []row, eventIDs map[string]bool) *phase {
	p := &phase{name: "Event integrity"}

	seen := make(map[string]int, len(events))
	for _, r := range events {
		id := r.get("eventID")
		if id == "" {
			p.errorf("line %d: empty eventID", r.lineNum)
			continue
		}
		if prev, dup := seen[id]; dup {
			p.errorf("line %d: duplicate eventID %q (first at line %d)", r.lineNum, id, prev)
		}
		seen[id] = r.lineNum

		parent := r.get("parentEventID")
		switch {
		case parent == "":
			if r.get("eventType") != "Project" {
				p.errorf("line %d: root event %q has eventType %q, want Project",
					r.lineNum, id, r.get("eventType"))
			}
		default:
			if !eventIDs[parent] {
				p.errorf("line %d: event %q references missing parent %q", r.lineNum, id, parent)
			}
			m := setEventIDPattern.FindStringSubmatch(id)
			if m == nil {
				p.errorf("line %d: site visit eventID %q does not match {parent}-Set{n}", r.lineNum, id)
			} else if m[1] != parent {
				p.errorf("line %d: eventID %q prefix does not match parentEventID %q", r.lineNum, id, parent)
			}
		}

		for _, col := range []string{"eventDate", "decimalLatitude", "decimalLongitude", "geodeticDatum"} {
			if r.get(col) == "" {
				p.errorf("line %d: event %q missing %s", r.lineNum, id, col)
			}
		}
		if r.get("footprintWKT") != "" && r.get("footprintSRS") == "" {
			p.errorf("line %d: event %q has footprintWKT without footprintSRS", r.lineNum, id)
		}
	}
	return p
}

// validateOccurrences checks occurrence identifier uniqueness and scheme
// (the event ID plus a numeric suffix), event references, and required
// Darwin Core fields.
func validateOccurrences(occurrences []row, eventIDs map[string]bool) *phase {
	p := &phase{name: "Occurrence integrity"}

	seen := make(map[string]int, len(occurrences))
	for _, r := range occurrences {
		id := r.get("occurrenceID")
		if id == "" {
			p.errorf("line %d: empty occurrenceID", r.lineNum)
			continue
		}
		if prev, dup := seen[id]; dup {
			p.errorf("line %d: duplicate occurrenceID %q (first at line %d)", r.lineNum, id, prev)
		}
		seen[id] = r.lineNum

		eventID := r.get("eventID")
		if !eventIDs[eventID] {
			p.errorf("line %d: occurrence %q references missing event %q", r.lineNum, id, eventID)
		}
		if !strings.HasPrefix(id, eventID+"_") || !occurrenceIDSuffix.MatchString(id) {
			p.errorf("line %d: occurrenceID %q does not match {eventID}_{n}", r.lineNum, id)
		}

		if r.get("scientificName") == "" {
			p.errorf("line %d: occurrence %q missing scientificName", r.lineNum, id)
		}
		if r.get("basisOfRecord") != "HumanObservation" {
			p.errorf("line %d: occurrence %q has basisOfRecord %q, want HumanObservation",
				r.lineNum, id, r.get("basisOfRecord"))
		}
		if r.get("occurrenceStatus") != "present" {
			p.errorf("line %d: occurrence %q has occurrenceStatus %q, want present",
				r.lineNum, id, r.get("occurrenceStatus"))
		}
		if nameID := r.get("scientificNameID"); nameID != "" &&
			!strings.HasPrefix(nameID, "urn:lsid:marinespecies.org:taxname:") {
			p.errorf("line %d: occurrence %q has malformed scientificNameID %q", r.lineNum, id, nameID)
		}
	}
	return p
}

// validateFacts checks that every measurement row links to an existing event
// and, when set, an existing occurrence.
func validateFacts(facts []row, eventIDs, occurrenceIDs map[string]bool) *phase {
	p := &phase{name: "Measurement integrity"}

	for _, r := range facts {
		eventID := r.get("eventID")
		if eventID == "" {
			p.errorf("line %d: empty eventID", r.lineNum)
		} else if !eventIDs[eventID] {
			p.errorf("line %d: measurement references missing event %q", r.lineNum, eventID)
		}
		if occID := r.get("occurrenceID"); occID != "" && !occurrenceIDs[occID] {
			p.errorf("line %d: measurement references missing occurrence %q", r.lineNum, occID)
		}
		if r.get("measurementType") == "" {
			p.errorf("line %d: measurement missing measurementType", r.lineNum)
		}
	}
	return p
}
