package engine

import (
	"fmt"
	"maps"
	"slices"

	"github.com/danieljhkim/modcheck/internal/pkgspec"
)

// Status is the classification of one package.
type Status int

const (
	// StatusMatch means the installed package is the wanted one.
	StatusMatch Status = iota
	// StatusUnwanted means the package is installed but not in the manifest.
	StatusUnwanted
	// StatusMissing means the package is in the manifest but not installed.
	StatusMissing
	// StatusMismatched means the installed package differs from the wanted one.
	StatusMismatched
)

// String returns the lowercase name of the status.
func (s Status) String() string {
	switch s {
	case StatusMatch:
		return "match"
	case StatusUnwanted:
		return "unwanted"
	case StatusMissing:
		return "missing"
	case StatusMismatched:
		return "mismatched"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// NeedsInstall reports whether packages with this status go on the repair list.
func (s Status) NeedsInstall() bool {
	return s == StatusMissing || s == StatusMismatched
}

// Entry pairs the wanted and installed state of one package.
type Entry struct {
	Name string               `json:"name"`
	Want *pkgspec.InstallSpec `json:"want,omitempty"`
	Have *pkgspec.InstallSpec `json:"have,omitempty"`
}

// Status classifies the entry.
func (e Entry) Status() Status {
	return Classify(e.Have, e.Want)
}

// Classify returns the status of a (have, want) pair. Specs are compared by
// string equality only; at least one side must be present.
func Classify(have, want *pkgspec.InstallSpec) Status {
	switch {
	case want == nil:
		return StatusUnwanted
	case have == nil:
		return StatusMissing
	case have.Spec == want.Spec:
		return StatusMatch
	default:
		return StatusMismatched
	}
}

// Table is the merged view of both sources, sorted by package name with one
// entry per name.
type Table []Entry

// Merge builds the table from the wanted and installed specs. Neither input
// is modified.
func Merge(want, have map[string]pkgspec.InstallSpec) Table {
	names := make(map[string]struct{}, len(want)+len(have))
	for name := range want {
		names[name] = struct{}{}
	}
	for name := range have {
		names[name] = struct{}{}
	}

	table := make(Table, 0, len(names))
	for _, name := range slices.Sorted(maps.Keys(names)) {
		entry := Entry{Name: name}
		if w, ok := want[name]; ok {
			entry.Want = &w
		}
		if h, ok := have[name]; ok {
			entry.Have = &h
		}
		table = append(table, entry)
	}
	return table
}

// Filter returns the entries for which keep returns true.
func (t Table) Filter(keep func(name string) bool) Table {
	out := make(Table, 0, len(t))
	for _, entry := range t {
		if keep(entry.Name) {
			out = append(out, entry)
		}
	}
	return out
}

// ReportOptions selects which statuses produce lines. Missing and
// mismatched packages are always reported.
type ReportOptions struct {
	// All also reports matching packages.
	All bool

	// Unwanted also reports packages that are installed but not wanted.
	Unwanted bool
}

// Report is the outcome of reconciling a table.
type Report struct {
	// Lines are the status lines, in name order.
	Lines []Line

	// Install is the repair list, in name order.
	Install []string

	// Counts holds the number of entries per status.
	Counts map[Status]int
}

// Satisfied reports whether nothing needs to be installed.
func (r Report) Satisfied() bool {
	return len(r.Install) == 0
}

// Reconcile classifies every entry of the table and derives the status lines
// and the repair list. It has no side effects.
func Reconcile(table Table, opts ReportOptions) Report {
	report := Report{Counts: make(map[Status]int)}

	for _, entry := range table {
		status := entry.Status()
		report.Counts[status]++

		if status.NeedsInstall() {
			report.Install = append(report.Install, entry.Want.InstallArg())
		}
		if line, ok := statusLine(entry, status, opts); ok {
			report.Lines = append(report.Lines, line)
		}
	}
	return report
}

func statusLine(entry Entry, status Status, opts ReportOptions) (Line, bool) {
	line := Line{Kind: LineStatus, Status: status, Name: entry.Name, Mark: markBad}

	switch status {
	case StatusMatch:
		if !opts.All {
			return Line{}, false
		}
		line.Mark = markGood
		line.Detail = fmt.Sprintf(": %s matches", entry.Have.Desc)
	case StatusUnwanted:
		if !opts.Unwanted {
			return Line{}, false
		}
		line.Detail = fmt.Sprintf(": %s is ", entry.Have.Desc)
		line.Verdict = "unwanted"
	case StatusMissing:
		line.Detail = fmt.Sprintf(": %s is ", entry.Want.Desc)
		line.Verdict = "missing"
	case StatusMismatched:
		line.Detail = fmt.Sprintf(": %s ", entry.Have.Desc)
		line.Verdict = "should be " + entry.Want.Desc
	}

	line.Text = line.Mark + " " + line.Name + line.Detail + line.Verdict
	return line, true
}
