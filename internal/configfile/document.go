// Package configfile models the AWS shared config and credentials files as
// ordered line documents. Everything above the managed-region marker belongs
// to the user (or other tools) and round-trips byte for byte; everything below
// it is owned by this tool and kept in canonical, sorted form.
package configfile

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// SectionKind tags the two section flavors the store manages.
type SectionKind string

const (
	KindProfile    SectionKind = "profile"
	KindSSOSession SectionKind = "sso-session"
)

// Style selects the section-header convention of the underlying file.
type Style int

const (
	// StyleConfig uses [profile <name>] and [sso-session <name>] headers,
	// with [default] as the unprefixed special case (~/.aws/config).
	StyleConfig Style = iota
	// StyleCredentials uses bare [<name>] headers (~/.aws/credentials).
	StyleCredentials
)

// KeyValue is one setting within a section, order-significant.
type KeyValue struct {
	Key   string
	Value string
}

type lineKind int

const (
	blankLine lineKind = iota
	commentLine
	sectionLine
	keyValueLine
	markerLine
)

type line struct {
	raw      string
	kind     lineKind
	sectKind SectionKind
	sectName string
	key      string
	value    string
}

// Managed-region marker. The comment line directly below the marker is also
// treated as part of the marker so imports and re-saves never duplicate it.
const (
	ManagedMarker  = "# ==================== Managed by ssoctl ===================="
	ManagedComment = "# (sections below this line are automatically managed by ssoctl)"
)

func isMarkerLine(s string) bool {
	t := strings.TrimSpace(s)
	return t == ManagedMarker || t == ManagedComment
}

// Document is the in-memory form of one config or credentials file.
type Document struct {
	fs    afero.Fs
	path  string
	style Style

	lines          []line
	existed        bool
	noFinalNewline bool
	// set when a marker is introduced into a file that previously had
	// content but no marker; Save then writes the one-time backup
	backupPending bool
	originalBytes []byte
}

// Load reads the file at path, tolerating a missing file (empty document).
func Load(fs afero.Fs, path string, style Style) (*Document, error) {
	d := &Document{fs: fs, path: path, style: style}

	ok, err := afero.Exists(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !ok {
		return d, nil
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	d.existed = true
	d.originalBytes = data
	d.parse(string(data))
	return d, nil
}

func (d *Document) parse(content string) {
	if content == "" {
		return
	}
	d.noFinalNewline = !strings.HasSuffix(content, "\n")
	raws := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	d.lines = make([]line, 0, len(raws))
	for _, raw := range raws {
		d.lines = append(d.lines, classify(raw, d.style))
	}
}

func classify(raw string, style Style) line {
	t := strings.TrimSpace(raw)
	switch {
	case t == "":
		return line{raw: raw, kind: blankLine}
	case isMarkerLine(raw):
		return line{raw: raw, kind: markerLine}
	case strings.HasPrefix(t, "#") || strings.HasPrefix(t, ";"):
		return line{raw: raw, kind: commentLine}
	case strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]"):
		kind, name := parseHeader(t[1:len(t)-1], style)
		return line{raw: raw, kind: sectionLine, sectKind: kind, sectName: name}
	}
	if eq := strings.Index(t, "="); eq >= 0 {
		return line{
			raw:   raw,
			kind:  keyValueLine,
			key:   strings.TrimSpace(t[:eq]),
			value: strings.TrimSpace(t[eq+1:]),
		}
	}
	// Unparseable content is preserved verbatim, like a comment.
	return line{raw: raw, kind: commentLine}
}

func parseHeader(label string, style Style) (SectionKind, string) {
	label = strings.TrimSpace(label)
	if style == StyleCredentials {
		return KindProfile, label
	}
	switch {
	case label == "default":
		return KindProfile, "default"
	case strings.HasPrefix(label, "profile "):
		return KindProfile, strings.TrimSpace(strings.TrimPrefix(label, "profile "))
	case strings.HasPrefix(label, "sso-session "):
		return KindSSOSession, strings.TrimSpace(strings.TrimPrefix(label, "sso-session "))
	}
	// Unknown section kinds stay readable but are never machine-managed.
	return KindProfile, label
}

func (d *Document) header(kind SectionKind, name string) string {
	if d.style == StyleCredentials {
		return "[" + name + "]"
	}
	if kind == KindProfile {
		if name == "default" {
			return "[default]"
		}
		return "[profile " + name + "]"
	}
	return "[sso-session " + name + "]"
}

// markerStart returns the index of the first marker line, or -1.
func (d *Document) markerStart() int {
	for i := range d.lines {
		if d.lines[i].kind == markerLine {
			return i
		}
	}
	return -1
}

// managedStart returns the index of the first line after the marker block,
// or -1 when the document has no marker.
func (d *Document) managedStart() int {
	m := d.markerStart()
	if m < 0 {
		return -1
	}
	i := m
	for i < len(d.lines) && d.lines[i].kind == markerLine {
		i++
	}
	return i
}

// Section returns the key-values of the named section wherever it lives,
// preserving file order. The second result reports presence.
func (d *Document) Section(kind SectionKind, name string) ([]KeyValue, bool) {
	body, _, _, found := d.findSection(d.lines, 0, kind, name)
	return body, found
}

// SectionNames lists every section of the given kind in file order, user and
// managed regions alike.
func (d *Document) SectionNames(kind SectionKind) []string {
	var names []string
	for i := range d.lines {
		ln := d.lines[i]
		if ln.kind == sectionLine && ln.sectKind == kind {
			names = append(names, ln.sectName)
		}
	}
	return names
}

// findSection scans lines[from:] for the section and returns its key-values
// plus the index range [start, end) covering the header and body lines.
func (d *Document) findSection(lines []line, from int, kind SectionKind, name string) (kvs []KeyValue, start, end int, found bool) {
	inTarget := false
	start, end = -1, -1
	for i := from; i < len(lines); i++ {
		ln := lines[i]
		if ln.kind == sectionLine || ln.kind == markerLine {
			if inTarget {
				end = i
				return kvs, start, end, true
			}
			inTarget = ln.kind == sectionLine && ln.sectKind == kind && ln.sectName == name
			if inTarget {
				start = i
			}
			continue
		}
		if inTarget && ln.kind == keyValueLine {
			kvs = append(kvs, KeyValue{Key: ln.key, Value: ln.value})
		}
	}
	if inTarget {
		return kvs, start, len(lines), true
	}
	return nil, -1, -1, false
}

// InUserRegion reports whether the named section sits above the marker (or
// anywhere, when no marker exists yet).
func (d *Document) InUserRegion(kind SectionKind, name string) bool {
	user := d.lines
	if m := d.markerStart(); m >= 0 {
		user = d.lines[:m]
	}
	_, _, _, found := d.findSection(user, 0, kind, name)
	return found
}

// InManagedRegion reports whether the named section sits below the marker.
func (d *Document) InManagedRegion(kind SectionKind, name string) bool {
	ms := d.managedStart()
	if ms < 0 {
		return false
	}
	_, _, _, found := d.findSection(d.lines, ms, kind, name)
	return found
}

// serialize reproduces the document's bytes. Unmutated documents render
// byte-identically to what Load consumed.
func (d *Document) serialize() []byte {
	if len(d.lines) == 0 {
		return nil
	}
	var b strings.Builder
	for i := range d.lines {
		b.WriteString(d.lines[i].raw)
		if i < len(d.lines)-1 || !d.noFinalNewline {
			b.WriteByte('\n')
		}
	}
	return []byte(b.String())
}

// Path returns the on-disk location backing this document.
func (d *Document) Path() string { return d.path }
