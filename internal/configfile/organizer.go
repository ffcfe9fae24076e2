package configfile

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// BackupSuffix is appended to a file's path for its one-time pre-marker copy.
const BackupSuffix = "-before-ssoctl.bak"

// InitMarkerName is the hidden state file recording that first-run backups
// have already been taken for this directory.
const InitMarkerName = ".ssoctl-initialized"

// CollisionError reports an upsert against a name that already exists in the
// user-managed region. It is never auto-resolved; import is the remedy.
type CollisionError struct {
	Kind SectionKind
	Name string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf(
		"%s '%s' exists in the user-managed section and will not be overwritten; run 'ssoctl import %s --type %s' to move it under ssoctl management, or pick a different name",
		e.Kind, e.Name, e.Name, e.Kind)
}

// Section is one managed block: a header, optional metadata comment lines
// rendered directly under it, and ordered key-values.
type Section struct {
	Kind     SectionKind
	Name     string
	Comments []string
	Body     []KeyValue
}

// sortKey orders managed sections. Credentials files keep [default] first by
// convention; config files order by the full header label, which interleaves
// profiles and sso-sessions deterministically.
func (d *Document) sortKey(s Section) string {
	if d.style == StyleCredentials {
		if s.Name == "default" {
			return "\x00"
		}
		return s.Name
	}
	return strings.Trim(d.header(s.Kind, s.Name), "[]")
}

// ManagedSections returns the managed region parsed into section blocks, in
// file (sorted) order. Nil when no marker exists.
func (d *Document) ManagedSections() []Section {
	ms := d.managedStart()
	if ms < 0 {
		return nil
	}
	var out []Section
	var cur *Section
	for i := ms; i < len(d.lines); i++ {
		ln := d.lines[i]
		switch ln.kind {
		case sectionLine:
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &Section{Kind: ln.sectKind, Name: ln.sectName}
		case keyValueLine:
			if cur != nil {
				cur.Body = append(cur.Body, KeyValue{Key: ln.key, Value: ln.value})
			}
		case commentLine:
			if cur != nil {
				cur.Comments = append(cur.Comments, ln.raw)
			}
		}
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// ensureMarker appends the marker block when absent. Introducing the marker
// into a file that already had content arms the one-time backup.
func (d *Document) ensureMarker() {
	if d.markerStart() >= 0 {
		return
	}
	if d.existed && len(d.lines) > 0 {
		d.backupPending = true
	}
	if n := len(d.lines); n > 0 && d.lines[n-1].kind != blankLine {
		d.lines = append(d.lines, line{raw: "", kind: blankLine})
	}
	d.lines = append(d.lines,
		line{raw: ManagedMarker, kind: markerLine},
		line{raw: ManagedComment, kind: markerLine},
	)
	d.noFinalNewline = false
}

// rebuildManaged replaces everything below the marker block with the given
// sections rendered canonically: sorted, one blank line between blocks, keys
// written as "key = value". The user region's bytes are never touched.
func (d *Document) rebuildManaged(sections []Section) {
	d.ensureMarker()
	sort.SliceStable(sections, func(i, j int) bool {
		return d.sortKey(sections[i]) < d.sortKey(sections[j])
	})

	rebuilt := d.lines[:d.managedStart()]
	for _, s := range sections {
		rebuilt = append(rebuilt, line{raw: "", kind: blankLine})
		rebuilt = append(rebuilt, line{
			raw:      d.header(s.Kind, s.Name),
			kind:     sectionLine,
			sectKind: s.Kind,
			sectName: s.Name,
		})
		for _, c := range s.Comments {
			rebuilt = append(rebuilt, line{raw: c, kind: commentLine})
		}
		for _, kv := range s.Body {
			rebuilt = append(rebuilt, line{
				raw:   kv.Key + " = " + kv.Value,
				kind:  keyValueLine,
				key:   kv.Key,
				value: kv.Value,
			})
		}
	}
	d.lines = rebuilt
	d.noFinalNewline = false
}

// UpsertManaged creates or replaces a section in the managed region. A name
// clash with the user region fails with a CollisionError and leaves the
// document unchanged.
func (d *Document) UpsertManaged(kind SectionKind, name string, body []KeyValue) error {
	return d.UpsertManagedSection(Section{Kind: kind, Name: name, Body: body})
}

// UpsertManagedSection is UpsertManaged for sections carrying metadata
// comments.
func (d *Document) UpsertManagedSection(target Section) error {
	kind, name := target.Kind, target.Name
	if d.InUserRegion(kind, name) {
		return &CollisionError{Kind: kind, Name: name}
	}
	sections := d.ManagedSections()

	key := d.sortKey(target)
	idx := sort.Search(len(sections), func(i int) bool {
		return d.sortKey(sections[i]) >= key
	})
	if idx < len(sections) && sections[idx].Kind == kind && sections[idx].Name == name {
		sections[idx] = target
	} else {
		sections = append(sections, Section{})
		copy(sections[idx+1:], sections[idx:])
		sections[idx] = target
	}
	d.rebuildManaged(sections)
	return nil
}

// RemoveManaged deletes a managed section, reporting whether it existed.
// User-region sections are never removed by this method.
func (d *Document) RemoveManaged(kind SectionKind, name string) bool {
	sections := d.ManagedSections()
	kept := sections[:0]
	removed := false
	for _, s := range sections {
		if s.Kind == kind && s.Name == name {
			removed = true
			continue
		}
		kept = append(kept, s)
	}
	if removed {
		d.rebuildManaged(kept)
	}
	return removed
}

// Import moves a section verbatim from the user region into the managed
// region, re-serialized in the organizer's canonical form. Confirmation is
// the caller's concern.
func (d *Document) Import(kind SectionKind, name string) error {
	if d.InManagedRegion(kind, name) {
		return fmt.Errorf("%s '%s' is already managed by ssoctl", kind, name)
	}
	user := d.lines
	if m := d.markerStart(); m >= 0 {
		user = d.lines[:m]
	}
	body, start, end, found := d.findSection(user, 0, kind, name)
	if !found {
		return fmt.Errorf("%s '%s' not found in the user-managed section; nothing to import", kind, name)
	}

	// Drop the section's lines plus one trailing blank separator, then
	// reinsert canonically below the marker.
	if end < len(user) && user[end].kind == blankLine {
		end++
	}
	d.lines = append(d.lines[:start], d.lines[end:]...)

	sections := append(d.ManagedSections(), Section{Kind: kind, Name: name, Body: body})
	d.rebuildManaged(sections)
	return nil
}

// Save writes the document back atomically: serialize to a temp file in the
// same directory, then rename over the target. The first save that introduces
// the marker into a previously marker-less file copies the original bytes to
// a sibling backup first.
func (d *Document) Save() error {
	dir := filepath.Dir(d.path)
	if err := d.fs.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	if d.backupPending {
		if err := d.writeFirstRunBackup(dir); err != nil {
			return err
		}
		d.backupPending = false
	}

	tmp := d.path + ".tmp"
	if err := afero.WriteFile(d.fs, tmp, d.serialize(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := d.fs.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	d.existed = true
	d.originalBytes = nil
	return nil
}

func (d *Document) writeFirstRunBackup(dir string) error {
	// The state file records which files have already been migrated, one name
	// per line. A hand-stripped marker must not re-trigger a backup over the
	// original, even when the earlier backup file is gone.
	state := filepath.Join(dir, InitMarkerName)
	name := filepath.Base(d.path)
	recorded, _ := afero.ReadFile(d.fs, state)
	for _, ln := range strings.Split(string(recorded), "\n") {
		if ln == name {
			return nil
		}
	}

	backup := d.path + BackupSuffix
	if ok, _ := afero.Exists(d.fs, backup); !ok {
		if err := afero.WriteFile(d.fs, backup, d.originalBytes, 0o600); err != nil {
			return fmt.Errorf("failed to write backup %s: %w", backup, err)
		}
		log.Info("created backup before first managed write", "path", backup)
	}

	if err := afero.WriteFile(d.fs, state, append(recorded, []byte(name+"\n")...), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", state, err)
	}
	return nil
}
