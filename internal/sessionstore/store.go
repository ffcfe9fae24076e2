// Package sessionstore is the persistence layer for SSO sessions and role
// profiles in the AWS shared config and credentials files. It owns the
// managed region of both files; user sections are read but never written.
package sessionstore

import (
	"fmt"
	"sort"

	"github.com/spf13/afero"

	"github.com/cloudlane/ssoctl/internal/configfile"
	"github.com/cloudlane/ssoctl/models"
)

// Store mediates all reads and writes of ~/.aws/config and ~/.aws/credentials.
type Store struct {
	fs              afero.Fs
	configPath      string
	credentialsPath string
}

// NewStore wires a store against concrete file locations.
func NewStore(fs afero.Fs, configPath, credentialsPath string) *Store {
	return &Store{fs: fs, configPath: configPath, credentialsPath: credentialsPath}
}

func (s *Store) loadConfig() (*configfile.Document, error) {
	return configfile.Load(s.fs, s.configPath, configfile.StyleConfig)
}

func (s *Store) loadCredentials() (*configfile.Document, error) {
	return configfile.Load(s.fs, s.credentialsPath, configfile.StyleCredentials)
}

// sessionBody renders a session in its canonical key order.
func sessionBody(sess models.SSOSession) []configfile.KeyValue {
	scopes := sess.Scopes
	if scopes == "" {
		scopes = models.DefaultScopes
	}
	return []configfile.KeyValue{
		{Key: "sso_start_url", Value: sess.StartURL},
		{Key: "sso_region", Value: sess.Region},
		{Key: "sso_registration_scopes", Value: scopes},
	}
}

func sessionFromKVs(name string, kvs []configfile.KeyValue) models.SSOSession {
	sess := models.SSOSession{Name: name}
	for _, kv := range kvs {
		switch kv.Key {
		case "sso_start_url":
			sess.StartURL = kv.Value
		case "sso_region":
			sess.Region = kv.Value
		case "sso_registration_scopes":
			sess.Scopes = kv.Value
		}
	}
	return sess
}

// AddSession persists a new session. An existing session of the same name is
// an error: managed duplicates point the user at edit, user-region duplicates
// surface the import remedy via CollisionError.
func (s *Store) AddSession(sess models.SSOSession) error {
	doc, err := s.loadConfig()
	if err != nil {
		return err
	}
	if doc.InManagedRegion(configfile.KindSSOSession, sess.Name) {
		return fmt.Errorf("session '%s' already exists; run 'ssoctl session edit %s' to change it", sess.Name, sess.Name)
	}
	if err := doc.UpsertManaged(configfile.KindSSOSession, sess.Name, sessionBody(sess)); err != nil {
		return err
	}
	return doc.Save()
}

// EditSession replaces an existing managed session's settings. Changing the
// start URL deliberately leaves cached tokens alone: the cache is keyed by
// URL, so the old entry simply stops being referenced.
func (s *Store) EditSession(sess models.SSOSession) error {
	doc, err := s.loadConfig()
	if err != nil {
		return err
	}
	if !doc.InManagedRegion(configfile.KindSSOSession, sess.Name) {
		if doc.InUserRegion(configfile.KindSSOSession, sess.Name) {
			return fmt.Errorf("session '%s' lives in the user-managed section; run 'ssoctl import %s --type sso-session' first", sess.Name, sess.Name)
		}
		return fmt.Errorf("session '%s' not found", sess.Name)
	}
	if err := doc.UpsertManaged(configfile.KindSSOSession, sess.Name, sessionBody(sess)); err != nil {
		return err
	}
	return doc.Save()
}

// DeleteSession removes a managed session.
func (s *Store) DeleteSession(name string) error {
	doc, err := s.loadConfig()
	if err != nil {
		return err
	}
	if !doc.RemoveManaged(configfile.KindSSOSession, name) {
		if doc.InUserRegion(configfile.KindSSOSession, name) {
			return fmt.Errorf("session '%s' lives in the user-managed section and will not be deleted; remove it by hand or import it first", name)
		}
		return fmt.Errorf("session '%s' not found", name)
	}
	return doc.Save()
}

// RenameSession re-keys a managed session, carrying its settings over. Role
// profiles referencing the old name are rewritten to point at the new one.
func (s *Store) RenameSession(oldName, newName string) error {
	doc, err := s.loadConfig()
	if err != nil {
		return err
	}
	kvs, ok := doc.Section(configfile.KindSSOSession, oldName)
	if !ok {
		return fmt.Errorf("session '%s' not found", oldName)
	}
	if !doc.InManagedRegion(configfile.KindSSOSession, oldName) {
		return fmt.Errorf("session '%s' lives in the user-managed section; run 'ssoctl import %s --type sso-session' first", oldName, oldName)
	}
	if _, exists := doc.Section(configfile.KindSSOSession, newName); exists {
		return fmt.Errorf("session '%s' already exists", newName)
	}

	if err := doc.UpsertManaged(configfile.KindSSOSession, newName, kvs); err != nil {
		return err
	}
	doc.RemoveManaged(configfile.KindSSOSession, oldName)

	// Repoint managed role profiles at the renamed session.
	for _, sect := range doc.ManagedSections() {
		if sect.Kind != configfile.KindProfile {
			continue
		}
		changed := false
		for i, kv := range sect.Body {
			if kv.Key == "sso_session" && kv.Value == oldName {
				sect.Body[i].Value = newName
				changed = true
			}
		}
		if changed {
			if err := doc.UpsertManagedSection(sect); err != nil {
				return err
			}
		}
	}
	return doc.Save()
}

// GetSession looks a session up by name in either region of the config file.
func (s *Store) GetSession(name string) (models.SSOSession, bool, error) {
	doc, err := s.loadConfig()
	if err != nil {
		return models.SSOSession{}, false, err
	}
	kvs, ok := doc.Section(configfile.KindSSOSession, name)
	if !ok {
		return models.SSOSession{}, false, nil
	}
	return sessionFromKVs(name, kvs), true, nil
}

// ListSessions returns every configured session ordered by name,
// user-defined ones included. Resolution treats both regions as equally valid
// identities.
func (s *Store) ListSessions() ([]models.SSOSession, error) {
	doc, err := s.loadConfig()
	if err != nil {
		return nil, err
	}
	var out []models.SSOSession
	for _, name := range doc.SectionNames(configfile.KindSSOSession) {
		kvs, _ := doc.Section(configfile.KindSSOSession, name)
		out = append(out, sessionFromKVs(name, kvs))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// SessionManaged reports whether the named session sits in the managed region.
func (s *Store) SessionManaged(name string) (bool, error) {
	doc, err := s.loadConfig()
	if err != nil {
		return false, err
	}
	return doc.InManagedRegion(configfile.KindSSOSession, name), nil
}

// ImportSection moves a user-region section under ssoctl management in the
// config file.
func (s *Store) ImportSection(kind configfile.SectionKind, name string) error {
	doc, err := s.loadConfig()
	if err != nil {
		return err
	}
	if err := doc.Import(kind, name); err != nil {
		return err
	}
	return doc.Save()
}
