package sessionstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudlane/ssoctl/internal/configfile"
	"github.com/cloudlane/ssoctl/models"
)

// Placeholder values written over credentials on logout. Keeping the keys in
// place (rather than deleting the profile) makes tools fail with a clear
// invalid-credential error instead of a confusing missing-profile one.
const (
	InvalidKeyID       = "INVALID_KEY"
	InvalidSecret      = "INVALID_SECRET"
	InvalidToken       = "INVALID_TOKEN"
	invalidValidMarker = "# Valid: false"
)

const (
	accountCommentPrefix = "# Account: "
	roleCommentPrefix    = "# Role: "
	validCommentPrefix   = "# Valid: "
)

// WriteRoleProfile writes the config-file half of a role profile: an SSO
// profile section that defers to the named session for authentication.
func (s *Store) WriteRoleProfile(profileName, sessionName string, role models.AccountRole, region, output string) error {
	doc, err := s.loadConfig()
	if err != nil {
		return err
	}
	body := []configfile.KeyValue{
		{Key: "sso_session", Value: sessionName},
		{Key: "sso_account_id", Value: role.AccountID},
		{Key: "sso_role_name", Value: role.RoleName},
	}
	if region != "" {
		body = append(body, configfile.KeyValue{Key: "region", Value: region})
	}
	if output != "" {
		body = append(body, configfile.KeyValue{Key: "output", Value: output})
	}
	if err := doc.UpsertManaged(configfile.KindProfile, profileName, body); err != nil {
		return err
	}
	return doc.Save()
}

// WriteRoleCredentials writes the credentials-file half: the static key triple
// plus metadata comments recording where the credentials came from and until
// when they hold.
func (s *Store) WriteRoleCredentials(profileName string, role models.AccountRole, creds *models.RoleCredentials) error {
	doc, err := s.loadCredentials()
	if err != nil {
		return err
	}
	sect := configfile.Section{
		Kind: configfile.KindProfile,
		Name: profileName,
		Comments: []string{
			accountCommentPrefix + role.AccountID,
			roleCommentPrefix + role.RoleName,
			validCommentPrefix + creds.Expiration.UTC().Format(time.RFC3339),
		},
		Body: []configfile.KeyValue{
			{Key: "aws_access_key_id", Value: creds.AccessKeyID},
			{Key: "aws_secret_access_key", Value: creds.SecretAccessKey},
			{Key: "aws_session_token", Value: creds.SessionToken},
		},
	}
	if err := doc.UpsertManagedSection(sect); err != nil {
		return err
	}
	return doc.Save()
}

// InvalidateProfile overwrites a managed credential profile's values with
// placeholders and marks it no longer valid. Missing profiles are fine.
func (s *Store) InvalidateProfile(profileName string) error {
	doc, err := s.loadCredentials()
	if err != nil {
		return err
	}
	for _, sect := range doc.ManagedSections() {
		if sect.Name != profileName {
			continue
		}
		for i, kv := range sect.Body {
			switch kv.Key {
			case "aws_access_key_id":
				sect.Body[i].Value = InvalidKeyID
			case "aws_secret_access_key":
				sect.Body[i].Value = InvalidSecret
			case "aws_session_token":
				sect.Body[i].Value = InvalidToken
			}
		}
		for i, c := range sect.Comments {
			if strings.HasPrefix(c, validCommentPrefix) {
				sect.Comments[i] = invalidValidMarker
			}
		}
		if err := doc.UpsertManagedSection(sect); err != nil {
			return err
		}
		return doc.Save()
	}
	return nil
}

// InvalidateAllProfiles applies InvalidateProfile to every managed credential
// profile in one pass, for logout without a named session.
func (s *Store) InvalidateAllProfiles() error {
	doc, err := s.loadCredentials()
	if err != nil {
		return err
	}
	changed := false
	for _, sect := range doc.ManagedSections() {
		for i, kv := range sect.Body {
			switch kv.Key {
			case "aws_access_key_id":
				sect.Body[i].Value = InvalidKeyID
			case "aws_secret_access_key":
				sect.Body[i].Value = InvalidSecret
			case "aws_session_token":
				sect.Body[i].Value = InvalidToken
			}
		}
		for i, c := range sect.Comments {
			if strings.HasPrefix(c, validCommentPrefix) {
				sect.Comments[i] = invalidValidMarker
			}
		}
		if err := doc.UpsertManagedSection(sect); err != nil {
			return err
		}
		changed = true
	}
	if !changed {
		return nil
	}
	return doc.Save()
}

// DeleteProfile removes a managed role profile from both files. Each file is
// its own load-mutate-save; a profile present in only one of them is not an
// error.
func (s *Store) DeleteProfile(profileName string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	inConfig := cfg.RemoveManaged(configfile.KindProfile, profileName)
	creds, err := s.loadCredentials()
	if err != nil {
		return err
	}
	inCreds := creds.RemoveManaged(configfile.KindProfile, profileName)

	if !inConfig && !inCreds {
		return fmt.Errorf("profile '%s' is not managed by ssoctl", profileName)
	}
	if inConfig {
		if err := cfg.Save(); err != nil {
			return err
		}
	}
	if inCreds {
		if err := creds.Save(); err != nil {
			return err
		}
	}
	return nil
}

// RenameProfile re-keys a managed role profile in both files, carrying each
// section's content (metadata comments included) over unchanged. Both files
// are checked and mutated in memory before either is saved, so a collision or
// failure in one leaves both untouched on disk.
func (s *Store) RenameProfile(oldName, newName string) error {
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	creds, err := s.loadCredentials()
	if err != nil {
		return err
	}
	for _, doc := range []*configfile.Document{cfg, creds} {
		if _, exists := doc.Section(configfile.KindProfile, newName); exists {
			return fmt.Errorf("profile '%s' already exists in %s", newName, doc.Path())
		}
	}

	renameIn := func(doc *configfile.Document) (bool, error) {
		for _, sect := range doc.ManagedSections() {
			if sect.Kind != configfile.KindProfile || sect.Name != oldName {
				continue
			}
			sect.Name = newName
			if err := doc.UpsertManagedSection(sect); err != nil {
				return false, err
			}
			doc.RemoveManaged(configfile.KindProfile, oldName)
			return true, nil
		}
		return false, nil
	}

	inConfig, err := renameIn(cfg)
	if err != nil {
		return err
	}
	inCreds, err := renameIn(creds)
	if err != nil {
		return err
	}
	if !inConfig && !inCreds {
		return fmt.Errorf("profile '%s' is not managed by ssoctl", oldName)
	}
	if inConfig {
		if err := cfg.Save(); err != nil {
			return err
		}
	}
	if inCreds {
		return creds.Save()
	}
	return nil
}

// ListProfileStatuses summarizes every managed credential profile from its
// stored metadata, without touching the network or the caches.
func (s *Store) ListProfileStatuses() ([]models.ProfileStatus, error) {
	doc, err := s.loadCredentials()
	if err != nil {
		return nil, err
	}
	var out []models.ProfileStatus
	for _, sect := range doc.ManagedSections() {
		st := models.ProfileStatus{ProfileName: sect.Name}
		for _, c := range sect.Comments {
			switch {
			case strings.HasPrefix(c, accountCommentPrefix):
				st.AccountID = strings.TrimPrefix(c, accountCommentPrefix)
			case strings.HasPrefix(c, roleCommentPrefix):
				st.RoleName = strings.TrimPrefix(c, roleCommentPrefix)
			case strings.HasPrefix(c, validCommentPrefix):
				if ts, err := time.Parse(time.RFC3339, strings.TrimPrefix(c, validCommentPrefix)); err == nil {
					st.Expiration = &ts
				}
			}
		}
		for _, kv := range sect.Body {
			if kv.Key == "aws_access_key_id" {
				st.HasCredentials = kv.Value != "" && kv.Value != InvalidKeyID
			}
		}
		out = append(out, st)
	}
	return out, nil
}
