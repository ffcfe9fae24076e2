// Package resolver turns partial user input into one concrete SSO session.
// Every command that needs an identity goes through the same priority order,
// so the answer to "which session am I talking to" never depends on which
// subcommand asked.
package resolver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudlane/ssoctl/models"
)

// Inputs is what the user supplied on the command line, all optional.
type Inputs struct {
	StartURL    string
	Region      string
	SessionName string
}

// SessionLister supplies the configured sessions. *sessionstore.Store
// satisfies it.
type SessionLister interface {
	ListSessions() ([]models.SSOSession, error)
}

// TokenScanner reports the cached token for a start URL, nil on a miss.
// *cache.TokenCache satisfies it.
type TokenScanner interface {
	Get(startURL string, now time.Time) (*models.CachedToken, error)
}

// ErrNoSessions means nothing is configured and nothing was specified.
var ErrNoSessions = errors.New("no SSO sessions configured; run 'ssoctl session add' or pass --start-url and --region")

// NotFoundError reports a session name that matched nothing, with the
// alternatives spelled out.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("session '%s' not found; no sessions are configured", e.Name)
	}
	return fmt.Sprintf("session '%s' not found; configured sessions: %s",
		e.Name, strings.Join(e.Available, ", "))
}

// AmbiguousError reports that several sessions qualify and none could be
// singled out. Its message shows one runnable invocation per candidate.
type AmbiguousError struct {
	Sessions []models.SSOSession
}

func (e *AmbiguousError) Error() string {
	var b strings.Builder
	b.WriteString("multiple SSO sessions are configured; pick one:\n")
	for _, s := range e.Sessions {
		fmt.Fprintf(&b, "  ssoctl login --session %s    # %s\n", s.Name, s.StartURL)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Resolver picks a session from inputs, configuration, and cache state.
type Resolver struct {
	sessions SessionLister
	tokens   TokenScanner
}

// New wires a resolver. tokens may be nil, which disables the
// valid-cached-token disambiguation step.
func New(sessions SessionLister, tokens TokenScanner) *Resolver {
	return &Resolver{sessions: sessions, tokens: tokens}
}

// Resolve applies the priority order: explicit start-URL/region pair, named
// session, the unique session holding a valid cached token, the single
// configured session, then ambiguity. Supplying only half of the explicit
// pair is an error rather than a fallthrough.
func (r *Resolver) Resolve(in Inputs, now time.Time) (models.SSOSession, error) {
	if in.StartURL != "" || in.Region != "" {
		if in.StartURL == "" || in.Region == "" {
			return models.SSOSession{}, errors.New("--start-url and --region must be given together")
		}
		return models.SSOSession{
			StartURL: in.StartURL,
			Region:   in.Region,
			Scopes:   models.DefaultScopes,
		}, nil
	}

	sessions, err := r.sessions.ListSessions()
	if err != nil {
		return models.SSOSession{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	if in.SessionName != "" {
		for _, s := range sessions {
			if s.Name == in.SessionName {
				return s, nil
			}
		}
		available := make([]string, 0, len(sessions))
		for _, s := range sessions {
			available = append(available, s.Name)
		}
		return models.SSOSession{}, &NotFoundError{Name: in.SessionName, Available: available}
	}

	if len(sessions) == 0 {
		return models.SSOSession{}, ErrNoSessions
	}

	if r.tokens != nil {
		var authenticated []models.SSOSession
		for _, s := range sessions {
			token, err := r.tokens.Get(s.StartURL, now)
			if err != nil {
				return models.SSOSession{}, fmt.Errorf("failed to scan token cache: %w", err)
			}
			if token != nil {
				authenticated = append(authenticated, s)
			}
		}
		if len(authenticated) == 1 {
			return authenticated[0], nil
		}
	}

	if len(sessions) == 1 {
		return sessions[0], nil
	}
	return models.SSOSession{}, &AmbiguousError{Sessions: sessions}
}
