package models

// SSOSession is a configured identity-provider endpoint a user can
// authenticate against, persisted as an [sso-session <name>] section.
type SSOSession struct {
	Name     string `json:"name"`
	StartURL string `json:"start_url"`
	Region   string `json:"region"`
	Scopes   string `json:"registration_scopes"`
}

// DefaultScopes is applied when a session omits sso_registration_scopes.
const DefaultScopes = "sso:account:access"

// Account is an AWS account reachable through an SSO session.
type Account struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
}

// AccountRole identifies one role within one account.
type AccountRole struct {
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	RoleName    string `json:"role_name"`
}

// DisplayName renders the role as "account/role" for listings.
func (r AccountRole) DisplayName() string {
	return r.AccountName + "/" + r.RoleName
}
