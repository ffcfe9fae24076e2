// Package auth implements the OAuth 2.0 device-authorization flow against the
// SSO identity provider and the token/credential calls that follow it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sso"
	"github.com/aws/aws-sdk-go-v2/service/ssooidc"
	"github.com/aws/smithy-go"

	"github.com/cloudlane/ssoctl/models"
)

// deviceGrantType is the OAuth grant used when exchanging a device code.
const deviceGrantType = "urn:ietf:params:oauth:grant-type:device_code"

// clientName identifies this tool in provider-side client registrations.
const clientName = "ssoctl"

// Sentinel errors the polling loop dispatches on. RealProviderClient maps
// provider error codes onto these so the flow never inspects SDK types.
var (
	ErrAuthorizationPending = errors.New("authorization pending")
	ErrSlowDown             = errors.New("provider requested a slower polling rate")
	ErrAuthorizationExpired = errors.New("device authorization expired before it was approved")
	ErrAuthorizationDenied  = errors.New("authorization request was denied")
)

// ClientRegistration is the provider-issued client identity used for one
// device-authorization flow.
type ClientRegistration struct {
	ClientID     string
	ClientSecret string
}

// DeviceAuthorization is the provider's answer to a device-auth request: what
// to show the user and how to poll.
type DeviceAuthorization struct {
	DeviceCode              string
	UserCode                string
	VerificationURI         string
	VerificationURIComplete string
	Interval                time.Duration
	ExpiresIn               time.Duration
}

// ProviderClient is every call the tool makes against the identity provider.
type ProviderClient interface {
	RegisterClient(ctx context.Context, scopes string) (*ClientRegistration, error)
	StartDeviceAuthorization(ctx context.Context, reg *ClientRegistration, startURL string) (*DeviceAuthorization, error)
	CreateToken(ctx context.Context, reg *ClientRegistration, deviceCode string) (*models.CachedToken, error)
	ListAccounts(ctx context.Context, accessToken string) ([]models.Account, error)
	ListAccountRoles(ctx context.Context, accessToken, accountID string) ([]models.AccountRole, error)
	GetRoleCredentials(ctx context.Context, accessToken, accountID, roleName string) (*models.RoleCredentials, error)
}

// RealProviderClient talks to the provider through the AWS SDK.
type RealProviderClient struct {
	oidc   *ssooidc.Client
	sso    *sso.Client
	region string
	now    func() time.Time
}

// NewRealProviderClient builds SDK clients pinned to the session's region.
func NewRealProviderClient(ctx context.Context, region string) (*RealProviderClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return &RealProviderClient{
		oidc:   ssooidc.NewFromConfig(cfg),
		sso:    sso.NewFromConfig(cfg),
		region: region,
		now:    time.Now,
	}, nil
}

// mapOIDCError translates provider error codes into the flow's sentinels.
// Anything unrecognized passes through wrapped.
func mapOIDCError(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.ErrorCode() {
	case "AuthorizationPendingException":
		return ErrAuthorizationPending
	case "SlowDownException":
		return ErrSlowDown
	case "ExpiredTokenException":
		return ErrAuthorizationExpired
	case "AccessDeniedException":
		return ErrAuthorizationDenied
	}
	return err
}

func (c *RealProviderClient) RegisterClient(ctx context.Context, scopes string) (*ClientRegistration, error) {
	if scopes == "" {
		scopes = models.DefaultScopes
	}
	out, err := c.oidc.RegisterClient(ctx, &ssooidc.RegisterClientInput{
		ClientName: aws.String(clientName),
		ClientType: aws.String("public"),
		Scopes:     []string{scopes},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register OIDC client: %w", err)
	}
	return &ClientRegistration{
		ClientID:     aws.ToString(out.ClientId),
		ClientSecret: aws.ToString(out.ClientSecret),
	}, nil
}

func (c *RealProviderClient) StartDeviceAuthorization(ctx context.Context, reg *ClientRegistration, startURL string) (*DeviceAuthorization, error) {
	out, err := c.oidc.StartDeviceAuthorization(ctx, &ssooidc.StartDeviceAuthorizationInput{
		ClientId:     aws.String(reg.ClientID),
		ClientSecret: aws.String(reg.ClientSecret),
		StartUrl:     aws.String(startURL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start device authorization: %w", err)
	}
	return &DeviceAuthorization{
		DeviceCode:              aws.ToString(out.DeviceCode),
		UserCode:                aws.ToString(out.UserCode),
		VerificationURI:         aws.ToString(out.VerificationUri),
		VerificationURIComplete: aws.ToString(out.VerificationUriComplete),
		Interval:                time.Duration(out.Interval) * time.Second,
		ExpiresIn:               time.Duration(out.ExpiresIn) * time.Second,
	}, nil
}

func (c *RealProviderClient) CreateToken(ctx context.Context, reg *ClientRegistration, deviceCode string) (*models.CachedToken, error) {
	out, err := c.oidc.CreateToken(ctx, &ssooidc.CreateTokenInput{
		ClientId:     aws.String(reg.ClientID),
		ClientSecret: aws.String(reg.ClientSecret),
		DeviceCode:   aws.String(deviceCode),
		GrantType:    aws.String(deviceGrantType),
	})
	if err != nil {
		return nil, mapOIDCError(err)
	}
	return &models.CachedToken{
		AccessToken: aws.ToString(out.AccessToken),
		ExpiresAt:   c.now().UTC().Add(time.Duration(out.ExpiresIn) * time.Second),
		Region:      c.region,
	}, nil
}

func (c *RealProviderClient) ListAccounts(ctx context.Context, accessToken string) ([]models.Account, error) {
	var accounts []models.Account
	paginator := sso.NewListAccountsPaginator(c.sso, &sso.ListAccountsInput{
		AccessToken: aws.String(accessToken),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}
		for _, a := range page.AccountList {
			accounts = append(accounts, models.Account{
				AccountID:   aws.ToString(a.AccountId),
				AccountName: aws.ToString(a.AccountName),
			})
		}
	}
	return accounts, nil
}

func (c *RealProviderClient) ListAccountRoles(ctx context.Context, accessToken, accountID string) ([]models.AccountRole, error) {
	var roles []models.AccountRole
	paginator := sso.NewListAccountRolesPaginator(c.sso, &sso.ListAccountRolesInput{
		AccessToken: aws.String(accessToken),
		AccountId:   aws.String(accountID),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list roles for account %s: %w", accountID, err)
		}
		for _, r := range page.RoleList {
			roles = append(roles, models.AccountRole{
				AccountID: aws.ToString(r.AccountId),
				RoleName:  aws.ToString(r.RoleName),
			})
		}
	}
	return roles, nil
}

func (c *RealProviderClient) GetRoleCredentials(ctx context.Context, accessToken, accountID, roleName string) (*models.RoleCredentials, error) {
	out, err := c.sso.GetRoleCredentials(ctx, &sso.GetRoleCredentialsInput{
		AccessToken: aws.String(accessToken),
		AccountId:   aws.String(accountID),
		RoleName:    aws.String(roleName),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get credentials for %s/%s: %w", accountID, roleName, err)
	}
	rc := out.RoleCredentials
	return &models.RoleCredentials{
		AccessKeyID:     aws.ToString(rc.AccessKeyId),
		SecretAccessKey: aws.ToString(rc.SecretAccessKey),
		SessionToken:    aws.ToString(rc.SessionToken),
		Expiration:      time.UnixMilli(rc.Expiration).UTC(),
	}, nil
}
