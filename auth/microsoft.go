package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/google/uuid"
)

// msaClientID is the public (non-secret) client id the original PCRC
// project registered for this out-of-band device-code-style flow;
// carried over from pcrc_authentication.py's MS_AUTH_URL/client_id.
const msaClientID = "00000000402b5328"

// msaEndpoint describes the legacy MSA "oauth20" endpoints pcrc's
// Microsoft flow authenticates against. Modeled as an oauth2.Endpoint so
// the access/refresh token leg can run through golang.org/x/oauth2
// (grounded on racerxdl-minebot, which drives the same MSA exchange with
// this library) instead of hand-rolled form-encoding.
var msaEndpoint = oauth2.Endpoint{
	AuthURL:  "https://login.live.com/oauth20_authorize.srf",
	TokenURL: "https://login.live.com/oauth20_token.srf",
}

const msaRedirectURL = "https://login.live.com/oauth20_desktop.srf"
const msaScope = "service::user.auth.xboxlive.com::MBI_SSL"

// AuthURL returns the browser URL the user must visit to obtain an
// authorization code (the %code=... query parameter of the redirected
// URL they paste back), matching MicrosoftAuthenticator.MS_AUTH_URL.
func AuthURL() string {
	cfg := microsoftOAuthConfig()
	return cfg.AuthCodeURL("state", oauth2.SetAuthURLParam("response_type", "code"))
}

func microsoftOAuthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:    msaClientID,
		Endpoint:    msaEndpoint,
		RedirectURL: msaRedirectURL,
		Scopes:      []string{msaScope},
	}
}

// MicrosoftAuthenticator implements the Microsoft account login chain:
// MSA auth-code/refresh-token exchange, then XBL -> XSTS -> Minecraft
// Services -> ownership check -> profile, per wiki.vg's Microsoft
// Authentication Scheme and pcrc_authentication.py's
// MicrosoftAuthenticator.
type MicrosoftAuthenticator struct {
	// AuthCode is the one-time authorization code obtained by visiting
	// AuthURL() and pasting back the redirected URL's code parameter.
	// Only consulted on the first Authenticate call; subsequent Refresh
	// calls use the stored refresh token instead.
	AuthCode string

	httpClient *http.Client
	oauthCfg   *oauth2.Config
	token      *oauth2.Token
	profile    Profile
}

// NewMicrosoft builds a Microsoft authenticator. authCode is the
// authorization code pasted back from the AuthURL() redirect.
func NewMicrosoft(authCode string) *MicrosoftAuthenticator {
	return &MicrosoftAuthenticator{
		AuthCode:   authCode,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		oauthCfg:   microsoftOAuthConfig(),
	}
}

func (m *MicrosoftAuthenticator) Authenticate(ctx context.Context) (Profile, error) {
	tok, err := m.oauthCfg.Exchange(ctx, m.AuthCode)
	if err != nil {
		return Profile{}, fmt.Errorf("auth: microsoft: exchanging auth code: %w", err)
	}
	m.token = tok
	return m.authenticateWithMSAToken(ctx)
}

func (m *MicrosoftAuthenticator) Refresh(ctx context.Context) (Profile, error) {
	if m.token == nil || m.token.RefreshToken == "" {
		return Profile{}, fmt.Errorf("auth: microsoft: no refresh token available, call Authenticate first")
	}
	src := m.oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: m.token.RefreshToken})
	tok, err := src.Token()
	if err != nil {
		return Profile{}, fmt.Errorf("auth: microsoft: refreshing MSA token: %w", err)
	}
	m.token = tok
	return m.authenticateWithMSAToken(ctx)
}

func (m *MicrosoftAuthenticator) authenticateWithMSAToken(ctx context.Context) (Profile, error) {
	xblToken, userHash, err := m.authenticateXBL(ctx, m.token.AccessToken)
	if err != nil {
		return Profile{}, err
	}
	xstsToken, userHash, err := m.authenticateXSTS(ctx, xblToken, userHash)
	if err != nil {
		return Profile{}, err
	}
	mcToken, err := m.authenticateMinecraft(ctx, xstsToken, userHash)
	if err != nil {
		return Profile{}, err
	}
	owns, err := m.checkGameOwnership(ctx, mcToken)
	if err != nil {
		return Profile{}, err
	}
	if !owns {
		return Profile{}, ErrGameNotOwned
	}
	id, name, err := m.getProfile(ctx, mcToken)
	if err != nil {
		return Profile{}, err
	}
	m.profile = Profile{Name: name, UUID: id, AccessToken: mcToken}
	return m.profile, nil
}

type xblAuthRequest struct {
	Properties struct {
		AuthMethod string `json:"AuthMethod"`
		SiteName   string `json:"SiteName"`
		RpsTicket  string `json:"RpsTicket"`
	} `json:"Properties"`
	RelyingParty string `json:"RelyingParty"`
	TokenType    string `json:"TokenType"`
}

type xblDisplayClaims struct {
	Xui []struct {
		Uhs string `json:"uhs"`
	} `json:"xui"`
}

type xblResponse struct {
	Token         string           `json:"Token"`
	DisplayClaims xblDisplayClaims `json:"DisplayClaims"`
	XErr          int64            `json:"XErr"`
}

func (m *MicrosoftAuthenticator) authenticateXBL(ctx context.Context, msaAccessToken string) (token, userHash string, err error) {
	var req xblAuthRequest
	req.Properties.AuthMethod = "RPS"
	req.Properties.SiteName = "user.auth.xboxlive.com"
	req.Properties.RpsTicket = msaAccessToken
	req.RelyingParty = "http://auth.xboxlive.com"
	req.TokenType = "JWT"

	var resp xblResponse
	if err := m.postJSON(ctx, "https://user.auth.xboxlive.com/user/authenticate", req, &resp); err != nil {
		return "", "", fmt.Errorf("auth: microsoft: XBL: %w", err)
	}
	if resp.Token == "" {
		return "", "", fmt.Errorf("auth: microsoft: XBL: microsoft access token expired, re-authenticate via AuthURL()")
	}
	var uhs string
	if len(resp.DisplayClaims.Xui) > 0 {
		uhs = resp.DisplayClaims.Xui[0].Uhs
	}
	return resp.Token, uhs, nil
}

type xstsAuthRequest struct {
	Properties struct {
		SandboxID  string   `json:"SandboxId"`
		UserTokens []string `json:"UserTokens"`
	} `json:"Properties"`
	RelyingParty string `json:"RelyingParty"`
	TokenType    string `json:"TokenType"`
}

func (m *MicrosoftAuthenticator) authenticateXSTS(ctx context.Context, xblToken, userHash string) (token, uhs string, err error) {
	var req xstsAuthRequest
	req.Properties.SandboxID = "RETAIL"
	req.Properties.UserTokens = []string{xblToken}
	req.RelyingParty = "rp://api.minecraftservices.com/"
	req.TokenType = "JWT"

	var resp xblResponse
	if err := m.postJSON(ctx, "https://xsts.auth.xboxlive.com/xsts/authorize", req, &resp); err != nil {
		return "", "", fmt.Errorf("auth: microsoft: XSTS: %w", err)
	}
	if resp.XErr != 0 {
		return "", "", fmt.Errorf("auth: microsoft: XSTS authentication failed: XErr=%d", resp.XErr)
	}
	if len(resp.DisplayClaims.Xui) > 0 {
		uhs = resp.DisplayClaims.Xui[0].Uhs
	} else {
		uhs = userHash
	}
	return resp.Token, uhs, nil
}

type mcLoginRequest struct {
	IdentityToken string `json:"identityToken"`
}

type mcLoginResponse struct {
	AccessToken string `json:"access_token"`
}

func (m *MicrosoftAuthenticator) authenticateMinecraft(ctx context.Context, xstsToken, userHash string) (string, error) {
	req := mcLoginRequest{IdentityToken: fmt.Sprintf("XBL3.0 x=%s;%s", userHash, xstsToken)}
	var resp mcLoginResponse
	if err := m.postJSON(ctx, "https://api.minecraftservices.com/authentication/login_with_xbox", req, &resp); err != nil {
		return "", fmt.Errorf("auth: microsoft: minecraft login: %w", err)
	}
	return resp.AccessToken, nil
}

type mcOwnershipResponse struct {
	Items []json.RawMessage `json:"items"`
}

func (m *MicrosoftAuthenticator) checkGameOwnership(ctx context.Context, mcToken string) (bool, error) {
	var resp mcOwnershipResponse
	if err := m.getJSON(ctx, "https://api.minecraftservices.com/entitlements/mcstore", mcToken, &resp); err != nil {
		return false, fmt.Errorf("auth: microsoft: ownership check: %w", err)
	}
	return len(resp.Items) > 0, nil
}

type mcProfileResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (m *MicrosoftAuthenticator) getProfile(ctx context.Context, mcToken string) (uuid.UUID, string, error) {
	var resp mcProfileResponse
	if err := m.getJSON(ctx, "https://api.minecraftservices.com/minecraft/profile", mcToken, &resp); err != nil {
		return uuid.Nil, "", fmt.Errorf("auth: microsoft: profile fetch: %w", err)
	}
	id, err := parseUndashedOrDashedUUID(resp.ID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("auth: microsoft: profile uuid: %w", err)
	}
	return id, resp.Name, nil
}

func parseUndashedOrDashedUUID(s string) (uuid.UUID, error) {
	if id, err := uuid.Parse(s); err == nil {
		return id, nil
	}
	if len(s) == 32 {
		dashed := s[0:8] + "-" + s[8:12] + "-" + s[12:16] + "-" + s[16:20] + "-" + s[20:32]
		return uuid.Parse(dashed)
	}
	return uuid.Nil, fmt.Errorf("malformed uuid %q", s)
}

func (m *MicrosoftAuthenticator) postJSON(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (m *MicrosoftAuthenticator) getJSON(ctx context.Context, url, bearer string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}
