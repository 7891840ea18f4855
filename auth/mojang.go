package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const yggdrasilBase = "https://authserver.mojang.com"

// MojangAuthenticator implements the legacy Yggdrasil username/password
// login, ported from pycraft's AuthenticationToken.authenticate/.refresh
// as used by pcrc_authentication.py's MojangAuthenticator.
type MojangAuthenticator struct {
	Username string
	Password string

	httpClient   *http.Client
	clientToken  string
	accessToken  string
	profile      Profile
}

// NewMojang builds a Yggdrasil authenticator for the given account
// credentials.
func NewMojang(username, password string) *MojangAuthenticator {
	return &MojangAuthenticator{
		Username:   username,
		Password:   password,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type yggdrasilAgent struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
}

type yggdrasilAuthRequest struct {
	Agent       yggdrasilAgent `json:"agent"`
	Username    string         `json:"username"`
	Password    string         `json:"password"`
	ClientToken string         `json:"clientToken,omitempty"`
	RequestUser bool           `json:"requestUser"`
}

type yggdrasilRefreshRequest struct {
	AccessToken string `json:"accessToken"`
	ClientToken string `json:"clientToken"`
	RequestUser bool   `json:"requestUser"`
}

type yggdrasilProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type yggdrasilResponse struct {
	AccessToken       string           `json:"accessToken"`
	ClientToken       string           `json:"clientToken"`
	SelectedProfile   yggdrasilProfile `json:"selectedProfile"`
	Error             string           `json:"error"`
	ErrorMessage      string           `json:"errorMessage"`
}

func (m *MojangAuthenticator) Authenticate(ctx context.Context) (Profile, error) {
	req := yggdrasilAuthRequest{
		Agent:       yggdrasilAgent{Name: "Minecraft", Version: 1},
		Username:    m.Username,
		Password:    m.Password,
		RequestUser: false,
	}
	resp, err := m.post(ctx, "/authenticate", req)
	if err != nil {
		return Profile{}, err
	}
	return m.applyResponse(resp)
}

func (m *MojangAuthenticator) Refresh(ctx context.Context) (Profile, error) {
	if m.accessToken == "" {
		return m.Authenticate(ctx)
	}
	req := yggdrasilRefreshRequest{
		AccessToken: m.accessToken,
		ClientToken: m.clientToken,
		RequestUser: false,
	}
	resp, err := m.post(ctx, "/refresh", req)
	if err != nil {
		return Profile{}, err
	}
	return m.applyResponse(resp)
}

func (m *MojangAuthenticator) applyResponse(resp yggdrasilResponse) (Profile, error) {
	if resp.Error != "" {
		return Profile{}, fmt.Errorf("auth: mojang: %s: %s", resp.Error, resp.ErrorMessage)
	}
	m.accessToken = resp.AccessToken
	m.clientToken = resp.ClientToken
	id, err := uuid.Parse(resp.SelectedProfile.ID)
	if err != nil {
		id = uuid.Nil
	}
	m.profile = Profile{Name: resp.SelectedProfile.Name, UUID: id, AccessToken: resp.AccessToken}
	return m.profile, nil
}

func (m *MojangAuthenticator) post(ctx context.Context, path string, body interface{}) (yggdrasilResponse, error) {
	var out yggdrasilResponse
	payload, err := json.Marshal(body)
	if err != nil {
		return out, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, yggdrasilBase+path, bytes.NewReader(payload))
	if err != nil {
		return out, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return out, fmt.Errorf("auth: mojang request failed: %w", err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, fmt.Errorf("auth: mojang response decode: %w", err)
	}
	return out, nil
}
