// Package auth implements the three login variants spec §4.3 requires:
// offline (no server verification), Mojang/Yggdrasil password auth, and
// Microsoft account auth via the Xbox Live/XSTS/Minecraft-services
// chain. All three expose the same Authenticator interface so conn can
// join a server without caring which one is wired in.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Type names the supported login variants (the authenticate_type option).
type Type string

const (
	TypeOffline   Type = "offline"
	TypeMojang    Type = "mojang"
	TypeMicrosoft Type = "microsoft"
)

// ErrNotAuthenticated reports that Authenticate has not completed
// successfully; none of the authenticators in this package return it.
var ErrNotAuthenticated = errors.New("auth: not authenticated")

// ErrGameNotOwned is returned by the Microsoft flow's ownership check.
var ErrGameNotOwned = errors.New("auth: microsoft account does not own the game")

// Profile is the logged-in identity conn needs to complete the login
// sequence: the player name sent in Login Start, and the access token
// (empty for offline) conn hands to the session-join endpoint.
type Profile struct {
	Name        string
	UUID        uuid.UUID
	AccessToken string
}

// Authenticator is implemented by each of the three login variants.
// Authenticate performs the full login (blocking, may involve an
// interactive step for Microsoft); Refresh renews a token in place
// without a fresh interactive step, called periodically by a background
// refresher goroutine (spec §4.3, §5). Refresh on the offline
// implementation is a no-op.
type Authenticator interface {
	Authenticate(ctx context.Context) (Profile, error)
	Refresh(ctx context.Context) (Profile, error)
}

// RefreshInterval is how often client wires a background goroutine to
// call Refresh, ported from pcrc_authentication.py's
// TOKEN_REFRESH_INTERVAL (the original sets this unusually short, at one
// minute, despite the docstring claiming three hours; kept as-is since
// a too-frequent refresh is harmless and the comment is simply stale).
const RefreshInterval = 1 * time.Minute
