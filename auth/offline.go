package auth

import (
	"context"
	"crypto/md5"

	"github.com/google/uuid"
)

// OfflineAuthenticator never contacts any server; the player name is
// whatever the caller configured and the UUID is derived the same way
// vanilla offline-mode servers derive one, from the MD5 hash of
// "OfflinePlayer:<name>" per wiki.vg. Ported from pcrc_authentication.py's
// OfflineAuthenticator, which is an even thinner no-op.
type OfflineAuthenticator struct {
	Name string
}

// NewOffline builds an Authenticator that never performs network I/O.
func NewOffline(name string) *OfflineAuthenticator {
	return &OfflineAuthenticator{Name: name}
}

func (o *OfflineAuthenticator) Authenticate(ctx context.Context) (Profile, error) {
	return Profile{Name: o.Name, UUID: offlineUUID(o.Name)}, nil
}

func (o *OfflineAuthenticator) Refresh(ctx context.Context) (Profile, error) {
	return o.Authenticate(ctx)
}

// offlineUUID reproduces Java's UUID.nameUUIDFromBytes for the bytes of
// "OfflinePlayer:"+name — a plain version-3 UUID over the name bytes
// alone, no namespace prefix (unlike uuid.NewMD5, which always prepends
// one, so it can't be used here directly).
func offlineUUID(name string) uuid.UUID {
	sum := md5.Sum([]byte("OfflinePlayer:" + name))
	sum[6] = (sum[6] & 0x0f) | 0x30 // version 3
	sum[8] = (sum[8] & 0x3f) | 0x80 // RFC 4122 variant
	id, _ := uuid.FromBytes(sum[:])
	return id
}
