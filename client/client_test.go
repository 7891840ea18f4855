package client

import (
	"testing"

	"github.com/pcrc-go/pcrc/auth"
	"github.com/pcrc-go/pcrc/config"
)

func TestBuildAuthenticatorOffline(t *testing.T) {
	a, err := buildAuthenticator(config.Config{OnlineMode: false, Username: "Steve"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.(*auth.OfflineAuthenticator); !ok {
		t.Fatalf("expected OfflineAuthenticator, got %T", a)
	}
}

func TestBuildAuthenticatorMojang(t *testing.T) {
	a, err := buildAuthenticator(config.Config{OnlineMode: true, AuthenticateType: "mojang", Username: "a@b.com", Password: "pw"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.(*auth.MojangAuthenticator); !ok {
		t.Fatalf("expected MojangAuthenticator, got %T", a)
	}
}

func TestBuildAuthenticatorUnknownType(t *testing.T) {
	_, err := buildAuthenticator(config.Config{OnlineMode: true, AuthenticateType: "steam"})
	if err == nil {
		t.Fatal("expected an error for an unrecognized authenticate_type")
	}
}

func TestRecorderConfigProjectsDaytimeOnlyWhenInRange(t *testing.T) {
	rc := recorderConfig(config.Config{Daytime: -1})
	if rc.Daytime != nil {
		t.Fatalf("expected nil Daytime for -1, got %v", *rc.Daytime)
	}

	rc = recorderConfig(config.Config{Daytime: 6000})
	if rc.Daytime == nil || *rc.Daytime != 6000 {
		t.Fatal("expected Daytime to be projected when in [0, 24000)")
	}
}

func TestNewClientStartsDisconnected(t *testing.T) {
	c := New(config.Default(), nil, nil)
	if c.State() != StateDisconnected {
		t.Fatalf("expected StateDisconnected, got %v", c.State())
	}
}
