// Package conn implements the handshake/login/play state machine of
// spec §4.4: opens the TCP socket, negotiates encryption and
// compression, completes login, then dispatches play-state packets to
// a channel the recorder consumes. A write mutex serializes outbound
// frames since CFB8 encryption is stateful and must see writes in
// exactly the order they're encrypted.
package conn

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pcrc-go/pcrc/auth"
	"github.com/pcrc-go/pcrc/protover"
	"github.com/pcrc-go/pcrc/wire"
)

func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// Config gathers everything Dial needs to open and log into a server.
type Config struct {
	Host    string
	Port    uint16
	Version protover.Version

	// Auth supplies the login name and, for online-mode servers, the
	// session token used in the sessionserver join call.
	Auth auth.Authenticator

	DialTimeout time.Duration
}

// Connection owns the socket, frame codec, and play-state dispatch for
// one live session (spec §4.4).
type Connection struct {
	cfg     Config
	table   *protover.PacketTable
	profile auth.Profile

	stream *wire.StreamConn
	fr     *wire.FrameReader
	fw     *wire.FrameWriter

	writeMu sync.Mutex
}

// Dial opens the TCP socket and runs the handshake/login sequence
// through to Login Success, installing encryption/compression along the
// way as the server requests them. The returned Connection is ready for
// Play.
func Dial(ctx context.Context, cfg Config) (*Connection, error) {
	table, err := protover.PacketTableFor(cfg.Version.Label)
	if err != nil {
		return nil, &ConnectionError{Kind: ErrorProtocolMismatch, Err: err}
	}

	timeout := cfg.DialTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	dialer := net.Dialer{Timeout: timeout}
	netConn, err := dialer.DialContext(ctx, "tcp", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	if err != nil {
		return nil, &ConnectionError{Kind: ErrorIO, Err: err}
	}

	c := &Connection{
		cfg:    cfg,
		table:  table,
		stream: wire.NewStreamConn(netConn),
	}
	c.fr = wire.NewFrameReader(c.stream)
	c.fw = wire.NewFrameWriter(c.stream)

	if err := c.handshakeAndLogin(ctx); err != nil {
		netConn.Close()
		return nil, err
	}
	return c, nil
}

// Profile returns the identity Login Success confirmed.
func (c *Connection) Profile() auth.Profile {
	return c.profile
}

// Table returns the clientbound play packet table for this connection's
// negotiated version, for resolving inbound packets to names.
func (c *Connection) Table() *protover.PacketTable {
	return c.table
}

// Close tears down the underlying socket.
func (c *Connection) Close() error {
	return c.stream.Close()
}

func (c *Connection) handshakeAndLogin(ctx context.Context) error {
	profile, err := c.cfg.Auth.Authenticate(ctx)
	if err != nil {
		return &ConnectionError{Kind: ErrorAuthRejected, Err: err}
	}
	c.profile = profile

	var handshakeBody []byte
	handshakeBody = wire.PutVarInt(handshakeBody, c.cfg.Version.Protocol)
	handshakeBody = wire.PutString(handshakeBody, c.cfg.Host)
	handshakeBody = wire.PutShort(handshakeBody, int16(c.cfg.Port))
	handshakeBody = wire.PutVarInt(handshakeBody, 2) // next state: login
	if err := c.writeRaw(idHandshake, handshakeBody); err != nil {
		return err
	}

	loginStartBody := wire.PutString(nil, profile.Name)
	if err := c.writeRaw(idLoginStart, loginStartBody); err != nil {
		return err
	}

	for {
		pkt, err := c.fr.ReadPacket()
		if err != nil {
			return &ConnectionError{Kind: ErrorIO, Err: err}
		}
		switch pkt.ID {
		case idDisconnectLogin:
			reason, _ := readLoginString(pkt.Body)
			return &ConnectionError{Kind: ErrorDisconnect, Reason: reason}
		case idEncryptionRequest:
			if err := c.handleEncryptionRequest(ctx, pkt.Body); err != nil {
				return err
			}
		case idSetCompression:
			threshold, err := readLeadingVarInt(pkt.Body)
			if err != nil {
				return &ConnectionError{Kind: ErrorIO, Err: err}
			}
			c.fr.SetCompression(int(threshold))
			c.fw.SetCompression(int(threshold))
		case idLoginSuccessIn:
			return nil
		default:
			// Unknown login-state packet (e.g. Login Plugin Request on
			// newer servers); ignore rather than fail the whole login.
		}
	}
}

type encryptionRequest struct {
	ServerID    string
	PublicKey   []byte
	VerifyToken []byte
}

func (c *Connection) handleEncryptionRequest(ctx context.Context, body []byte) error {
	req, err := decodeEncryptionRequest(body)
	if err != nil {
		return &ConnectionError{Kind: ErrorIO, Err: err}
	}

	sharedSecret := make([]byte, 16)
	if _, err := rand.Read(sharedSecret); err != nil {
		return &ConnectionError{Kind: ErrorIO, Err: err}
	}

	if c.profile.AccessToken != "" {
		serverHash := ServerHash(req.ServerID, sharedSecret, req.PublicKey)
		if err := joinSession(ctx, c.profile.AccessToken, c.profile.UUID.String(), serverHash); err != nil {
			return &ConnectionError{Kind: ErrorAuthRejected, Err: err}
		}
	}

	pubKey, err := x509.ParsePKIXPublicKey(req.PublicKey)
	if err != nil {
		return &ConnectionError{Kind: ErrorIO, Err: fmt.Errorf("conn: parsing server public key: %w", err)}
	}
	rsaKey, ok := pubKey.(*rsa.PublicKey)
	if !ok {
		return &ConnectionError{Kind: ErrorIO, Err: fmt.Errorf("conn: server public key is not RSA")}
	}

	encryptedSecret, err := rsa.EncryptPKCS1v15(rand.Reader, rsaKey, sharedSecret)
	if err != nil {
		return &ConnectionError{Kind: ErrorIO, Err: err}
	}
	encryptedVerify, err := rsa.EncryptPKCS1v15(rand.Reader, rsaKey, req.VerifyToken)
	if err != nil {
		return &ConnectionError{Kind: ErrorIO, Err: err}
	}

	var respBody []byte
	respBody = wire.PutByteArray(respBody, encryptedSecret)
	respBody = wire.PutByteArray(respBody, encryptedVerify)
	if err := c.writeRaw(idEncryptionResponse, respBody); err != nil {
		return err
	}

	if err := c.stream.EnableEncryption(sharedSecret); err != nil {
		return &ConnectionError{Kind: ErrorIO, Err: err}
	}
	return nil
}

func decodeEncryptionRequest(body []byte) (encryptionRequest, error) {
	r := wire.NewReader(bytesReader(body))
	var req encryptionRequest
	serverID, err := r.ReadString(20)
	if err != nil {
		return req, err
	}
	pubKey, err := r.ReadByteArray()
	if err != nil {
		return req, err
	}
	verifyToken, err := r.ReadByteArray()
	if err != nil {
		return req, err
	}
	req.ServerID, req.PublicKey, req.VerifyToken = serverID, pubKey, verifyToken
	return req, nil
}

// joinSession calls Mojang's session server so the game server's own
// has-joined check succeeds, per spec §4.4 / wiki.vg.
func joinSession(ctx context.Context, accessToken, profileUUID, serverHash string) error {
	payload, err := json.Marshal(map[string]string{
		"accessToken":     accessToken,
		"selectedProfile": profileUUID,
		"serverId":        serverHash,
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://sessionserver.mojang.com/session/minecraft/join", bytesReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("conn: session join request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("conn: session join rejected: status %d", resp.StatusCode)
	}
	return nil
}

// writeRaw serializes and sends one packet, under the write mutex.
func (c *Connection) writeRaw(id int32, body []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.fw.WritePacket(id, body); err != nil {
		return &ConnectionError{Kind: ErrorIO, Err: err}
	}
	return nil
}

// SendPacket sends a play-state serverbound packet with the given
// numeric id. Play uses this for Teleport Confirm / Position And Look /
// Keep Alive echoes.
func (c *Connection) SendPacket(id int32, body []byte) error {
	return c.writeRaw(id, body)
}

// SendChat emits a serverbound Chat Message, satisfying chat.Sender so
// client can hand a Connection straight to chat.New.
func (c *Connection) SendChat(text string) error {
	return c.writeRaw(idChatMessageOut, wire.PutString(nil, text))
}

// Spectate sends a serverbound Spectate packet targeting the given
// entity UUID, backing the "!!PCRC spectate" in-game command.
func (c *Connection) Spectate(target uuid.UUID) error {
	return c.writeRaw(idSpectateOut, wire.PutUUID(nil, target))
}

// Respawn sends a Client Status "perform respawn" packet, backing the
// "!!PCRC respawn" in-game command.
func (c *Connection) Respawn() error {
	return c.writeRaw(idClientStatusOut, wire.PutVarInt(nil, ClientStatusActionRespawn))
}

func readLoginString(body []byte) (string, error) {
	r := wire.NewReader(bytesReader(body))
	return r.ReadString(32767)
}

func readLeadingVarInt(body []byte) (int32, error) {
	return wire.ReadVarInt(wire.NewReader(bytesReader(body)))
}
