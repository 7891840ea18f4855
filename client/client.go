// Package client composes the connection, authenticator, packet
// processor, chat dispatcher and recorder into the single user-visible
// handle spec §4.9 describes (C9): start/stop/restart, the auto-restart
// retry policy, and the in-game "!!PCRC ..." command surface forwarded
// from chat. Grounded on pcrc/pcrc_impl.py's PcrcImpl, restructured the
// way record (C8) restructured recorder.py: explicit struct state
// instead of closures over a shared parent object.
package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pcrc-go/pcrc/auth"
	"github.com/pcrc-go/pcrc/chat"
	"github.com/pcrc-go/pcrc/config"
	"github.com/pcrc-go/pcrc/conn"
	"github.com/pcrc-go/pcrc/packetproc"
	"github.com/pcrc-go/pcrc/protover"
	"github.com/pcrc-go/pcrc/record"
)

// State is the connection-level lifecycle stage, mirroring
// ConnectionState (disconnected/connecting/connected).
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// TokenFilePath is where a persisted Mojang/Microsoft token is stored
// when cfg.StoreToken is set, matching the original's token.json.
const TokenFilePath = "pcrc_token.json"

// OnSessionSaved is called once per completed recording session with
// the archived .mcpr path, or err if the recording was discarded
// (too small) or failed to archive.
type OnSessionSaved func(path string, err error)

// Client is the composition root: one TCP session at a time, with
// auto-restart governed by RetryCounter.
type Client struct {
	mu  sync.Mutex
	cfg config.Config

	log     *logrus.Entry
	retry   *RetryCounter
	onSaved OnSessionSaved

	state      State
	stopByUser bool
	restart    bool

	conn     *conn.Connection
	chatMgr  *chat.Manager
	proc     *packetproc.Processor
	recorder *record.Recorder

	rootCancel context.CancelFunc
	wg         sync.WaitGroup
}

// New builds a Client from cfg. log may be nil (defaults to
// logrus.StandardLogger()); onSaved may be nil.
func New(cfg config.Config, log *logrus.Logger, onSaved OnSessionSaved) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		cfg:     cfg,
		log:     log.WithField("component", "client"),
		retry:   NewRetryCounter(cfg.AutoReloginAttempts),
		onSaved: onSaved,
	}
}

// State reports the current connection-level state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) isOnline() bool {
	return c.state == StateConnected
}

// Start launches the connect/record/auto-restart loop in the
// background, matching PcrcImpl.start. A Start while already running is
// a no-op.
func (c *Client) Start() {
	c.mu.Lock()
	if c.rootCancel != nil {
		c.mu.Unlock()
		c.log.Info("cannot start: already running")
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.rootCancel = cancel
	c.stopByUser = false
	c.restart = false
	c.mu.Unlock()

	c.retry.Reset()
	c.wg.Add(1)
	go c.runLoop(ctx)
}

// Stop requests a graceful shutdown of the current session. If a restart
// is pending (see Restart) the client re-enters Start after the session
// finishes saving, provided auto_relogin is on and the retry budget is
// not used up (spec §4.9's "stop initiated by user suppresses restart regardless of
// counter" rule still applies: byUser stops always win over a pending
// restart).
func (c *Client) Stop(byUser bool) {
	c.mu.Lock()
	c.stopByUser = c.stopByUser || byUser
	cn := c.conn
	c.mu.Unlock()

	if c.chatMgr != nil {
		c.chatMgr.Add("PCRC is stopping", chat.PriorityHigh)
		_ = c.chatMgr.Flush(chat.PriorityHigh)
	}
	time.Sleep(200 * time.Millisecond)
	if cn != nil {
		_ = cn.Close()
	}
}

// Restart is Stop(restart=true), matching PcrcImpl.restart.
func (c *Client) Restart(byUser bool) {
	c.mu.Lock()
	c.restart = true
	c.mu.Unlock()
	c.Stop(byUser)
}

// Shutdown tears the whole client down permanently: no further
// auto-restart, and waits for the in-flight session to finish saving.
func (c *Client) Shutdown() {
	c.mu.Lock()
	cancel := c.rootCancel
	c.stopByUser = true
	c.mu.Unlock()
	c.Stop(true)
	if cancel != nil {
		cancel()
	}
	c.wg.Wait()
}

func (c *Client) runLoop(ctx context.Context) {
	defer c.wg.Done()
	for {
		path, err := c.runSession(ctx)
		if c.onSaved != nil && (path != "" || err != nil) {
			c.onSaved(path, err)
		}

		c.mu.Lock()
		restart := c.restart && !c.stopByUser && c.cfg.AutoRelogin && c.retry.CanRetry()
		c.restart = false
		c.mu.Unlock()

		if !restart || ctx.Err() != nil {
			c.mu.Lock()
			c.rootCancel = nil
			c.mu.Unlock()
			return
		}

		c.retry.Consume()
		c.log.Info("PCRC restarting in 3s")
		select {
		case <-time.After(3 * time.Second):
		case <-ctx.Done():
			c.mu.Lock()
			c.rootCancel = nil
			c.mu.Unlock()
			return
		}
	}
}

// runSession connects, records until disconnected or stopped, and
// archives the capture, returning the archived path (if any) and the
// terminal error that ended the session.
func (c *Client) runSession(ctx context.Context) (string, error) {
	sessionCtx, sessionCancel := context.WithCancel(ctx)
	defer sessionCancel()

	c.mu.Lock()
	c.state = StateConnecting
	c.mu.Unlock()

	authenticator, err := buildAuthenticator(c.cfg)
	if err != nil {
		c.log.WithError(err).Error("failed to build authenticator")
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return "", err
	}

	version, err := protover.Lookup(c.cfg.InitialVersion)
	if err != nil {
		c.log.WithError(err).Error("unsupported initial_version")
		return "", err
	}

	cn, err := conn.Dial(sessionCtx, conn.Config{
		Host:    c.cfg.Address,
		Port:    c.cfg.Port,
		Version: version,
		Auth:    authenticator,
	})
	if err != nil {
		c.log.WithError(err).Error("failed to connect")
		c.mu.Lock()
		c.state = StateDisconnected
		c.mu.Unlock()
		return "", err
	}
	defer cn.Close()

	c.mu.Lock()
	c.conn = cn
	c.state = StateConnected
	c.proc = packetproc.NewProcessor(version)
	c.chatMgr = chat.New(cn, c.cfg.ChatSpamProtect)
	c.recorder = record.New(recorderConfig(c.cfg), version, c.proc, cn, c.log)
	username := cn.Profile().Name
	c.mu.Unlock()

	c.retry.Reset()
	c.log.Infof("PCRC bot joined the server as %s", username)

	c.wg.Add(1)
	go func() { defer c.wg.Done(); c.chatMgr.Run(sessionCtx) }()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		auth.RunRefresher(sessionCtx, authenticator, func(p auth.Profile, err error) {
			if err != nil {
				c.log.WithError(err).Warn("token refresh failed")
				return
			}
			if c.cfg.StoreToken && p.AccessToken != "" {
				_ = auth.SaveToken(TokenFilePath, auth.PersistedToken{
					Type:        auth.Type(c.cfg.AuthenticateType),
					AccessToken: p.AccessToken,
					PlayerName:  p.Name,
					PlayerUUID:  p.UUID.String(),
					ExpiresAt:   time.Now().Add(3 * time.Hour).Unix(),
				})
			}
		})
	}()

	for _, line := range c.cfg.OnJoinedCommands {
		c.sayf("%s", line)
	}

	if err := c.recorder.Start(time.Now()); err != nil {
		c.log.WithError(err).Error("failed to start recording")
		return "", err
	}

	out, errc := cn.Play(sessionCtx)

	var sessionErr error
loop:
	for {
		select {
		case np, ok := <-out:
			if !ok {
				break loop
			}
			c.onPacket(np)
		case sessionErr = <-errc:
			break loop
		case <-sessionCtx.Done():
			sessionErr = sessionCtx.Err()
			break loop
		}
	}

	c.mu.Lock()
	byUser := c.stopByUser
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if !byUser && sessionErr != nil {
		c.log.WithError(sessionErr).Warn("disconnected unexpectedly, recoverable")
		c.mu.Lock()
		c.restart = c.restart || c.cfg.AutoRelogin
		c.mu.Unlock()
	}

	sessionCancel()
	path, archiveErr := c.recorder.Stop(time.Now(), c.proc.PlayerUUIDs())
	if archiveErr != nil {
		c.log.WithError(archiveErr).Warn("recording discarded or failed to archive")
	} else {
		c.log.Infof("archived replay to %s", path)
	}
	return path, archiveErr
}

// onPacket threads one clientbound packet through the recorder, feeds
// the chat spam-decay counter, and dispatches in-game commands found in
// ordinary player chat.
func (c *Client) onPacket(np packetproc.NamedPacket) {
	if np.Name == "Time Update" {
		c.chatMgr.OnTimeUpdate()
	}
	if np.Name == "Chat Message (clientbound)" {
		if jsonData, err := decodeChatMessage(np.Body); err == nil {
			if sender, text, ok := playerChatMessage(jsonData); ok {
				c.handleCommand(sender, text)
			}
		}
	}

	reason := c.recorder.OnPacket(np, time.Now())
	switch reason {
	case record.RolloverFileSizeLimit:
		c.log.Info("file size limit reached, restarting")
		c.sayf("reached file size limit, restarting")
		c.Restart(false)
	case record.RolloverTimeLimit:
		c.log.Info("time recorded limit reached, restarting")
		c.sayf("reached time recorded limit, restarting")
		c.Restart(false)
	}
}

// buildAuthenticator selects the Authenticator implementation per
// cfg.AuthenticateType, matching PcrcImpl.connect's branch. The
// interactive "paste the redirected URL" step the Microsoft flow needs
// has no headless equivalent; this project reuses the generic Password
// field to carry the one-time authorization code instead.
func buildAuthenticator(cfg config.Config) (auth.Authenticator, error) {
	if !cfg.OnlineMode {
		return auth.NewOffline(cfg.Username), nil
	}
	switch cfg.AuthenticateType {
	case "mojang":
		return auth.NewMojang(cfg.Username, cfg.Password), nil
	case "microsoft":
		return auth.NewMicrosoft(cfg.Password), nil
	case "offline", "":
		return auth.NewOffline(cfg.Username), nil
	default:
		return nil, fmt.Errorf("client: unrecognized authenticate_type %q", cfg.AuthenticateType)
	}
}

// recorderConfig projects the subset of config.Config the record
// package needs into a record.Config (spec §6 options it consumes).
func recorderConfig(cfg config.Config) record.Config {
	var daytime *int64
	if cfg.Daytime >= 0 && cfg.Daytime < 24000 {
		d := cfg.Daytime
		daytime = &d
	}
	return record.Config{
		ServerName:            cfg.ServerName,
		WithPlayerOnly:        cfg.WithPlayerOnly,
		DelayBeforeAFKSeconds: cfg.DelayBeforeAFKSecond,
		RecordPacketsWhenAFK:  cfg.RecordPacketsWhenAFK,
		FileSizeLimitMB:       cfg.FileSizeLimitMB,
		FileBufferSizeMB:      cfg.FileBufferSizeMB,
		TimeRecordedLimitHour: cfg.TimeRecordedLimitHour,
		TempFileDirectory:     cfg.RecordingTempFileDirectory,
		StorageDirectory:      cfg.RecordingStorageDirectory,
		Options: packetproc.Options{
			MinimalPackets:     cfg.MinimalPackets,
			RemoveItems:        cfg.RemoveItems,
			RemoveBats:         cfg.RemoveBats,
			RemovePhantoms:     cfg.RemovePhantoms,
			AfkIgnoreSpectator: cfg.AfkIgnoreSpectator,
			Daytime:            daytime,
			Weather:            cfg.Weather,
		},
	}
}
