// Package config implements the JSON-backed configuration file of spec
// §6: a flat option set loaded from (and, on first run, written to)
// config.json, with a fixed allow-list of options an in-game "!!PCRC
// set" command may change at runtime. Grounded on pcrc/config.py's
// Config class, translated from its dynamic dict-of-Any storage to an
// explicit Go struct since Go has no runtime attribute access to lean
// on the way the original's fill_missing_options/get/set_value trio
// does.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// FileName is the on-disk config file name, matching CONFIG_FILE.
const FileName = "config.json"

// SettableOptions is the fixed allow-list spec.md's "!!PCRC set" command
// may change at runtime, ported verbatim from pcrc/config.py's
// SettableOptions.
var SettableOptions = []string{
	"language",
	"server_name",
	"daytime",
	"weather",
	"with_player_only",
	"remove_items",
	"remove_bats",
	"remove_phantoms",
	"file_size_limit_mb",
	"time_recorded_limit_hour",
}

// IsSettable reports whether option may be changed via "!!PCRC set".
func IsSettable(option string) bool {
	for _, o := range SettableOptions {
		if o == option {
			return true
		}
	}
	return false
}

// Config is the full recognized option set from spec §6.
type Config struct {
	Language string `json:"language"`

	OnlineMode       bool   `json:"online_mode"`
	AuthenticateType string `json:"authenticate_type"` // offline | mojang | microsoft
	Username         string `json:"username"`
	Password         string `json:"password"`
	StoreToken       bool   `json:"store_token"`

	Address        string `json:"address"`
	Port           uint16 `json:"port"`
	ServerName     string `json:"server_name"`
	InitialVersion string `json:"initial_version"`

	FileSizeLimitMB       int64 `json:"file_size_limit_mb"`
	FileBufferSizeMB      int64 `json:"file_buffer_size_mb"`
	TimeRecordedLimitHour int64 `json:"time_recorded_limit_hour"`

	DelayBeforeAFKSecond int64 `json:"delay_before_afk_second"`
	WithPlayerOnly       bool  `json:"with_player_only"`
	RecordPacketsWhenAFK bool  `json:"record_packets_when_afk"`
	AfkIgnoreSpectator   bool  `json:"afk_ignore_spectator"`

	MinimalPackets bool  `json:"minimal_packets"`
	Daytime        int64 `json:"daytime"`
	Weather        bool  `json:"weather"`
	RemoveItems    bool  `json:"remove_items"`
	RemoveBats     bool  `json:"remove_bats"`
	RemovePhantoms bool  `json:"remove_phantoms"`

	AutoRelogin         bool `json:"auto_relogin"`
	AutoReloginAttempts int  `json:"auto_relogin_attempts"` // <0 = unlimited

	ChatSpamProtect bool   `json:"chat_spam_protect"`
	CommandPrefix   string `json:"command_prefix"`

	OnJoinedCommands []string `json:"on_joined_commands"`

	Enabled   bool     `json:"enabled"`
	Whitelist []string `json:"whitelist"`

	RecordingStorageDirectory string `json:"recording_storage_directory"`
	RecordingTempFileDirectory string `json:"recording_temp_file_directory"`
}

// Default returns the option set written on first run, matching
// DEFAULT_CONFIG's shape (the original loads this from a packaged
// resources/default_config.json; this module has no bundled-resource
// mechanism so the defaults are literal Go values instead).
func Default() Config {
	return Config{
		Language:                   "en_us",
		OnlineMode:                 true,
		AuthenticateType:           "mojang",
		Port:                       25565,
		ServerName:                 "minecraft server",
		InitialVersion:             "1.16.5",
		FileSizeLimitMB:            256,
		FileBufferSizeMB:           1,
		TimeRecordedLimitHour:      6,
		DelayBeforeAFKSecond:       15,
		WithPlayerOnly:             true,
		RecordPacketsWhenAFK:       false,
		AfkIgnoreSpectator:         true,
		MinimalPackets:             false,
		Daytime:                    -1,
		Weather:                    true,
		RemoveItems:                false,
		RemoveBats:                 false,
		RemovePhantoms:             false,
		AutoRelogin:                true,
		AutoReloginAttempts:        -1,
		ChatSpamProtect:            true,
		CommandPrefix:              "!!PCRC",
		Enabled:                    false,
		Whitelist:                  []string{},
		RecordingStorageDirectory:  "PCRC_recordings",
		RecordingTempFileDirectory: "temp_recording",
	}
}

// Load reads path (FileName if empty), returning the parsed Config and
// whether the file was missing (matching was_missing_file). On a
// missing file, Default() is written to path so operators have
// something to edit, matching fill_missing_options/write_to_file
// running even on first load.
func Load(path string) (cfg Config, wasMissing bool, err error) {
	if path == "" {
		path = FileName
	}

	b, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		cfg = Default()
		wasMissing = true
	case err != nil:
		return Config{}, false, fmt.Errorf("config: read %s: %w", path, err)
	default:
		cfg = Default()
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, false, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := Save(path, cfg); err != nil {
		return Config{}, false, err
	}
	return cfg, wasMissing, nil
}

// Save writes cfg to path as indented JSON, matching write_to_file.
func Save(path string, cfg Config) error {
	if path == "" {
		path = FileName
	}
	b, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
