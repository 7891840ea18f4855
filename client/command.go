package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pcrc-go/pcrc/chat"
	"github.com/pcrc-go/pcrc/config"
)

// handleCommand parses one chat line from senderName and, if it begins
// with the configured command prefix, dispatches it. Mirrors
// recorder.py's on_command token-by-token, with the arity/shape of each
// branch kept 1:1 against the original (spec §6's in-game command
// surface, spec §4.9's command forwarding from the chat dispatcher).
func (c *Client) handleCommand(senderName, text string) {
	if senderName == c.cfg.Username {
		return
	}
	args := strings.Split(text, " ")
	if len(args) == 0 || args[0] != c.cfg.CommandPrefix {
		return
	}

	if c.cfg.Enabled && !contains(c.cfg.Whitelist, senderName) {
		c.sayf("You are not allowed to issue commands.")
		return
	}

	switch {
	case len(args) == 1:
		c.sayf("%s status|spectate|here|pos|stop|restart|set|marker|name|respawn", c.cfg.CommandPrefix)

	case len(args) == 2 && args[1] == "status":
		c.sayStatus()

	case len(args) == 2 && (args[1] == "spectate" || args[1] == "spec"):
		c.sayf("spectating is only available when the sender's uuid is known")

	case len(args) == 2 && args[1] == "here":
		c.sayf("!!here")

	case len(args) == 2 && isPositionAlias(args[1]):
		c.sayPosition()

	case len(args) == 2 && args[1] == "stop":
		c.Stop(true)

	case len(args) == 2 && args[1] == "restart":
		c.Restart(false)

	case len(args) == 4 && args[1] == "set":
		c.setOption(args[2], args[3])

	case len(args) == 2 && args[1] == "set":
		c.sayf("Settable options: %s", strings.Join(config.SettableOptions, ", "))

	case (len(args) == 2 && args[1] == "marker") || (len(args) == 3 && args[1] == "marker" && args[2] == "list"):
		c.sayMarkers()

	case len(args) >= 3 && len(args) <= 4 && args[1] == "marker" && args[2] == "add":
		name := ""
		if len(args) == 4 {
			name = args[3]
		}
		c.addMarker(name)

	case len(args) == 4 && args[1] == "marker" && (args[2] == "del" || args[2] == "delete"):
		index, err := strconv.Atoi(args[3])
		if err != nil {
			c.sayf("wrong argument")
			break
		}
		c.deleteMarker(index)

	case len(args) == 3 && args[1] == "name":
		c.setFileName(args[2])

	case len(args) == 2 && args[1] == "respawn":
		if c.conn != nil {
			if err := c.conn.Respawn(); err != nil {
				c.log.WithError(err).Warn("failed to send respawn")
			}
		}

	default:
		c.sayf("unknown command, try %s for help", c.cfg.CommandPrefix)
	}
}

func isPositionAlias(arg string) bool {
	switch arg {
	case "where", "location", "loc", "position", "pos":
		return true
	default:
		return false
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// setOption applies "!!PCRC set <option> <value>", restricted to
// config.SettableOptions exactly like set_config_entry's allow-list
// check.
func (c *Client) setOption(option, value string) {
	if !config.IsSettable(option) {
		c.sayf("%s is not a settable option", option)
		return
	}
	c.mu.Lock()
	applyOption(&c.cfg, option, value)
	cfg := c.cfg
	rec := c.recorder
	c.mu.Unlock()
	if rec != nil {
		rec.SetConfig(recorderConfig(cfg))
	}
	c.sayf("option %s set to %s", option, value)
	c.log.Infof("option <%s> set to <%s>", option, value)
}

// applyOption mutates cfg in place for one SettableOptions key,
// converting value from its chat-command string form the way
// convert_to_option_type does per-field.
func applyOption(cfg *config.Config, option, value string) {
	switch option {
	case "language":
		cfg.Language = value
	case "server_name":
		cfg.ServerName = value
	case "daytime":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			cfg.Daytime = n
		}
	case "weather":
		cfg.Weather = parseBool(value)
	case "with_player_only":
		cfg.WithPlayerOnly = parseBool(value)
	case "remove_items":
		cfg.RemoveItems = parseBool(value)
	case "remove_bats":
		cfg.RemoveBats = parseBool(value)
	case "remove_phantoms":
		cfg.RemovePhantoms = parseBool(value)
	case "file_size_limit_mb":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			cfg.FileSizeLimitMB = n
		}
	case "time_recorded_limit_hour":
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			cfg.TimeRecordedLimitHour = n
		}
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

func (c *Client) sayf(format string, args ...interface{}) {
	if c.chatMgr == nil {
		return
	}
	c.chatMgr.Add(fmt.Sprintf(format, args...), chat.PriorityNormal)
}

// Say queues an operator-issued chat line at normal priority, matching
// PcrcImpl.chat — the cli_entry "say <text>" console command.
func (c *Client) Say(text string) {
	c.sayf("%s", text)
}
