// Package record implements the recorder controller of spec §4.8: AFK
// bookkeeping, rollover triggers (file size / time limit), and the
// on_packet pipeline that threads every clientbound packet through
// packetproc before appending it to an mcpr.Recording. Ported from
// pcrc/recording/recorder.py's Recorder, restructured as explicit state
// on the struct rather than closures over a parent client object.
package record

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pcrc-go/pcrc/chat"
	"github.com/pcrc-go/pcrc/mcpr"
	"github.com/pcrc-go/pcrc/packetproc"
	"github.com/pcrc-go/pcrc/protover"
)

// State is the recorder's lifecycle stage, mirroring RecordingState.
type State int

const (
	StateStopped State = iota
	StateRecording
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateRecording:
		return "recording"
	case StateSaving:
		return "saving"
	default:
		return "stopped"
	}
}

// RolloverReason names why the recorder asked its owner to restart.
type RolloverReason int

const (
	RolloverNone RolloverReason = iota
	RolloverFileSizeLimit
	RolloverTimeLimit
)

// Recorder owns one in-progress capture: the packetproc.Processor
// feeding it, the staged mcpr.Recording it writes to, and the AFK/
// rollover bookkeeping recorder.py keeps on self.
type Recorder struct {
	cfg     Config
	version protover.Version
	proc    *packetproc.Processor
	chat    chat.Sender // only used for Flush-independent immediate notices; nil-safe

	mu    sync.Mutex
	state State

	startTime            time.Time
	afkDuration          time.Duration
	lastPacketTime       time.Time
	lastNoPlayerMovement *bool
	fileName             string
	packetCounter        int64
	lastShowInfoTime     int64
	lastShowInfoPacket   int64

	recording *mcpr.Recording

	log *logrus.Entry
}

// New builds a Recorder bound to proc (already constructed for the
// connection's protocol version) and cfg.
func New(cfg Config, version protover.Version, proc *packetproc.Processor, sender chat.Sender, log *logrus.Entry) *Recorder {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Recorder{cfg: cfg, version: version, proc: proc, chat: sender, log: log}
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Recorder) IsStopped() bool   { return r.State() == StateStopped }
func (r *Recorder) IsRecording() bool { return r.State() == StateRecording }

// HasNoPlayerMovement reports whether the configured AFK delay has
// elapsed since the processor last saw player movement (spec §4.8).
func (r *Recorder) HasNoPlayerMovement(now time.Time) bool {
	last := r.proc.LatestMovement()
	if last.IsZero() {
		return false
	}
	return now.Sub(last) >= time.Duration(r.cfg.DelayBeforeAFKSeconds)*time.Second
}

// IsAfking reports the recorder's actual AFK state: no movement AND
// with_player_only enabled, matching Recorder.is_afking.
func (r *Recorder) IsAfking(now time.Time) bool {
	return r.cfg.WithPlayerOnly && r.HasNoPlayerMovement(now)
}

func (r *Recorder) timePassed(now time.Time) time.Duration {
	if r.startTime.IsZero() {
		return 0
	}
	return now.Sub(r.startTime)
}

func (r *Recorder) timeRecorded(now time.Time) time.Duration {
	return r.timePassed(now) - r.afkDuration
}

// Start begins a new capture: resets all bookkeeping and stages a fresh
// working directory via mcpr.NewRecording, matching on_recording_start.
func (r *Recorder) Start(now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, err := mcpr.NewRecording(r.cfg.TempFileDirectory, r.cfg.FileBufferSizeMB)
	if err != nil {
		return fmt.Errorf("record: start recording: %w", err)
	}

	r.state = StateRecording
	r.startTime = now
	r.afkDuration = 0
	r.lastPacketTime = now
	r.lastNoPlayerMovement = nil
	r.packetCounter = 0
	r.lastShowInfoTime = 0
	r.lastShowInfoPacket = 0
	r.recording = rec
	return nil
}

// SetConfig replaces the live option set, letting "!!PCRC set <option>
// <value>" (client, C9) take effect on the next packet without
// restarting the recorder. Guarded by the same mutex OnPacket reads cfg
// under.
func (r *Recorder) SetConfig(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg = cfg
}

// RecordedDuration is the elapsed AFK-excluded capture time, for status
// reporting and metadata.
func (r *Recorder) RecordedDuration(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timeRecorded(now)
}

// SetFileName overrides the .mcpr base file name (spec's "!!PCRC name"
// command), matching set_file_name.
func (r *Recorder) SetFileName(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fileName = name
}

// AddMarker records a marker at the recorder's current position,
// matching Recorder.add_marker.
func (r *Recorder) AddMarker(name string, now time.Time) (mcpr.Marker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording == nil {
		return mcpr.Marker{}, fmt.Errorf("record: not recording")
	}
	pos := r.proc.SelfPosition()
	ts := r.timeRecorded(now).Milliseconds()
	return r.recording.AddMarker(ts, mcpr.Position{X: pos.X, Y: pos.Y, Z: pos.Z, Yaw: pos.Yaw, Pitch: pos.Pitch}, name)
}

// DeleteMarker removes the 1-indexed marker, matching
// Recorder.delete_marker.
func (r *Recorder) DeleteMarker(index int) (mcpr.Marker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording == nil {
		return mcpr.Marker{}, fmt.Errorf("record: not recording")
	}
	return r.recording.PopMarker(index)
}

// Markers lists the currently staged markers, matching print_markers'
// data source.
func (r *Recorder) Markers() []mcpr.Marker {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recording == nil {
		return nil
	}
	return r.recording.Markers()
}

// Status renders the multi-line !!PCRC status text, matching
// Recorder.get_status.
func (r *Recorder) Status(now time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	size := int64(-1)
	if r.recording != nil {
		size = r.recording.Size()
	}
	return fmt.Sprintf(
		"recording=%v afk=%v recorded=%s passed=%s packets=%d size=%dMB file=%q",
		r.state == StateRecording, r.state == StateRecording && r.IsAfking(now),
		r.timeRecorded(now).Round(time.Second), r.timePassed(now).Round(time.Second),
		r.packetCounter, size/BytePerMB, r.fileName,
	)
}

// OnPacket threads one clientbound packet through the processor chain,
// appends it to the staged recording unless AFK-suppressed, and reports
// whether a rollover should happen (file-size or time-recorded limit
// reached), matching Recorder.on_packet.
func (r *Recorder) OnPacket(np packetproc.NamedPacket, now time.Time) RolloverReason {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRecording {
		return RolloverNone
	}

	afk := r.IsAfking(now)
	decision := r.proc.Process(np, r.cfg.Options, now)

	if r.cfg.WithPlayerOnly {
		noMovement := r.HasNoPlayerMovement(now)
		if noMovement {
			r.afkDuration += now.Sub(r.lastPacketTime)
		}
		if r.lastNoPlayerMovement == nil || *r.lastNoPlayerMovement != noMovement {
			r.chatf(noMovement)
		}
		r.lastNoPlayerMovement = &noMovement
	}
	r.lastPacketTime = now

	if decision.Keep {
		important := packetproc.IsImportant(np.Name)
		if !afk || important || r.cfg.RecordPacketsWhenAFK {
			if err := r.recording.WritePacket(uint32(r.timeRecorded(now).Milliseconds()), np.ID, decision.Body); err != nil {
				r.log.WithError(err).Error("failed to write packet to recording")
			} else {
				r.packetCounter++
			}
		}
	}

	reason := RolloverNone
	if r.cfg.FileSizeLimitMB > 0 && r.recording.Size() > r.cfg.FileSizeLimitMB*BytePerMB {
		reason = RolloverFileSizeLimit
	} else if r.cfg.TimeRecordedLimitHour > 0 && r.timeRecorded(now) > time.Duration(r.cfg.TimeRecordedLimitHour)*time.Hour {
		reason = RolloverTimeLimit
	}

	r.maybeLogProgress(now)
	return reason
}

func (r *Recorder) chatf(afk bool) {
	if r.chat == nil {
		return
	}
	if afk {
		_ = r.chat.SendChat("Recording paused: no player movement detected")
	} else {
		_ = r.chat.SendChat("Recording resumed")
	}
}

func (r *Recorder) maybeLogProgress(now time.Time) {
	showInfoTime := r.timePassed(now).Milliseconds() / DefaultShowInfoPeriod
	if showInfoTime != r.lastShowInfoTime || r.packetCounter-r.lastShowInfoPacket >= DefaultShowInfoPackets {
		r.lastShowInfoTime = showInfoTime
		r.lastShowInfoPacket = r.packetCounter
		r.log.Infof("recorded=%s passed=%s packets=%d",
			r.timeRecorded(now).Round(time.Second), r.timePassed(now).Round(time.Second), r.packetCounter)
	}
}

// Stop finalizes the capture: rejects recordings under
// MinimumLegalFileSize, writes metadata, and archives the staged
// directory into cfg.StorageDirectory, matching
// Recorder.__create_replay_file. players is the connection's player-
// uuid set for metaData.json.
func (r *Recorder) Stop(now time.Time, players []uuid.UUID) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording == nil {
		return "", fmt.Errorf("record: recording has not started yet")
	}
	defer func() {
		r.state = StateStopped
		r.recording = nil
		r.startTime = time.Time{}
	}()
	r.state = StateSaving

	if r.recording.Size() < MinimumLegalFileSize {
		return "", fmt.Errorf("record: recording.tmcpr too small (%d bytes < %d), discarding", r.recording.Size(), MinimumLegalFileSize)
	}

	playerStrs := make([]string, len(players))
	for i, id := range players {
		playerStrs[i] = id.String()
	}

	if err := r.recording.SetMeta(mcpr.Meta{
		ServerName:        r.cfg.ServerName,
		Duration:          int(r.timeRecorded(now).Milliseconds()),
		Date:              now.UnixMilli(),
		MCVersion:         r.version.Label,
		FileFormat:        "MCPR",
		FileFormatVersion: r.version.FileFormatVersion,
		Protocol:          int(r.version.Protocol),
		Generator:         "PCRC",
		SelfID:            -1,
		Players:           playerStrs,
	}); err != nil {
		return "", fmt.Errorf("record: write metadata: %w", err)
	}

	name := r.fileName
	if name == "" {
		name = now.Format("PCRC_2006_01_02_15_04_05")
	}
	target := fmt.Sprintf("%s/%s.mcpr", r.cfg.StorageDirectory, name)

	finalPath, err := r.recording.Archive(target)
	if err != nil {
		return "", fmt.Errorf("record: archive: %w", err)
	}
	return finalPath, nil
}
