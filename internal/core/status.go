package core

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey-austin/mpris_remote/internal/ports"
)

// mtimeRecentWindow is the heuristic for spotting players that stuff a
// file-modification timestamp into the mtime metadata field instead of
// the track duration. A duration-as-milliseconds value lands nowhere
// near the current epoch; a timestamp does.
const mtimeRecentWindow = 5 * 365 * 24 * time.Hour

// statusNow is stubbed in tests.
var statusNow = time.Now

// VerboseStatus composes the default one-line status plus metadata and
// flag lines. Every signal is gathered independently and composed only
// if present; total absence of all signals yields empty output, never
// an error.
func VerboseStatus(s ports.Session, logger *zap.Logger) []string {
	st, err := s.LegacyStatus()
	hasStatus := err == nil
	if err != nil {
		logger.Debug("legacy status unavailable", zap.Error(err))
	}

	current, err := s.CurrentTrack()
	hasCurrent := err == nil
	if err != nil {
		logger.Debug("current track unavailable", zap.Error(err))
	}
	count := s.TrackCount()

	position, err := s.PositionMS()
	hasPosition := err == nil
	if err != nil {
		logger.Debug("position unavailable", zap.Error(err))
	}

	md, err := s.Metadata()
	if err != nil {
		logger.Debug("metadata unavailable", zap.Error(err))
		md = nil
	}
	mtime, hasMtime := trackDuration(s.PlayerName(), md, logger)

	var lines []string
	if line := statusLine(st, hasStatus, current, hasCurrent, count, position, hasPosition, mtime, hasMtime, md); line != "" {
		lines = append(lines, line+"\n")
	}
	for _, field := range []string{"artist", "title", "album"} {
		if value, ok := metadataString(md, field); ok {
			lines = append(lines, fmt.Sprintf("%s: %s\n", field, value))
		}
	}
	if hasStatus {
		lines = append(lines, fmt.Sprintf("[repeat %s] [random %s] [loop %s]\n",
			onOff(st.Repeat), onOff(st.Random), onOff(st.Loop)))
	}
	return lines
}

func statusLine(st ports.StatusTuple, hasStatus bool, current int, hasCurrent bool, count int,
	position int64, hasPosition bool, mtime int64, hasMtime bool, md map[string]any) string {

	var parts []string

	var bracket []string
	if hasStatus {
		bracket = append(bracket, stateWord(st.State))
	}
	if hasCurrent && count > 0 {
		bracket = append(bracket, fmt.Sprintf("%d/%d", current, count))
	}
	if len(bracket) > 0 {
		parts = append(parts, "["+strings.Join(bracket, " ")+"]")
	}

	if hasPosition {
		clock := FormatTime(position)
		if hasMtime {
			clock += "/" + FormatTime(mtime)
		}
		parts = append(parts, "@ "+clock)
	}

	if md != nil {
		if num, ok := asInt64(md["tracknumber"]); ok {
			parts = append(parts, fmt.Sprintf("- #%d", num))
		}
	}

	return strings.Join(parts, " ")
}

// trackDuration extracts a millisecond track duration from metadata,
// applying the compatibility shims for known-broken players. A value
// within roughly five years of now is a misused file timestamp and is
// dropped. VLC never fills mtime at all but does report a length in
// seconds, so for it the duration is derived from that instead. Both
// are documented workarounds for specific legacy players, not general
// policy.
func trackDuration(playerName string, md map[string]any, logger *zap.Logger) (int64, bool) {
	if md == nil {
		return 0, false
	}

	mtime, hasMtime := asInt64(md["mtime"])
	if hasMtime {
		age := statusNow().Sub(time.UnixMilli(mtime))
		if age < mtimeRecentWindow && age > -mtimeRecentWindow {
			logger.Debug("mtime looks like a file timestamp, dropping", zap.Int64("mtime", mtime))
			hasMtime = false
		}
	}

	if playerName == "vlc" {
		if length, ok := asInt64(md["length"]); ok {
			return length * 1000, true
		}
	}

	if !hasMtime {
		return 0, false
	}
	return mtime, true
}

func metadataString(md map[string]any, field string) (string, bool) {
	if md == nil {
		return "", false
	}
	if value, ok := asString(md[field]); ok {
		return value, true
	}
	// Compliant players use the xesam namespace for these fields.
	return asString(md["xesam:"+field])
}

func stateWord(state int32) string {
	switch state {
	case 0:
		return "playing"
	case 1:
		return "paused"
	case 2:
		return "stopped"
	}
	return "unknown"
}

func onOff(flag int32) string {
	if flag != 0 {
		return "on"
	}
	return "off"
}
