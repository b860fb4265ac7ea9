package mpris

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"github.com/mikey-austin/mpris_remote/internal/core"
	"github.com/mikey-austin/mpris_remote/internal/ports"
)

const (
	// BusPrefix is the well-known name prefix every MPRIS player
	// registers under.
	BusPrefix = "org.mpris.MediaPlayer2."

	objectPath = dbus.ObjectPath("/org/mpris/MediaPlayer2")

	rootInterface      = "org.mpris.MediaPlayer2"
	playerInterface    = "org.mpris.MediaPlayer2.Player"
	trackListInterface = "org.mpris.MediaPlayer2.TrackList"

	noTrackPath = dbus.ObjectPath("/org/mpris/MediaPlayer2/TrackList/NoTrack")
)

// ErrNoTrack reports that the player has no current track.
var ErrNoTrack = errors.New("no current track")

// Session is the bound remote player for one invocation. The proxy
// covers all four MPRIS interfaces (root, player, track list and the
// generic properties access they share) on the player's single object
// path; the interface names travel per call.
type Session struct {
	bus    Bus
	logger *zap.Logger

	name     string // short player name, e.g. "vlc"
	identity string // full bus name

	obj    dbus.BusObject
	tracks []dbus.ObjectPath
}

var _ ports.Session = (*Session)(nil)

// DiscoverPlayers enumerates the short names of all running MPRIS
// players, sorted for stable output.
func DiscoverPlayers(bus Bus) ([]string, error) {
	names, err := bus.ListNames()
	if err != nil {
		return nil, err
	}
	players := make([]string, 0)
	for _, name := range names {
		if strings.HasPrefix(name, BusPrefix) {
			players = append(players, strings.TrimPrefix(name, BusPrefix))
		}
	}
	sort.Strings(players)
	return players, nil
}

// Resolve discovers running players, picks the one the selector names
// ("*" or empty meaning "first available") and binds to it. A transport
// fault here is fatal; discovery errors carry the list of players that
// are actually running.
func Resolve(bus Bus, selector string, logger *zap.Logger) (*Session, error) {
	players, err := DiscoverPlayers(bus)
	if err != nil {
		return nil, core.WrapError(core.ExitFailure, "list bus names", err)
	}
	logger.Debug("discovered players", zap.Strings("players", players))

	if len(players) == 0 {
		return nil, core.Failf("no MPRIS players are running")
	}

	name := selector
	if selector == "" || selector == "*" {
		name = players[0]
	} else if !containsString(players, selector) {
		return nil, core.Failf("player %q is not running (running players: %s)",
			selector, strings.Join(players, ", "))
	}

	s := &Session{
		bus:      bus,
		logger:   logger,
		name:     name,
		identity: BusPrefix + name,
	}
	s.obj = bus.Object(s.identity, objectPath)
	logger.Debug("bound player", zap.String("identity", s.identity))

	// Initial snapshot; players without a track list leave it unknown.
	if err := s.RefreshTracks(); err != nil {
		s.logger.Debug("track list unavailable", zap.Error(err))
	}
	return s, nil
}

func (s *Session) PlayerName() string { return s.name }

// Identity returns the human-readable name the player reports about
// itself.
func (s *Session) Identity() (string, error) {
	variant, err := s.obj.GetProperty(rootInterface + ".Identity")
	if err != nil {
		return "", err
	}
	id, ok := toString(variant.Value())
	if !ok {
		return "", fmt.Errorf("identity has unexpected type %T", variant.Value())
	}
	return id, nil
}

func (s *Session) Quit() error {
	return s.obj.Call(rootInterface+".Quit", 0).Err
}

func (s *Session) Play() error  { return s.obj.Call(playerInterface+".Play", 0).Err }
func (s *Session) Pause() error { return s.obj.Call(playerInterface+".Pause", 0).Err }
func (s *Session) Stop() error  { return s.obj.Call(playerInterface+".Stop", 0).Err }
func (s *Session) Next() error  { return s.obj.Call(playerInterface+".Next", 0).Err }
func (s *Session) Prev() error  { return s.obj.Call(playerInterface+".Previous", 0).Err }

// VolumeGet reads the Volume property, scaling the remote's 0.0..1.0
// domain to percent.
func (s *Session) VolumeGet() (int, error) {
	variant, err := s.obj.GetProperty(playerInterface + ".Volume")
	if err != nil {
		return 0, err
	}
	volume, ok := toFloat64(variant.Value())
	if !ok {
		return 0, fmt.Errorf("volume has unexpected type %T", variant.Value())
	}
	return int(volume*100 + 0.5), nil
}

func (s *Session) VolumeSet(pct int) error {
	return s.obj.SetProperty(playerInterface+".Volume", dbus.MakeVariant(float64(pct)/100))
}

// Seek passes the offset through, scaled to the remote's microsecond
// domain. The player clamps as it sees fit.
func (s *Session) Seek(offsetMS int64) error {
	return s.obj.Call(playerInterface+".Seek", 0, offsetMS*1000).Err
}

func (s *Session) PositionMS() (int64, error) {
	variant, err := s.obj.GetProperty(playerInterface + ".Position")
	if err != nil {
		return 0, err
	}
	us, ok := toInt64(variant.Value())
	if !ok {
		return 0, fmt.Errorf("position has unexpected type %T", variant.Value())
	}
	return us / 1000, nil
}

func (s *Session) LoopStatus() (string, error) {
	variant, err := s.obj.GetProperty(playerInterface + ".LoopStatus")
	if err != nil {
		return "", err
	}
	status, ok := toString(variant.Value())
	if !ok {
		return "", fmt.Errorf("loop status has unexpected type %T", variant.Value())
	}
	return status, nil
}

func (s *Session) SetLoopStatus(status string) error {
	return s.obj.SetProperty(playerInterface+".LoopStatus", dbus.MakeVariant(status))
}

func (s *Session) ShuffleGet() (bool, error) {
	variant, err := s.obj.GetProperty(playerInterface + ".Shuffle")
	if err != nil {
		return false, err
	}
	on, ok := toBool(variant.Value())
	if !ok {
		return false, fmt.Errorf("shuffle has unexpected type %T", variant.Value())
	}
	return on, nil
}

func (s *Session) ShuffleSet(on bool) error {
	return s.obj.SetProperty(playerInterface+".Shuffle", dbus.MakeVariant(on))
}

// LegacyStatus calls the combined pre-properties GetStatus method. The
// reply is a 4-field struct; anything else (including the bare scalar
// some players return) is an error so the caller drops the status
// signal wholesale instead of trusting part of it.
func (s *Session) LegacyStatus() (ports.StatusTuple, error) {
	call := s.obj.Call(playerInterface+".GetStatus", 0)
	if call.Err != nil {
		return ports.StatusTuple{}, call.Err
	}
	if len(call.Body) == 1 {
		fields, ok := call.Body[0].([]any)
		if !ok || len(fields) != 4 {
			return ports.StatusTuple{}, fmt.Errorf("status has unexpected shape %T", call.Body[0])
		}
		var st ports.StatusTuple
		for i, dst := range []*int32{&st.State, &st.Random, &st.Repeat, &st.Loop} {
			n, ok := toInt64(fields[i])
			if !ok {
				return ports.StatusTuple{}, fmt.Errorf("status field %d has unexpected type %T", i, fields[i])
			}
			*dst = int32(n)
		}
		return st, nil
	}

	var st ports.StatusTuple
	if err := call.Store(&st.State, &st.Random, &st.Repeat, &st.Loop); err != nil {
		return ports.StatusTuple{}, err
	}
	return st, nil
}

// CurrentTrack locates the playing track in the snapshot via its track
// id, falling back to the legacy GetCurrentTrack call for players that
// predate the Tracks property.
func (s *Session) CurrentTrack() (int, error) {
	if variant, err := s.obj.GetProperty(playerInterface + ".Metadata"); err == nil {
		if raw, ok := variant.Value().(map[string]dbus.Variant); ok {
			if idVariant, ok := raw["mpris:trackid"]; ok {
				if id, ok := toTrackID(idVariant.Value()); ok {
					for i, track := range s.tracks {
						if track == id {
							return i, nil
						}
					}
				}
			}
		}
	}

	call := s.obj.Call(trackListInterface+".GetCurrentTrack", 0)
	if call.Err != nil {
		return 0, call.Err
	}
	var index int32
	if err := call.Store(&index); err != nil {
		return 0, err
	}
	return int(index), nil
}

func (s *Session) Metadata() (map[string]any, error) {
	variant, err := s.obj.GetProperty(playerInterface + ".Metadata")
	if err != nil {
		return nil, err
	}
	md, ok := decodeMetadata(variant.Value())
	if !ok {
		return nil, fmt.Errorf("metadata has unexpected type %T", variant.Value())
	}
	if len(md) == 0 {
		return nil, ErrNoTrack
	}
	return md, nil
}

// RefreshTracks re-reads the Tracks property. On any failure the
// snapshot becomes unknown rather than stale.
func (s *Session) RefreshTracks() error {
	variant, err := s.obj.GetProperty(trackListInterface + ".Tracks")
	if err != nil {
		s.tracks = nil
		return err
	}
	tracks, ok := toTrackList(variant.Value())
	if !ok {
		s.tracks = nil
		return fmt.Errorf("track list has unexpected type %T", variant.Value())
	}
	s.tracks = tracks
	return nil
}

func (s *Session) TrackCount() int { return len(s.tracks) }

func (s *Session) TrackMetadata(index int) (map[string]any, error) {
	if index < 0 || index >= len(s.tracks) {
		return nil, fmt.Errorf("track %d is not in the track list", index)
	}
	call := s.obj.Call(trackListInterface+".GetTracksMetadata", 0, []dbus.ObjectPath{s.tracks[index]})
	if call.Err != nil {
		return nil, call.Err
	}
	var raw []map[string]dbus.Variant
	if err := call.Store(&raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || len(raw[0]) == 0 {
		return nil, ErrNoTrack
	}
	md, _ := decodeMetadata(raw[0])
	return md, nil
}

// AddTrack appends the uri after the last known track, or at the list
// head when the snapshot is empty.
func (s *Session) AddTrack(uri string, playNow bool) error {
	after := noTrackPath
	if len(s.tracks) > 0 {
		after = s.tracks[len(s.tracks)-1]
	}
	return s.obj.Call(trackListInterface+".AddTrack", 0, uri, after, playNow).Err
}

func (s *Session) DelTrack(index int) error {
	if index < 0 || index >= len(s.tracks) {
		return fmt.Errorf("track %d is not in the track list", index)
	}
	return s.obj.Call(trackListInterface+".RemoveTrack", 0, s.tracks[index]).Err
}

func containsString(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
