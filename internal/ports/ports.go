package ports

// Session is a bound MPRIS player for the duration of one invocation.
// It owns the resolved bus identity, the interface handles and a
// point-in-time snapshot of the track list. Implementations degrade
// gracefully: every read may fail independently and callers decide
// whether a failure is fatal for the command at hand.
type Session interface {
	// PlayerName returns the short player name the session resolved to
	// (the bus name with the MPRIS prefix stripped, e.g. "vlc").
	PlayerName() string

	Identity() (string, error)
	Quit() error

	Play() error
	Pause() error
	Stop() error
	Next() error
	Prev() error

	// VolumeGet and VolumeSet work in percent (0..100); implementations
	// translate to whatever numeric domain the remote expects.
	VolumeGet() (int, error)
	VolumeSet(pct int) error

	// Seek passes a millisecond offset through to the remote. The remote
	// player is authoritative about clamping.
	Seek(offsetMS int64) error
	PositionMS() (int64, error)

	// LoopStatus is one of "None", "Track" or "Playlist".
	LoopStatus() (string, error)
	SetLoopStatus(status string) error
	ShuffleGet() (bool, error)
	ShuffleSet(on bool) error

	// LegacyStatus attempts the combined pre-properties status call.
	// A reply of the wrong shape is an error; callers treat any error
	// as "status entirely absent".
	LegacyStatus() (StatusTuple, error)

	// CurrentTrack returns the index of the playing track within the
	// track-list snapshot.
	CurrentTrack() (int, error)

	// Metadata returns the current track's metadata. Every field is
	// optional and may be semantically misused by the player.
	Metadata() (map[string]any, error)

	// RefreshTracks re-reads the track-list snapshot. TrackCount reports
	// the snapshot length, zero when the list is empty or unknown.
	RefreshTracks() error
	TrackCount() int
	TrackMetadata(index int) (map[string]any, error)
	AddTrack(uri string, playNow bool) error
	DelTrack(index int) error
}

// StatusTuple is the legacy combined status reply: playback state plus
// the random/repeat/loop flags, all as small integers.
type StatusTuple struct {
	State  int32 // 0 playing, 1 paused, 2 stopped
	Random int32
	Repeat int32
	Loop   int32
}
