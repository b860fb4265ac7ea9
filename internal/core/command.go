package core

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mikey-austin/mpris_remote/internal/ports"
)

// argSpec declares one positional argument. Optional arguments are only
// validated when actually present; presence itself is governed by the
// command's arity set.
type argSpec struct {
	validator Validator
	optional  bool
}

// commandSpec is one entry of the static descriptor table.
type commandSpec struct {
	arities       []int
	args          []argSpec
	refreshTracks bool
	run           func(d Dispatcher, s ports.Session, args []string) ([]string, error)
}

var commands = map[string]commandSpec{
	"status":   {arities: []int{0}, refreshTracks: true, run: statusCmd},
	"identity": {arities: []int{0}, run: identityCmd},
	"quit":     {arities: []int{0}, run: quitCmd},
	"play":     {arities: []int{0}, run: playCmd},
	"pause":    {arities: []int{0}, run: pauseCmd},
	"stop":     {arities: []int{0}, run: stopCmd},
	"next":     {arities: []int{0}, run: nextCmd},
	"prev":     {arities: []int{0}, run: prevCmd},
	"volume": {
		arities: []int{0, 1},
		args:    []argSpec{{validator: validZeroTo100(), optional: true}},
		run:     volumeCmd,
	},
	"seek": {
		arities: []int{1},
		args:    []argSpec{{validator: validInteger()}},
		run:     seekCmd,
	},
	"position": {arities: []int{0}, run: positionCmd},
	"loop": {
		arities: []int{0, 1},
		args:    []argSpec{{validator: validBoolean(), optional: true}},
		run:     loopCmd,
	},
	"repeat": {
		arities: []int{0, 1},
		args:    []argSpec{{validator: validBoolean(), optional: true}},
		run:     repeatCmd,
	},
	"shuffle": {
		arities: []int{0, 1},
		args:    []argSpec{{validator: validBoolean(), optional: true}},
		run:     shuffleCmd,
	},
	"trackinfo": {
		arities:       []int{0, 1},
		args:          []argSpec{{validator: validTrackIndexOrAll(), optional: true}},
		refreshTracks: true,
		run:           trackinfoCmd,
	},
	"tracknum":  {arities: []int{0}, refreshTracks: true, run: tracknumCmd},
	"numtracks": {arities: []int{0}, refreshTracks: true, run: numtracksCmd},
	"addtrack": {
		arities: []int{1, 2},
		args: []argSpec{
			{validator: validURIOrPath()},
			{validator: validBoolean(), optional: true},
		},
		refreshTracks: true,
		run:           addtrackCmd,
	},
	"deltrack": {
		arities:       []int{1},
		args:          []argSpec{{validator: validTrackIndex()}},
		refreshTracks: true,
		run:           deltrackCmd,
	},
	"clear": {arities: []int{0}, refreshTracks: true, run: clearCmd},
}

// Dispatcher validates arguments against the descriptor table and runs
// the matching remote operation. It holds no state across commands:
// each invocation is a pure validate-then-call-then-format pipeline.
type Dispatcher struct {
	Stdin  io.Reader
	Logger *zap.Logger
}

// Dispatch resolves name against the command table, validates args and
// runs the command. The returned chunks are written to stdout verbatim;
// an empty slice means the command produces no output at all. An empty
// name runs the verbose status command.
func (d Dispatcher) Dispatch(s ports.Session, name string, args []string) ([]string, error) {
	if name == "" {
		name = "status"
	}
	spec, ok := commands[name]
	if !ok {
		return nil, Failf("unknown command %q", name)
	}

	if !containsInt(spec.arities, len(args)) {
		return nil, Failf("%s: expected %s, got %d", name, describeArity(spec.arities), len(args))
	}

	// Track-dependent validation wants a fresh snapshot. Failure leaves
	// the snapshot unknown, which the validators treat optimistically.
	if spec.refreshTracks {
		if err := s.RefreshTracks(); err != nil {
			d.logger().Debug("track list unavailable", zap.Error(err))
		}
	}
	for i, as := range spec.args {
		if i >= len(args) {
			if !as.optional {
				return nil, Failf("%s: argument %d is required", name, i+1)
			}
			continue
		}
		if !as.validator.Check(s, args[i]) {
			return nil, Failf("%s: argument %d must be %s (got %q)",
				name, i+1, as.validator.Describe(s), args[i])
		}
	}

	return spec.run(d, s, args)
}

func (d Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d Dispatcher) stdin() io.Reader {
	if d.Stdin == nil {
		return os.Stdin
	}
	return d.Stdin
}

func containsInt(set []int, n int) bool {
	for _, v := range set {
		if v == n {
			return true
		}
	}
	return false
}

func describeArity(set []int) string {
	if len(set) == 1 && set[0] == 1 {
		return "1 argument"
	}
	parts := make([]string, 0, len(set))
	for _, n := range set {
		parts = append(parts, strconv.Itoa(n))
	}
	return strings.Join(parts, " or ") + " arguments"
}

const noTrackSelected = "no track currently selected\n"

func statusCmd(d Dispatcher, s ports.Session, _ []string) ([]string, error) {
	return VerboseStatus(s, d.logger()), nil
}

func identityCmd(_ Dispatcher, s ports.Session, _ []string) ([]string, error) {
	id, err := s.Identity()
	if err != nil {
		return nil, WrapError(ExitFailure, "identity", err)
	}
	return []string{id + "\n"}, nil
}

func quitCmd(_ Dispatcher, s ports.Session, _ []string) ([]string, error) {
	return nil, wrapRemote("quit", s.Quit())
}

func playCmd(_ Dispatcher, s ports.Session, _ []string) ([]string, error) {
	return nil, wrapRemote("play", s.Play())
}

func pauseCmd(_ Dispatcher, s ports.Session, _ []string) ([]string, error) {
	return nil, wrapRemote("pause", s.Pause())
}

func stopCmd(_ Dispatcher, s ports.Session, _ []string) ([]string, error) {
	return nil, wrapRemote("stop", s.Stop())
}

func nextCmd(_ Dispatcher, s ports.Session, _ []string) ([]string, error) {
	return nil, wrapRemote("next", s.Next())
}

func prevCmd(_ Dispatcher, s ports.Session, _ []string) ([]string, error) {
	return nil, wrapRemote("prev", s.Prev())
}

func volumeCmd(_ Dispatcher, s ports.Session, args []string) ([]string, error) {
	if len(args) == 0 {
		pct, err := s.VolumeGet()
		if err != nil {
			return nil, WrapError(ExitFailure, "volume", err)
		}
		return []string{strconv.Itoa(pct) + "\n"}, nil
	}
	pct, _ := strconv.Atoi(args[0])
	return nil, wrapRemote("volume", s.VolumeSet(pct))
}

func seekCmd(_ Dispatcher, s ports.Session, args []string) ([]string, error) {
	offset, _ := strconv.ParseInt(args[0], 10, 64)
	return nil, wrapRemote("seek", s.Seek(offset))
}

func positionCmd(_ Dispatcher, s ports.Session, _ []string) ([]string, error) {
	ms, err := s.PositionMS()
	if err != nil {
		return nil, WrapError(ExitFailure, "position", err)
	}
	return []string{FormatTime(ms) + "\n"}, nil
}

func loopCmd(_ Dispatcher, s ports.Session, args []string) ([]string, error) {
	return loopFlag(s, args, "Playlist")
}

func repeatCmd(_ Dispatcher, s ports.Session, args []string) ([]string, error) {
	return loopFlag(s, args, "Track")
}

// loopFlag maps the boolean loop/repeat commands onto the three-valued
// LoopStatus property: loop <-> "Playlist", repeat <-> "Track".
func loopFlag(s ports.Session, args []string, mode string) ([]string, error) {
	if len(args) == 0 {
		status, err := s.LoopStatus()
		if err != nil {
			return nil, WrapError(ExitFailure, "loop status", err)
		}
		return []string{formatBool(status == mode)}, nil
	}
	target := "None"
	if args[0] == "true" {
		target = mode
	}
	return nil, wrapRemote("loop status", s.SetLoopStatus(target))
}

func shuffleCmd(_ Dispatcher, s ports.Session, args []string) ([]string, error) {
	if len(args) == 0 {
		on, err := s.ShuffleGet()
		if err != nil {
			return nil, WrapError(ExitFailure, "shuffle", err)
		}
		return []string{formatBool(on)}, nil
	}
	return nil, wrapRemote("shuffle", s.ShuffleSet(args[0] == "true"))
}

func trackinfoCmd(d Dispatcher, s ports.Session, args []string) ([]string, error) {
	if len(args) == 0 {
		md, err := s.Metadata()
		if err != nil || len(md) == 0 {
			return []string{noTrackSelected}, nil
		}
		return FormatMetadata(md), nil
	}

	if args[0] == "*" {
		var chunks []string
		for i := 0; i < s.TrackCount(); i++ {
			md, err := s.TrackMetadata(i)
			if err != nil || len(md) == 0 {
				// One bad track never fails the whole listing.
				d.logger().Debug("track metadata unavailable", zap.Int("track", i), zap.Error(err))
				continue
			}
			if len(chunks) > 0 {
				chunks = append(chunks, "\n")
			}
			chunks = append(chunks, FormatMetadata(md)...)
		}
		return chunks, nil
	}

	index, _ := strconv.Atoi(args[0])
	md, err := s.TrackMetadata(index)
	if err != nil {
		return nil, WrapError(ExitFailure, fmt.Sprintf("trackinfo %d", index), err)
	}
	return FormatMetadata(md), nil
}

func tracknumCmd(_ Dispatcher, s ports.Session, _ []string) ([]string, error) {
	index, err := s.CurrentTrack()
	if err != nil {
		return []string{noTrackSelected}, nil
	}
	return []string{strconv.Itoa(index) + "\n"}, nil
}

func numtracksCmd(_ Dispatcher, s ports.Session, _ []string) ([]string, error) {
	return []string{strconv.Itoa(s.TrackCount()) + "\n"}, nil
}

func addtrackCmd(d Dispatcher, s ports.Session, args []string) ([]string, error) {
	playNow := len(args) == 2 && args[1] == "true"
	if args[0] != "-" {
		return nil, addOneTrack(s, args[0], playNow)
	}

	scanner := bufio.NewScanner(d.stdin())
	queued := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !pathExists(line) {
			return nil, Failf("addtrack: %q is not an existing file or directory", line)
		}
		// With playnow, only the first queued entry starts playing; the
		// rest are appended quietly behind it.
		if err := addOneTrack(s, line, playNow && queued == 0); err != nil {
			return nil, err
		}
		queued++
	}
	if err := scanner.Err(); err != nil {
		return nil, WrapError(ExitFailure, "addtrack: read stdin", err)
	}
	return nil, nil
}

func addOneTrack(s ports.Session, uri string, playNow bool) error {
	if err := s.AddTrack(uri, playNow); err != nil {
		return WrapError(ExitFailure, fmt.Sprintf("addtrack %s", uri), err)
	}
	return nil
}

func deltrackCmd(_ Dispatcher, s ports.Session, args []string) ([]string, error) {
	index, _ := strconv.Atoi(args[0])
	if err := s.DelTrack(index); err != nil {
		return nil, WrapError(ExitFailure, fmt.Sprintf("deltrack %d", index), err)
	}
	return nil, nil
}

// clearCmd stops playback and drains the track list head-first, one
// removal per round trip, for remotes without bulk removal.
func clearCmd(_ Dispatcher, s ports.Session, _ []string) ([]string, error) {
	if err := s.Stop(); err != nil {
		return nil, WrapError(ExitFailure, "clear: stop", err)
	}
	for count := s.TrackCount(); count > 0; count = s.TrackCount() {
		if err := s.DelTrack(0); err != nil {
			return nil, WrapError(ExitFailure, "clear: remove track", err)
		}
		if err := s.RefreshTracks(); err != nil {
			return nil, WrapError(ExitFailure, "clear: refresh track list", err)
		}
		if s.TrackCount() >= count {
			return nil, Failf("clear: player did not remove the track, giving up")
		}
	}
	return nil, nil
}

func wrapRemote(op string, err error) error {
	if err != nil {
		return WrapError(ExitFailure, op, err)
	}
	return nil
}

func formatBool(v bool) string {
	if v {
		return "true\n"
	}
	return "false\n"
}
