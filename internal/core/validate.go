package core

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mikey-austin/mpris_remote/internal/ports"
)

// Validator checks one raw argument against a constraint. Describe
// explains the accepted shape and may depend on live session state,
// e.g. the current track-list length.
type Validator struct {
	Check    func(s ports.Session, arg string) bool
	Describe func(s ports.Session) string
}

var schemeRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

func validInteger() Validator {
	return Validator{
		Check: func(_ ports.Session, arg string) bool {
			_, err := strconv.ParseInt(arg, 10, 64)
			return err == nil
		},
		Describe: func(_ ports.Session) string { return "an integer" },
	}
}

func validBoolean() Validator {
	return Validator{
		Check: func(_ ports.Session, arg string) bool {
			return arg == "true" || arg == "false"
		},
		Describe: func(_ ports.Session) string { return `"true" or "false"` },
	}
}

func validZeroTo100() Validator {
	return Validator{
		Check: func(_ ports.Session, arg string) bool {
			n, err := strconv.ParseInt(arg, 10, 64)
			return err == nil && n >= 0 && n <= 100
		},
		Describe: func(_ ports.Session) string { return "an integer within [0..100]" },
	}
}

// validTrackIndex accepts any integer when the track list is empty or
// unknown: an unobservable list cannot be validated against, so the
// remote gets the final say.
func validTrackIndex() Validator {
	return Validator{
		Check: func(s ports.Session, arg string) bool {
			n, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return false
			}
			count := s.TrackCount()
			if count == 0 {
				return n >= 0
			}
			return n >= 0 && n < int64(count)
		},
		Describe: describeTrackIndex,
	}
}

func describeTrackIndex(s ports.Session) string {
	if count := s.TrackCount(); count > 0 {
		return fmt.Sprintf("a track number (0..%d)", count-1)
	}
	return "a track number"
}

func validTrackIndexOrAll() Validator {
	index := validTrackIndex()
	return Validator{
		Check: func(s ports.Session, arg string) bool {
			return arg == "*" || index.Check(s, arg)
		},
		Describe: func(s ports.Session) string {
			return fmt.Sprintf(`"*" or %s`, describeTrackIndex(s))
		},
	}
}

// validURIOrPath accepts scheme://... forms, the literal "-" meaning
// "read paths from standard input", or an existing file or directory
// path after percent-decoding a file:// prefix.
func validURIOrPath() Validator {
	return Validator{
		Check: func(_ ports.Session, arg string) bool {
			if arg == "-" {
				return true
			}
			if schemeRe.MatchString(arg) && !strings.HasPrefix(arg, "file://") {
				return true
			}
			return pathExists(arg)
		},
		Describe: func(_ ports.Session) string {
			return `a URI, an existing file or directory, or "-" to read paths from stdin`
		},
	}
}

func pathExists(arg string) bool {
	path := strings.TrimPrefix(arg, "file://")
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	_, err := os.Stat(path)
	return err == nil
}
