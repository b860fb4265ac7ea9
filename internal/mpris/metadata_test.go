package mpris

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestDecodeMetadataFlattens(t *testing.T) {
	raw := map[string]dbus.Variant{
		"xesam:title":  dbus.MakeVariant("Hands"),
		"xesam:artist": dbus.MakeVariant([]string{"Ms. John Soda"}),
		"mpris:length": dbus.MakeVariant(int64(185000000)),
		"mpris:trackid": dbus.MakeVariant(
			dbus.ObjectPath("/org/mpris/MediaPlayer2/Track/1")),
	}
	md, ok := decodeMetadata(raw)
	if !ok {
		t.Fatalf("expected decode to succeed")
	}
	if md["xesam:title"] != "Hands" {
		t.Fatalf("unexpected title %v", md["xesam:title"])
	}
	if md["mpris:trackid"] != "/org/mpris/MediaPlayer2/Track/1" {
		t.Fatalf("object path should flatten to a string, got %T", md["mpris:trackid"])
	}
}

func TestDecodeMetadataRejectsNonMaps(t *testing.T) {
	for _, value := range []any{nil, "x", int32(3), []string{"a"}} {
		if _, ok := decodeMetadata(value); ok {
			t.Fatalf("%T should not decode as metadata", value)
		}
	}
}

func TestToTrackListShapes(t *testing.T) {
	paths, ok := toTrackList([]string{"/a", "/b"})
	if !ok || len(paths) != 2 || paths[0] != "/a" {
		t.Fatalf("string list should convert, got %v", paths)
	}
	if _, ok := toTrackList("nope"); ok {
		t.Fatalf("scalar should not convert")
	}
	if _, ok := toTrackList([]any{1, 2}); ok {
		t.Fatalf("numeric list should not convert")
	}
}

func TestToInt64Widths(t *testing.T) {
	tests := []struct {
		value any
		want  int64
	}{
		{int32(7), 7},
		{uint32(7), 7},
		{int64(7), 7},
		{uint64(7), 7},
		{float64(7.9), 7},
		{byte(7), 7},
	}
	for _, test := range tests {
		got, ok := toInt64(test.value)
		if !ok || got != test.want {
			t.Fatalf("toInt64(%T) = %d/%v", test.value, got, ok)
		}
	}
	if _, ok := toInt64("7"); ok {
		t.Fatalf("strings are not numeric on the wire")
	}
}
