package core

import (
	"strings"
	"testing"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "0:00.000"},
		{61234, "1:01.234"},
		{999, "0:00.999"},
		{185000, "3:05.000"},
		{3600000, "60:00.000"},
	}
	for _, test := range tests {
		if got := FormatTime(test.ms); got != test.want {
			t.Fatalf("FormatTime(%d) = %q, expected %q", test.ms, got, test.want)
		}
	}
}

func TestFormatMetadataTimeField(t *testing.T) {
	lines := FormatMetadata(map[string]any{"time": "125"})
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", lines)
	}
	if !strings.Contains(lines[0], "125") || !strings.Contains(lines[0], "2:05") {
		t.Fatalf("time line should carry raw and rendered forms, got %q", lines[0])
	}
}

func TestFormatMetadataMtimeField(t *testing.T) {
	lines := FormatMetadata(map[string]any{"mtime": int64(185040)})
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %q", lines)
	}
	if !strings.Contains(lines[0], "185040") || !strings.Contains(lines[0], "3:05.040") {
		t.Fatalf("mtime line should carry raw and rendered forms, got %q", lines[0])
	}
}

func TestFormatMetadataBitrate(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{int32(128000), "audio-bitrate: 128\n"},
		{int32(128500), "audio-bitrate: 128.500\n"},
		{128001, "audio-bitrate: 128\n"}, // remainder below the 0.01 threshold
	}
	for _, test := range tests {
		lines := FormatMetadata(map[string]any{"audio-bitrate": test.value})
		if len(lines) != 1 || lines[0] != test.want {
			t.Fatalf("bitrate %v: expected %q, got %q", test.value, test.want, lines)
		}
	}
}

func TestFormatMetadataSortedKeys(t *testing.T) {
	lines := FormatMetadata(map[string]any{
		"title":  "Bar",
		"artist": "Foo",
		"genre":  "Ambient",
	})
	want := []string{"artist: Foo\n", "genre: Ambient\n", "title: Bar\n"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %q", len(want), lines)
	}
	for i, line := range want {
		if lines[i] != line {
			t.Fatalf("line %d: expected %q, got %q", i, line, lines[i])
		}
	}
}

func TestFormatMetadataListValues(t *testing.T) {
	lines := FormatMetadata(map[string]any{"artist": []string{"One", "Two"}})
	if len(lines) != 1 || lines[0] != "artist: One, Two\n" {
		t.Fatalf("unexpected rendering %q", lines)
	}
}

func TestFormatMetadataMalformedSpecialFields(t *testing.T) {
	// A player that stuffs garbage into the unit-aware fields still gets
	// a plain rendering rather than an error.
	lines := FormatMetadata(map[string]any{"time": "soon", "mtime": []string{"x"}})
	joined := strings.Join(lines, "")
	if !strings.Contains(joined, "time: soon") {
		t.Fatalf("expected raw fallback, got %q", joined)
	}
}
