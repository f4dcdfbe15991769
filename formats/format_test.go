// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"errors"
	"testing"
)

func TestFormat_Metadata(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format Format
		mime   string
		ext    string
		name   string
	}{
		{WAV, "audio/wav", "wav", "WAV"},
		{MP3, "audio/mpeg", "mp3", "MP3"},
	}

	for _, tt := range tests {
		if tt.format.MIME() != tt.mime {
			t.Errorf("%s.MIME() = %q, want %q", tt.format, tt.format.MIME(), tt.mime)
		}
		if tt.format.Ext() != tt.ext {
			t.Errorf("%s.Ext() = %q, want %q", tt.format, tt.format.Ext(), tt.ext)
		}
		if tt.format.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.format.String(), tt.name)
		}
		if !tt.format.Valid() {
			t.Errorf("%s.Valid() = false", tt.format)
		}
	}

	if Format("flac").Valid() {
		t.Error("flac reported as valid")
	}

	if Format("flac").MIME() != "application/octet-stream" {
		t.Error("unknown format should fall back to octet-stream")
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"wav", WAV, false},
		{".WAV", WAV, false},
		{"audio/x-wav", WAV, false},
		{" mp3 ", MP3, false},
		{"audio/mpeg", MP3, false},
		{"ogg", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Errorf("Parse(%q) error = %v, want ErrUnknownFormat", tt.in, err)
			}
			continue
		}

		if err != nil || got != tt.want {
			t.Errorf("Parse(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
	}
}
