package player

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dhowden/tag"
)

// TrackInfo is the tag metadata used for display.
type TrackInfo struct {
	Path   string
	Title  string
	Artist string
	Album  string
}

// DisplayName returns "Artist - Title", or just the title without an artist.
func (i TrackInfo) DisplayName() string {
	if i.Artist == "" {
		return i.Title
	}
	return i.Artist + " - " + i.Title
}

// ReadTrackInfo reads the tags of the file at path. An empty title falls
// back to the file stem.
func ReadTrackInfo(path string) (*TrackInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(m.Title())
	if title == "" {
		title = Stem(path)
	}
	return &TrackInfo{
		Path:   path,
		Title:  title,
		Artist: strings.TrimSpace(m.Artist()),
		Album:  strings.TrimSpace(m.Album()),
	}, nil
}

// ReadDuration decodes just enough of the file to report its length.
// Zero means the decoder does not know it.
func ReadDuration(path string) (time.Duration, error) {
	s, format, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer s.Close()
	return format.SampleRate.D(s.Len()), nil
}

// Stem returns the file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
