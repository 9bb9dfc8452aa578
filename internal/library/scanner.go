// Package library builds the playlist from the music directory.
package library

import (
	"cmp"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"

	"github.com/llehouerou/ripple/internal/playback"
	"github.com/llehouerou/ripple/internal/player"
)

const numWorkers = 8

// Scan walks dir for files player.Supported accepts and returns them as tracks
// sorted by file name. Names come from the title tag (with the artist when
// tagged), falling back to the file stem. A duration that cannot be read
// is recorded as zero. A missing dir yields an empty playlist.
func Scan(dir string, logger *slog.Logger) ([]playback.Track, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	files, err := discoverFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Info("no tracks found", "dir", dir)
		return []playback.Track{}, nil
	}

	tracks := make([]playback.Track, len(files))
	workCh := make(chan int)

	var wg sync.WaitGroup
	for range min(numWorkers, len(files)) {
		wg.Go(func() {
			for i := range workCh {
				tracks[i] = readTrack(files[i], logger)
			}
		})
	}
	for i := range files {
		workCh <- i
	}
	close(workCh)
	wg.Wait()

	slices.SortStableFunc(tracks, func(a, b playback.Track) int {
		return cmp.Or(
			cmp.Compare(filepath.Base(a.Path), filepath.Base(b.Path)),
			cmp.Compare(a.Path, b.Path),
		)
	})
	logger.Info("library scanned", "dir", dir, "tracks", len(tracks))
	return tracks, nil
}

func readTrack(path string, logger *slog.Logger) playback.Track {
	t := playback.Track{Path: path, Name: player.Stem(path)}

	if info, err := player.ReadTrackInfo(path); err == nil {
		t.Name = info.DisplayName()
	} else {
		logger.Debug("no tags", "path", path, "err", err)
	}

	d, err := player.ReadDuration(path)
	if err != nil {
		logger.Warn("read duration", "path", path, "err", err)
	}
	t.Duration = d
	return t
}
