// Command ripplescan lists what the player would load from a music
// directory: display name, duration and path, in playlist order.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/llehouerou/ripple/internal/config"
	"github.com/llehouerou/ripple/internal/library"
)

func main() {
	dir := ""
	if len(os.Args) > 1 {
		dir = os.Args[1]
	} else {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		dir = cfg.MusicDir
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	start := time.Now()
	tracks, err := library.Scan(dir, logger)
	if err != nil {
		log.Fatalf("Failed to scan %s: %v", dir, err)
	}

	var total time.Duration
	unknown := 0
	for i, t := range tracks {
		d := "--:--"
		if t.Duration > 0 {
			d = fmt.Sprintf("%d:%02d", int(t.Duration.Minutes()), int(t.Duration.Seconds())%60)
			total += t.Duration
		} else {
			unknown++
		}
		fmt.Printf("%4d  %6s  %s\n      %s\n", i, d, t.Name, t.Path)
	}
	log.Printf("%d tracks (%d with unknown duration), %s total, scanned in %s",
		len(tracks), unknown, total.Round(time.Second), time.Since(start).Round(time.Millisecond))
}
