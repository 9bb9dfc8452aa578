package player

import (
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/llehouerou/ripple/internal/playback"
)

// Sink is the output device. The device pulls from the streamer given to
// Play on its own goroutine while holding the lock that Lock takes, so
// anything the streamer reads may be changed between Lock and Unlock.
type Sink interface {
	Init(rate beep.SampleRate, buffer time.Duration) error
	Play(s beep.Streamer)
	Lock()
	Unlock()
	Close()
}

// SpeakerSink returns the system output device.
func SpeakerSink() Sink { return speakerSink{} }

type speakerSink struct{}

func (speakerSink) Init(rate beep.SampleRate, buffer time.Duration) error {
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return fmt.Errorf("%w: %w", playback.ErrDevice, err)
	}
	return nil
}

func (speakerSink) Play(s beep.Streamer) { speaker.Play(s) }

func (speakerSink) Lock() { speaker.Lock() }

func (speakerSink) Unlock() { speaker.Unlock() }

func (speakerSink) Close() {
	speaker.Clear()
	speaker.Close()
}
