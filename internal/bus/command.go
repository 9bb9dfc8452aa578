package bus

import (
	"fmt"
	"time"

	"github.com/llehouerou/ripple/internal/equalizer"
)

// Kind identifies a control-surface command.
type Kind int

const (
	KindPlay Kind = iota
	KindTogglePause
	KindNext
	KindPrevious
	KindSeek
	KindSetVolume
	KindSetRepeat
	KindSetBandGain
	KindStop
)

// String returns the command name.
func (k Kind) String() string {
	switch k {
	case KindPlay:
		return "Play"
	case KindTogglePause:
		return "TogglePause"
	case KindNext:
		return "Next"
	case KindPrevious:
		return "Previous"
	case KindSeek:
		return "Seek"
	case KindSetVolume:
		return "SetVolume"
	case KindSetRepeat:
		return "SetRepeat"
	case KindSetBandGain:
		return "SetBandGain"
	case KindStop:
		return "Stop"
	default:
		return "Unknown"
	}
}

// Command is a value sent from the control surface. Only the fields relevant
// to Kind are set.
type Command struct {
	Kind  Kind
	Index int            // Play
	Delta time.Duration  // Seek
	Band  equalizer.Band // SetBandGain
	Value int            // SetVolume percent, SetBandGain dB
}

func (c Command) String() string {
	switch c.Kind {
	case KindPlay:
		return fmt.Sprintf("Play(%d)", c.Index)
	case KindSeek:
		return fmt.Sprintf("Seek(%s)", c.Delta)
	case KindSetVolume:
		return fmt.Sprintf("SetVolume(%d)", c.Value)
	case KindSetBandGain:
		return fmt.Sprintf("SetBandGain(%s, %d)", c.Band, c.Value)
	default:
		return c.Kind.String()
	}
}

// IsTransport reports whether the command goes through the queue to the
// transport controller rather than straight to a parameter field.
func (c Command) IsTransport() bool {
	return c.Kind != KindSetVolume && c.Kind != KindSetBandGain
}

func Play(index int) Command { return Command{Kind: KindPlay, Index: index} }

func TogglePause() Command { return Command{Kind: KindTogglePause} }

func Next() Command { return Command{Kind: KindNext} }

func Previous() Command { return Command{Kind: KindPrevious} }

func Seek(delta time.Duration) Command { return Command{Kind: KindSeek, Delta: delta} }

func SetVolume(percent int) Command { return Command{Kind: KindSetVolume, Value: percent} }

func SetRepeat() Command { return Command{Kind: KindSetRepeat} }

func SetBandGain(b equalizer.Band, db int) Command {
	return Command{Kind: KindSetBandGain, Band: b, Value: db}
}

func Stop() Command { return Command{Kind: KindStop} }
