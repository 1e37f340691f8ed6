package game

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/orbit-visualization/internal/logging"
)

const levelRingSize = 2048

var ErrUnsupportedAudio = errors.New("unsupported audio file type")

// soundtrack loops one audio file and pauses together with the animation.
type soundtrack struct {
	log *logging.Logger

	currentFile *os.File
	streamer    beep.StreamSeekCloser
	format      beep.Format
	ctrl        *beep.Ctrl
	tap         *levelTap
	initDone    bool
}

func newSoundtrack(log *logging.Logger) *soundtrack {
	return &soundtrack{log: log}
}

func (s *soundtrack) loaded() bool { return s.ctrl != nil }

// openDialog asks for a file and loads it. Cancelling the dialog is not an error.
func (s *soundtrack) openDialog(paused bool) error {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Soundtrack"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return nil
		}
		return err
	}
	return s.load(filename, paused)
}

func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	default:
		return nil, beep.Format{}, logging.WrapError(ErrUnsupportedAudio, "%q", ext)
	}
}

// load replaces the current soundtrack with path, looping forever.
func (s *soundtrack) load(path string, paused bool) error {
	f, err := os.Open(path)
	if err != nil {
		return logging.WrapError(err, "open soundtrack")
	}

	streamer, format, err := decode(path, f)
	if err != nil {
		_ = f.Close()
		return err
	}

	t := newLevelTap(beep.Loop(-1, streamer), levelRingSize)
	ctrl := &beep.Ctrl{Streamer: t, Paused: paused}

	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !s.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return logging.WrapError(err, "init speaker")
		}
		s.initDone = true
	case s.format.SampleRate != format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return logging.WrapError(err, "reinit speaker")
		}
	default:
		speaker.Clear()
	}

	s.closeCurrent()
	s.currentFile = f
	s.streamer = streamer
	s.format = format
	s.ctrl = ctrl
	s.tap = t

	speaker.Play(ctrl)
	s.log.Info("soundtrack loaded", "path", path, "sample_rate", int(format.SampleRate), "paused", paused)
	return nil
}

func (s *soundtrack) setPaused(paused bool) {
	if s.ctrl == nil {
		return
	}
	speaker.Lock()
	s.ctrl.Paused = paused
	speaker.Unlock()
}

func (s *soundtrack) level() float64 {
	if s.tap == nil || s.ctrl == nil {
		return 0
	}
	return s.tap.level()
}

func (s *soundtrack) closeCurrent() {
	if s.streamer != nil {
		_ = s.streamer.Close()
		s.streamer = nil
	}
	if s.currentFile != nil {
		_ = s.currentFile.Close()
		s.currentFile = nil
	}
}

// close stops playback and releases the file.
func (s *soundtrack) close() {
	if s.initDone {
		speaker.Clear()
	}
	s.closeCurrent()
	s.ctrl = nil
	s.tap = nil
}
