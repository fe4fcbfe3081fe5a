package assets

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

const SampleRate = 44100

var (
	contextOnce  sync.Once
	audioContext *audio.Context
)

// AudioContext returns the process-wide audio context. ebiten allows only one.
func AudioContext() *audio.Context {
	contextOnce.Do(func() {
		audioContext = audio.NewContext(SampleRate)
	})
	return audioContext
}

type stream interface {
	io.ReadSeeker
	Length() int64
}

// LoadAudioPlayer decodes a .wav or .ogg file from disk. With loop set the
// stream restarts forever.
func LoadAudioPlayer(path string, loop bool) (*audio.Player, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ctx := AudioContext()
	reader := bytes.NewReader(b)

	var s stream
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		s, err = wav.DecodeWithSampleRate(ctx.SampleRate(), reader)
	case ".ogg":
		s, err = vorbis.DecodeWithSampleRate(ctx.SampleRate(), reader)
	default:
		return nil, fmt.Errorf("decode %q: unsupported audio format", path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}

	if loop {
		return ctx.NewPlayer(audio.NewInfiniteLoop(s, s.Length()))
	}
	return ctx.NewPlayer(s)
}
