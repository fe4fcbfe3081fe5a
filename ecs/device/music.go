package device

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/heavypockets/assets"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/levels"
	"github.com/sirupsen/logrus"
)

// MusicConfig names the two tracks. The intro plays once, then the loop
// repeats for the rest of the run.
type MusicConfig struct {
	IntroPath string
	LoopPath  string
	Volume    float64
}

// MusicSystem plays the background track of one world and resumes where the
// previous world stopped, using the position saved in the session.
type MusicSystem struct {
	session     *levels.Session
	log         logrus.FieldLogger
	intro       *audio.Player
	loop        *audio.Player
	loopPlaying bool
	started     bool
}

func NewMusicSystem(cfg MusicConfig, session *levels.Session, log logrus.FieldLogger) *MusicSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	m := &MusicSystem{session: session, log: log.WithField("system", "music")}
	if cfg.LoopPath == "" {
		m.log.Debug("no loop track, music disabled")
		return m
	}

	volume := cfg.Volume
	if volume < 0 {
		volume = 0
	}
	if volume > 1 {
		volume = 1
	}

	loop, err := assets.LoadAudioPlayer(cfg.LoopPath, true)
	if err != nil {
		m.log.WithError(err).WithField("path", cfg.LoopPath).Warn("load loop track, music disabled")
		return m
	}
	loop.SetVolume(volume)
	m.loop = loop

	if cfg.IntroPath != "" {
		intro, err := assets.LoadAudioPlayer(cfg.IntroPath, false)
		if err != nil {
			m.log.WithError(err).WithField("path", cfg.IntroPath).Warn("load intro track, starting on the loop")
		} else {
			intro.SetVolume(volume)
			m.intro = intro
		}
	}
	return m
}

func (m *MusicSystem) Update(_ *ecs.World) {
	if m == nil || m.loop == nil {
		return
	}
	if !m.started {
		m.start()
		return
	}
	if !m.loopPlaying && (m.intro == nil || !m.intro.IsPlaying()) {
		m.playLoop(0)
	}
}

func (m *MusicSystem) start() {
	m.started = true
	state := levels.MusicState{}
	if m.session != nil {
		state = m.session.Music
	}
	if (state.Saved && state.LoopPlaying) || m.intro == nil {
		m.playLoop(state.Position)
		return
	}
	if state.Saved {
		if err := m.intro.SetPosition(state.Position); err != nil {
			m.log.WithError(err).Warn("resume intro")
		}
	}
	m.intro.Play()
}

func (m *MusicSystem) playLoop(pos time.Duration) {
	if pos > 0 {
		if err := m.loop.SetPosition(pos); err != nil {
			m.log.WithError(err).Warn("resume loop")
		}
	}
	m.loop.Play()
	m.loopPlaying = true
}

// Save records the playback position in the session so the next world picks
// the music up from here.
func (m *MusicSystem) Save() {
	if m == nil || m.session == nil || m.loop == nil {
		return
	}
	if m.loopPlaying {
		m.session.SaveMusic(m.loop.Position(), true)
		return
	}
	if m.intro != nil {
		m.session.SaveMusic(m.intro.Position(), false)
	}
}

// Close stops and releases both players.
func (m *MusicSystem) Close() {
	if m == nil {
		return
	}
	for _, p := range []*audio.Player{m.intro, m.loop} {
		if p == nil {
			continue
		}
		p.Pause()
		if err := p.Close(); err != nil {
			m.log.WithError(err).Debug("close player")
		}
	}
	m.intro, m.loop = nil, nil
}
