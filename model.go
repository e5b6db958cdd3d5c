package main

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type Screen int

const (
	screenMenu Screen = iota
	screenGame
	screenThemes
	screenScores
	screenConfig
	screenNameEntry
)

type tickMsg struct {
	at time.Time
}
type soundMsg struct{}
type scoresLoadedMsg struct {
	scores []ScoreEntry
	err    error
}

type scoreUploadedMsg struct {
	err error
}

type syncTickMsg struct{}
type countdownTickMsg struct{}

const (
	tickInterval       = 33 * time.Millisecond
	maxTickDelta       = 250 * time.Millisecond
	clearFlashDuration = 180 * time.Millisecond
)

// clearFlash highlights the cells of the latest clear while its tween runs
// down from 1 to 0.
type clearFlash struct {
	marks []bool
	tween *gween.Tween
	level float32
}

func (f *clearFlash) start(marks []bool) {
	f.marks = append([]bool{}, marks...)
	f.tween = gween.New(1, 0, float32(clearFlashDuration.Seconds()), ease.OutQuad)
	f.level = 1
}

func (f *clearFlash) advance(dt time.Duration) {
	if f.tween == nil {
		return
	}
	value, done := f.tween.Update(float32(dt.Seconds()))
	f.level = value
	if done {
		f.marks = nil
		f.tween = nil
		f.level = 0
	}
}

func (f *clearFlash) active() bool {
	return f.tween != nil
}

type Model struct {
	screen       Screen
	width        int
	height       int
	menuIndex    int
	configIndex  int
	themeIndex   int
	scoresOffset int
	config       Config
	scores       []ScoreEntry
	session      *Session
	playerCount  int
	seed         int64
	nameInput    string
	sound        *SoundEngine
	music        *MusicPlayer
	sync         *ScoreSync
	syncWarning  string
	syncLoading  bool
	syncDots     int
	lastTick     time.Time
	startCount   int
	flashes      []clearFlash
	prevIncoming []int
}

func NewModel(seed int64) Model {
	config, _ := loadConfig()
	index := themeIndexByName(config.Theme)
	if index < 0 {
		index = 0
		config.Theme = themes[index].Name
	}
	sync := NewScoreSyncFromEnv(config.Sync)
	scores := []ScoreEntry{}
	if sync == nil || !sync.Enabled() {
		scores, _ = loadScores()
	}
	ctx, sampleRate, err := initAudioContext()
	if err != nil {
		DebugLogf("audio context init error: %v", err)
	}
	sound := NewSoundEngine(ctx, sampleRate, config.Sound)
	sound.SetVolume(volumeFromPercent(config.Volume))
	return Model{
		screen:      screenMenu,
		config:      config,
		scores:      scores,
		themeIndex:  index,
		playerCount: 1,
		seed:        seed,
		sound:       sound,
		sync:        sync,
		music:       NewMusicPlayer(ctx, volumeFromPercent(config.Volume), config.Music),
	}
}

func (m Model) Init() tea.Cmd {
	return m.syncMusicForScreen()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		if m.screen != screenGame || m.session == nil {
			return m, nil
		}
		dt := msg.at.Sub(m.lastTick)
		m.lastTick = msg.at
		if dt < 0 {
			dt = 0
		}
		if dt > maxTickDelta {
			dt = maxTickDelta
		}
		var cmds []tea.Cmd
		if m.startCount == 0 {
			wasOver := m.session.Over
			m.session.Tick(dt)
			for i := range m.flashes {
				m.flashes[i].advance(dt)
			}
			cmds = append(cmds, m.reactToTick()...)
			if m.session.Over && !wasOver {
				if m.config.Sound {
					cmds = append(cmds, playSound(m.sound, SoundGameOver))
				}
				if m.playerCount == 1 {
					m.nameInput = ""
					cmds = append(cmds, m.setScreen(screenNameEntry))
					return m, tea.Batch(cmds...)
				}
			}
		}
		cmds = append(cmds, tickCmd())
		return m, tea.Batch(cmds...)
	case soundMsg:
		return m, nil
	case syncTickMsg:
		if m.syncLoading {
			m.syncDots = (m.syncDots + 1) % 4
			return m, syncTickCmd()
		}
		return m, nil
	case countdownTickMsg:
		if m.screen != screenGame || m.session == nil {
			return m, nil
		}
		if m.startCount <= 0 {
			return m, nil
		}
		m.startCount--
		if m.startCount > 0 {
			return m, countdownTickCmd()
		}
		m.lastTick = time.Now()
		if m.config.Sound {
			return m, tea.Batch(playSound(m.sound, SoundMenuSelect), tickCmd())
		}
		return m, tickCmd()
	case scoresLoadedMsg:
		if msg.err != nil {
			DebugLogf("scores fetch error: %v", msg.err)
			m.syncWarning = "Offline: scores not synced."
			m.syncLoading = false
			return m, nil
		}
		if m.sync == nil || !m.sync.Enabled() {
			m.syncWarning = "Score sync is disabled."
		} else {
			m.syncWarning = ""
		}
		m.scores = msg.scores
		m.syncLoading = false
		return m, nil
	case scoreUploadedMsg:
		if msg.err != nil {
			DebugLogf("score upload error: %v", msg.err)
			m.syncWarning = "Offline: scores not synced."
			m.syncLoading = false
			return m, nil
		}
		m.syncWarning = ""
		m.syncLoading = false
		return m, nil
	case tea.KeyMsg:
		switch m.screen {
		case screenMenu:
			return m, m.updateMenu(msg)
		case screenGame:
			return m, m.updateGame(msg)
		case screenThemes:
			return m, m.updateThemes(msg)
		case screenScores:
			return m, m.updateScores(msg)
		case screenConfig:
			return m, m.updateConfig(msg)
		case screenNameEntry:
			return m, m.updateNameEntry(msg)
		}
	}
	return m, nil
}

func (m Model) View() string {
	switch m.screen {
	case screenMenu:
		return viewMenu(m)
	case screenGame:
		return viewGame(m)
	case screenThemes:
		return viewThemes(m)
	case screenScores:
		return viewScores(m)
	case screenConfig:
		return viewConfig(m)
	case screenNameEntry:
		return viewNameEntry(m)
	default:
		return ""
	}
}

// reactToTick turns the edge flags the session raised this tick into flashes
// and sounds.
func (m *Model) reactToTick() []tea.Cmd {
	var cmds []tea.Cmd
	for i, p := range m.session.Players {
		if p.JustCleared {
			if m.config.Animations {
				m.flashes[i].start(p.LastClear.Marks)
			}
			if m.config.Sound {
				if p.Chain.Index > 1 {
					cmds = append(cmds, playChainSound(m.sound, p.Chain.Index))
				} else {
					cmds = append(cmds, playSound(m.sound, SoundClear))
				}
			}
		}
		if p.ChainEnded && m.playerCount == 2 && m.config.Sound {
			cmds = append(cmds, playSound(m.sound, SoundGarbageSend))
		}
		// A drained incoming queue means garbage rows just landed.
		if m.prevIncoming[i] > 0 && p.IncomingGarbage == 0 && !p.Lost && m.config.Sound {
			cmds = append(cmds, playSound(m.sound, SoundGarbageLand))
		}
		m.prevIncoming[i] = p.IncomingGarbage
	}
	return cmds
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg{at: t} })
}

func syncTickCmd() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(time.Time) tea.Msg { return syncTickMsg{} })
}

func countdownTickCmd() tea.Cmd {
	return tea.Tick(380*time.Millisecond, func(time.Time) tea.Msg { return countdownTickMsg{} })
}

func playSound(engine *SoundEngine, event SoundEvent) tea.Cmd {
	return func() tea.Msg {
		if engine != nil {
			engine.Play(event)
		}
		return soundMsg{}
	}
}

func playChainSound(engine *SoundEngine, chainIndex int) tea.Cmd {
	return func() tea.Msg {
		if engine != nil {
			engine.PlayChain(chainIndex)
		}
		return soundMsg{}
	}
}

func (m *Model) startSession(players int) tea.Cmd {
	m.playerCount = players
	m.session = NewSession(players, DefaultRules(), m.seed)
	m.flashes = make([]clearFlash, players)
	m.prevIncoming = make([]int, players)
	m.startCount = 2
	m.lastTick = time.Now()
	return tea.Batch(m.setScreen(screenGame), countdownTickCmd())
}

func (m *Model) adjustVolume(delta int) {
	newVolume := clampVolumePercent(m.config.Volume + delta)
	if newVolume == m.config.Volume {
		return
	}
	m.config.Volume = newVolume
	if m.sound != nil {
		m.sound.SetVolume(volumeFromPercent(newVolume))
	}
	if m.music != nil {
		m.music.SetVolume(volumeFromPercent(newVolume))
	}
	_ = saveConfig(m.config)
}

func volumeFromPercent(value int) float64 {
	return float64(clampVolumePercent(value)) / 100
}

func (m *Model) setScreen(screen Screen) tea.Cmd {
	m.screen = screen
	return m.syncMusicForScreen()
}

func (m *Model) syncMusicForScreen() tea.Cmd {
	if m.music == nil {
		return nil
	}
	if !m.config.Music {
		m.music.Stop()
		return nil
	}
	if m.screen == screenGame {
		m.music.StartGame()
		return nil
	}
	m.music.Stop()
	return nil
}

func (m *Model) updateMenu(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
			if m.config.Sound {
				cmd = playSound(m.sound, SoundMenuMove)
			}
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
			if m.config.Sound {
				cmd = playSound(m.sound, SoundMenuMove)
			}
		}
	case "enter":
		if m.config.Sound {
			cmd = playSound(m.sound, SoundMenuSelect)
		}
		switch m.menuIndex {
		case 0:
			return tea.Batch(cmd, m.startSession(1))
		case 1:
			return tea.Batch(cmd, m.startSession(2))
		case 2:
			return tea.Batch(cmd, m.setScreen(screenThemes))
		case 3:
			m.scoresOffset = 0
			if m.sync != nil && m.sync.Enabled() {
				m.syncLoading = true
				m.syncDots = 0
				return tea.Batch(cmd, m.setScreen(screenScores), m.sync.FetchScoresCmd(), syncTickCmd())
			}
			m.syncWarning = "Score sync is disabled."
			return tea.Batch(cmd, m.setScreen(screenScores))
		case 4:
			return tea.Batch(cmd, m.setScreen(screenConfig))
		case 5:
			return tea.Quit
		}
	case "q", "esc":
		return tea.Quit
	}
	return cmd
}

func (m *Model) updateGame(msg tea.KeyMsg) tea.Cmd {
	if m.session == nil {
		return m.setScreen(screenMenu)
	}
	switch msg.String() {
	case "q", "esc":
		return m.setScreen(screenMenu)
	case "r":
		m.session.Restart()
		m.flashes = make([]clearFlash, m.playerCount)
		m.prevIncoming = make([]int, m.playerCount)
		m.startCount = 2
		return countdownTickCmd()
	case "p":
		if !m.session.Over && m.startCount == 0 {
			m.session.Paused = !m.session.Paused
			if !m.session.Paused {
				m.lastTick = time.Now()
			}
		}
		return nil
	}
	if m.startCount > 0 || m.session.Paused || m.session.Over {
		return nil
	}
	switch m.playerCount {
	case 1:
		return m.playerKey(0, msg.String(), "left", "right", "down", "up", " ", "h", "l", "j", "k")
	case 2:
		if cmd := m.playerKey(0, msg.String(), "a", "d", "s", "w", "x"); cmd != nil {
			return cmd
		}
		return m.playerKey(1, msg.String(), "left", "right", "down", "up", " ")
	}
	return nil
}

// playerKey maps one player's bindings (left, right, down, up, swap, plus
// optional aliases in the same order) onto the core's discrete operations.
func (m *Model) playerKey(player int, key string, binds ...string) tea.Cmd {
	p := m.session.Players[player]
	aliased := func(i int) bool {
		if key == binds[i] {
			return true
		}
		return len(binds) > i+5 && key == binds[i+5]
	}
	switch {
	case aliased(0):
		if p.MoveCursor(-1, 0) && m.config.Sound {
			return playSound(m.sound, SoundMove)
		}
	case aliased(1):
		if p.MoveCursor(1, 0) && m.config.Sound {
			return playSound(m.sound, SoundMove)
		}
	case aliased(2):
		if p.MoveCursor(0, -1) && m.config.Sound {
			return playSound(m.sound, SoundMove)
		}
	case aliased(3):
		if p.MoveCursor(0, 1) && m.config.Sound {
			return playSound(m.sound, SoundMove)
		}
	case aliased(4):
		if p.SwapAtCursor() && m.config.Sound {
			return playSound(m.sound, SoundSwap)
		}
	}
	return nil
}

func (m *Model) updateThemes(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.themeIndex > 0 {
			m.themeIndex--
			if m.config.Sound {
				return playSound(m.sound, SoundMenuMove)
			}
		}
	case "down", "j":
		if m.themeIndex < len(themes)-1 {
			m.themeIndex++
			if m.config.Sound {
				return playSound(m.sound, SoundMenuMove)
			}
		}
	case "enter":
		m.config.Theme = themes[m.themeIndex].Name
		_ = saveConfig(m.config)
		cmd := m.setScreen(screenMenu)
		if m.config.Sound {
			return tea.Batch(cmd, playSound(m.sound, SoundMenuSelect))
		}
		return cmd
	case "q", "esc":
		return m.setScreen(screenMenu)
	}
	return nil
}

func (m *Model) updateScores(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "esc", "enter":
		cmd := m.setScreen(screenMenu)
		if m.config.Sound {
			return tea.Batch(cmd, playSound(m.sound, SoundMenuSelect))
		}
		return cmd
	case "up", "k":
		if m.scoresOffset > 0 {
			m.scoresOffset--
		}
	case "down", "j":
		max := len(m.scores) - scoresPageSize
		if max < 0 {
			max = 0
		}
		if m.scoresOffset < max {
			m.scoresOffset++
		}
	}
	return nil
}

func (m *Model) updateConfig(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.configIndex > 0 {
			m.configIndex--
			if m.config.Sound {
				return playSound(m.sound, SoundMenuMove)
			}
		}
	case "down", "j":
		if m.configIndex < len(configItems)-1 {
			m.configIndex++
			if m.config.Sound {
				return playSound(m.sound, SoundMenuMove)
			}
		}
	case "enter":
		switch m.configIndex {
		case 0:
			m.config.Sound = !m.config.Sound
			if m.sound != nil {
				m.sound.SetEnabled(m.config.Sound)
			}
			_ = saveConfig(m.config)
		case 1:
			m.config.Music = !m.config.Music
			_ = saveConfig(m.config)
			if m.config.Sound {
				return tea.Batch(m.syncMusicForScreen(), playSound(m.sound, SoundMenuSelect))
			}
			return m.syncMusicForScreen()
		case 2:
			m.adjustVolume(5)
		case 3:
			m.config.Animations = !m.config.Animations
			if !m.config.Animations {
				for i := range m.flashes {
					m.flashes[i] = clearFlash{}
				}
			}
			_ = saveConfig(m.config)
		case 4:
			m.config.Sync = !m.config.Sync
			if m.sync != nil {
				m.sync.SetEnabled(m.config.Sync)
			}
			_ = saveConfig(m.config)
		}
		if m.config.Sound {
			return playSound(m.sound, SoundMenuSelect)
		}
	case "left", "h":
		if m.configIndex == 2 {
			m.adjustVolume(-5)
			if m.config.Sound {
				return playSound(m.sound, SoundMenuMove)
			}
		}
	case "right", "l":
		if m.configIndex == 2 {
			m.adjustVolume(5)
			if m.config.Sound {
				return playSound(m.sound, SoundMenuMove)
			}
		}
	case "q", "esc":
		return m.setScreen(screenMenu)
	}
	return nil
}

func (m *Model) updateNameEntry(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		name := strings.TrimSpace(m.nameInput)
		if name == "" {
			name = "AAA"
		}
		p := m.session.Players[0]
		entry := ScoreEntry{
			Name:     name,
			Score:    p.Score,
			MaxChain: p.MaxChain,
			Seconds:  int(p.Elapsed / time.Second),
			When:     time.Now().Format("2006-01-02 15:04"),
		}
		if m.sync == nil || !m.sync.Enabled() {
			m.scores = insertScore(m.scores, entry)
			_ = saveScores(m.scores)
		}
		m.scoresOffset = 0
		cmd := m.setScreen(screenScores)
		var cmds []tea.Cmd
		if m.sync != nil && m.sync.Enabled() {
			m.syncLoading = true
			m.syncDots = 0
			cmds = append(cmds, m.sync.UploadScoreCmd(entry))
			cmds = append(cmds, m.sync.FetchScoresCmd())
			cmds = append(cmds, syncTickCmd())
		}
		if len(cmds) == 0 {
			return cmd
		}
		cmds = append(cmds, cmd)
		return tea.Batch(cmds...)
	case tea.KeyBackspace, tea.KeyDelete:
		if len(m.nameInput) > 0 {
			m.nameInput = m.nameInput[:len(m.nameInput)-1]
		}
	case tea.KeyRunes:
		if len(m.nameInput) < 12 {
			m.nameInput += string(msg.Runes)
		}
	case tea.KeyEsc:
		return m.setScreen(screenMenu)
	}
	return nil
}

var menuItems = []string{
	"1 Player",
	"2 Players",
	"Themes",
	"Scores",
	"Config",
	"Quit",
}

var configItems = []string{
	"Sound Effects",
	"Music",
	"Volume",
	"Clear Animation",
	"Score Sync",
}
