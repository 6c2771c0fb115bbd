package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	espeakruntime "github.com/phonemix/espeak-runtime"
	"github.com/phonemix/espeak-runtime/runtime"
	"github.com/phonemix/espeak-runtime/voice"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	voiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	langStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectVoice modelState = iota
	stateInputText
	stateShowResult
)

type interactiveModel struct {
	err      error
	inst     *runtime.Instance
	libName  string
	version  string
	voices   []voice.Voice
	input    textinput.Model
	result   string
	selected int
	offset   int
	ipa      bool
	state    modelState
}

func newInteractiveModel(libName string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "text to phonemize"
	ti.Prompt = "> "
	ti.Width = 60
	return &interactiveModel{
		libName: libName,
		input:   ti,
		state:   stateSelectVoice,
	}
}

type loadedMsg struct {
	err     error
	inst    *runtime.Instance
	version string
	voices  []voice.Voice
}

type phonemesMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadInstance
}

func (m *interactiveModel) loadInstance() tea.Msg {
	inst, err := runtime.New(m.libName)
	if err != nil {
		return loadedMsg{err: err}
	}

	info, err := inst.Info()
	if err != nil {
		inst.Close()
		return loadedMsg{err: err}
	}

	voices, err := inst.Voices(nil)
	if err != nil {
		inst.Close()
		return loadedMsg{err: err}
	}
	sort.Slice(voices, func(i, j int) bool { return voices[i].Name < voices[j].Name })

	return loadedMsg{inst: inst, version: info.Version, voices: voices}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			if m.inst != nil {
				m.inst.Close()
			}
			return m, tea.Quit

		case "q":
			if m.state == stateInputText {
				break // let the text input consume it
			}
			if m.inst != nil {
				m.inst.Close()
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectVoice && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectVoice && m.selected < len(m.voices)-1 {
				m.selected++
			}

		case "i":
			if m.state == stateSelectVoice {
				m.ipa = !m.ipa
			}

		case "enter":
			switch m.state {
			case stateSelectVoice:
				if len(m.voices) == 0 {
					break
				}
				if err := m.inst.SetVoiceByName(m.voices[m.selected].Name); err != nil {
					m.err = err
					m.state = stateShowResult
					break
				}
				m.input.SetValue("")
				m.input.Focus()
				m.state = stateInputText

			case stateInputText:
				return m, m.phonemize

			case stateShowResult:
				m.state = stateInputText
				m.result = ""
				m.err = nil
				m.input.Focus()
			}

		case "esc":
			switch m.state {
			case stateInputText:
				m.input.Blur()
				m.state = stateSelectVoice
			case stateShowResult:
				m.state = stateSelectVoice
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.inst = msg.inst
		m.version = msg.version
		m.voices = msg.voices

	case phonemesMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputText {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) phonemize() tea.Msg {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return phonemesMsg{err: fmt.Errorf("nothing to phonemize")}
	}

	mode := espeakruntime.PhonemeModeASCII
	if m.ipa {
		mode = espeakruntime.PhonemeModeIPA
	}
	result, err := m.inst.TextToPhonemes(text, espeakruntime.TextModeUTF8, mode)
	if err != nil {
		return phonemesMsg{err: err}
	}
	return phonemesMsg{result: result}
}

const voicesPerPage = 15

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if m.inst == nil {
		return "Loading espeak-ng..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("espeak-ng " + m.version))
	b.WriteString(" ")
	b.WriteString(m.inst.LibraryPath())
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectVoice:
		mode := "ASCII"
		if m.ipa {
			mode = "IPA"
		}
		fmt.Fprintf(&b, "Select a voice (%d installed, output: %s):\n\n", len(m.voices), mode)

		if m.selected < m.offset {
			m.offset = m.selected
		}
		if m.selected >= m.offset+voicesPerPage {
			m.offset = m.selected - voicesPerPage + 1
		}
		end := min(m.offset+voicesPerPage, len(m.voices))
		for i := m.offset; i < end; i++ {
			line := m.formatVoice(m.voices[i])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter choose • i toggle IPA • q quit"))

	case stateInputText:
		v := m.voices[m.selected]
		fmt.Fprintf(&b, "Voice: %s\n\n", voiceStyle.Render(v.Name))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter phonemize • esc back"))

	case stateShowResult:
		b.WriteString("Phonemes:\n\n")
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • esc voices • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatVoice(v voice.Voice) string {
	lang := v.Language()
	if lang != "" {
		return voiceStyle.Render(v.Name) + " " + langStyle.Render("("+lang+")")
	}
	return voiceStyle.Render(v.Name)
}

func runInteractive(libName string) error {
	p := tea.NewProgram(newInteractiveModel(libName), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
