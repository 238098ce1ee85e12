package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/scale-codec/codec"
	"github.com/wippyai/scale-codec/config"
	"github.com/wippyai/scale-codec/registry"
	"github.com/wippyai/scale-codec/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
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

// visibleTypes is the height of the type list window.
const visibleTypes = 20

type interactiveModel struct {
	err      error
	enc      *codec.Encoder
	dec      *codec.Decoder
	reg      *registry.Registry
	result   string
	types    []typeInfo
	input    textinput.Model
	selected int
	state    modelState
	mode     codecMode
}

type typeInfo struct {
	name string
	desc string
}

type modelState int

const (
	stateSelectType modelState = iota
	stateInput
	stateShowResult
)

type codecMode int

const (
	modeDecode codecMode = iota
	modeEncode
)

func (c codecMode) String() string {
	if c == modeEncode {
		return "encode JSON"
	}
	return "decode hex"
}

func newInteractiveModel(reg *registry.Registry, cfg config.Config) *interactiveModel {
	m := &interactiveModel{
		enc:   codec.NewEncoder(reg, cfg.CodecOptions()...),
		dec:   codec.NewDecoder(reg, cfg.CodecOptions()...),
		reg:   reg,
		state: stateSelectType,
	}
	for _, name := range reg.Names() {
		info := typeInfo{name: name}
		if d, err := reg.Resolve(name); err == nil {
			info.desc = d.String()
		}
		m.types = append(m.types, info)
	}
	return m
}

type resultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInput {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectType && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectType && m.selected < len(m.types)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectType:
				m.prepareInput()
				m.state = stateInput
				return m, textinput.Blink

			case stateInput:
				return m, m.convert

			case stateShowResult:
				m.state = stateSelectType
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInput {
				m.mode = (m.mode + 1) % 2
				m.input.Placeholder = m.mode.String()
			}

		case "esc":
			switch m.state {
			case stateInput:
				m.state = stateSelectType
			case stateShowResult:
				m.state = stateInput
				m.result = ""
				m.err = nil
			}
		}

	case resultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) prepareInput() {
	ti := textinput.New()
	ti.Placeholder = m.mode.String()
	ti.Prompt = m.types[m.selected].name + ": "
	ti.Width = 60
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) convert() tea.Msg {
	name := m.types[m.selected].name
	text := strings.TrimSpace(m.input.Value())

	if m.mode == modeEncode {
		v, err := value.FromJSON(m.reg, name, []byte(text))
		if err != nil {
			return resultMsg{err: err}
		}
		enc, err := m.enc.Encode(name, v)
		if err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{result: "0x" + hex.EncodeToString(enc)}
	}

	data, err := hex.DecodeString(strings.TrimPrefix(text, "0x"))
	if err != nil {
		return resultMsg{err: fmt.Errorf("hex input: %w", err)}
	}
	v, err := m.dec.DecodeAll(name, data)
	if err != nil {
		return resultMsg{err: err}
	}
	out, err := value.ToJSONIndent(v, "  ")
	if err != nil {
		return resultMsg{err: err}
	}
	return resultMsg{result: string(out)}
}

func (m *interactiveModel) View() string {
	if len(m.types) == 0 {
		return errorStyle.Render("No types registered.\n\nPress q to quit.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("SCALE Types"))
	fmt.Fprintf(&b, " %d registered\n\n", len(m.types))

	switch m.state {
	case stateSelectType:
		start := 0
		if m.selected >= visibleTypes {
			start = m.selected - visibleTypes + 1
		}
		end := min(start+visibleTypes, len(m.types))
		for i := start; i < end; i++ {
			line := m.formatType(m.types[i])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + m.types[i].name))
				b.WriteString(" " + typeStyle.Render(m.types[i].desc))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter convert • q quit"))

	case stateInput:
		t := m.types[m.selected]
		fmt.Fprintf(&b, "%s = %s\n\n", nameStyle.Render(t.name), typeStyle.Render(t.desc))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("tab " + m.mode.String() + " • enter convert • esc back"))

	case stateShowResult:
		t := m.types[m.selected]
		fmt.Fprintf(&b, "%s %s:\n\n", m.mode, nameStyle.Render(t.name))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter types • esc edit • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatType(t typeInfo) string {
	return nameStyle.Render(t.name) + " " + typeStyle.Render(t.desc)
}

func runInteractive(reg *registry.Registry, cfg config.Config) error {
	p := tea.NewProgram(newInteractiveModel(reg, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
