// Package tui is the terminal version of the classification form: three text
// inputs, a submit control and an output area holding the last response.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"classifyform/form"
)

// Focus targets, in tab order.
const (
	DescriptionField = iota
	CategoriesField
	ModelNameField
	SubmitControl
	focusCount
)

var focusNames = [focusCount]string{"description", "categories", "model_name", "submit"}

// responseMsg carries the output text of one finished activation.
type responseMsg struct {
	text string
}

// page holds the state shared by every copy of the Model: the three inputs
// read when the submit control fires, and the link back to the program that
// the output area writes through.
type page struct {
	inputs []textinput.Model
	send   func(tea.Msg)
}

func (p *page) Description() string { return p.inputs[DescriptionField].Value() }
func (p *page) Categories() string { return p.inputs[CategoriesField].Value() }
func (p *page) ModelName() string { return p.inputs[ModelNameField].Value() }

// SetText delivers the new output text to the event loop. Send returns once
// the message is taken, so outputs are applied in the order they are written.
func (p *page) SetText(text string) {
	if p.send != nil {
		p.send(responseMsg{text: text})
	}
}

// Model is the form page.
type Model struct {
	page   *page
	submit *form.Button
	focus  int

	// apiResponse output area
	output     viewport.Model
	outputText string
	pending    int

	width  int
	height int
	styles Styles
}

// New creates the form page. defaultModel prefills the model name input.
func New(submitter *form.Submitter, defaultModel string) Model {
	styles := DefaultStyles()

	placeholders := [3]string{
		"Product description",
		"Comma separated categories, e.g. Electronics,Books,Clothing",
		"Model name",
	}
	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.Prompt = "│ "
		ti.CharLimit = 0
		ti.Width = 60
		inputs[i] = ti
	}
	inputs[ModelNameField].SetValue(defaultModel)
	inputs[DescriptionField].Focus()

	vp := viewport.New(80, 12)
	vp.SetContent("")

	pg := &page{inputs: inputs}
	submit := &form.Button{}
	submitter.Bind(submit, pg, pg)

	return Model{
		page:   pg,
		submit: submit,
		focus:  DescriptionField,
		output: vp,
		width:  80,
		height: 24,
		styles: styles,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for i := range m.page.inputs {
			m.page.inputs[i].Width = max(msg.Width-6, 10)
		}
		m.output.Width = max(msg.Width-4, 10)
		m.output.Height = max(msg.Height-16, 3)
		return m, nil

	case responseMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.outputText = msg.text
		m.output.SetContent(msg.text)
		m.output.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s":
			return m.activate()
		case "enter":
			if m.focus == SubmitControl {
				return m.activate()
			}
			cmd := m.setFocus(m.focus + 1)
			return m, cmd
		case "tab", "down":
			cmd := m.setFocus(m.focus + 1)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.setFocus(m.focus - 1)
			return m, cmd
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			return m, cmd
		}
	}

	if m.focus < SubmitControl {
		var cmd tea.Cmd
		m.page.inputs[m.focus], cmd = m.page.inputs[m.focus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// activate presses the submit control. The inputs are read right away and
// the request runs in the background; its output comes back as a responseMsg.
func (m Model) activate() (tea.Model, tea.Cmd) {
	m.pending++
	m.submit.Press()
	return m, nil
}

func (m *Model) setFocus(target int) tea.Cmd {
	target = (target%focusCount + focusCount) % focusCount
	m.focus = target
	var cmd tea.Cmd
	for i := range m.page.inputs {
		if i == target {
			cmd = m.page.inputs[i].Focus()
		} else {
			m.page.inputs[i].Blur()
		}
	}
	return cmd
}

// View renders the page.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.Title.Render("Product classifier"))
	sb.WriteString("\n")

	labels := [3]string{"Description", "Categories", "Model name"}
	for i, ti := range m.page.inputs {
		sb.WriteString(m.styles.Label.Render(labels[i]))
		sb.WriteString("\n")
		sb.WriteString(ti.View())
		sb.WriteString("\n\n")
	}

	button := m.styles.Button
	if m.focus == SubmitControl {
		button = m.styles.ButtonActive
	}
	sb.WriteString(button.Render("Classify"))
	if m.pending > 0 {
		sb.WriteString("  ")
		sb.WriteString(m.styles.Status.Render(fmt.Sprintf("waiting for %d response(s)…", m.pending)))
	}
	sb.WriteString("\n")

	sb.WriteString(m.styles.Label.Render("Response"))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Output.Render(m.output.View()))
	sb.WriteString("\n")
	sb.WriteString(m.styles.Help.Render("tab/shift+tab: move • enter on Classify or ctrl+s: submit • pgup/pgdown: scroll • esc: quit"))

	return sb.String()
}

// Focused returns the logical name of the focused control.
func (m Model) Focused() string {
	return focusNames[m.focus]
}

// OutputText returns the current content of the output area.
func (m Model) OutputText() string {
	return m.outputText
}

// Pending returns the number of activations still waiting for a response.
func (m Model) Pending() int {
	return m.pending
}

// Run starts the form page on the terminal and blocks until the user quits.
func Run(ctx context.Context, submitter *form.Submitter, defaultModel string) error {
	m := New(submitter, defaultModel)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	m.page.send = p.Send
	_, err := p.Run()
	return err
}
