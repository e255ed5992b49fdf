package tui

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classifyform/form"
	"classifyform/manager"
)

type stubClassifier struct {
	mu       sync.Mutex
	payloads []form.Payload
	resp     json.RawMessage
	err      error
	hold     map[string]chan struct{}
}

func (s *stubClassifier) Classify(_ context.Context, p form.Payload) (json.RawMessage, error) {
	s.mu.Lock()
	s.payloads = append(s.payloads, p)
	gate := s.hold[p.Description]
	s.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if s.resp == nil && s.err == nil {
		return json.Marshal(map[string]string{"from": p.Description})
	}
	return s.resp, s.err
}

func (s *stubClassifier) calls() []form.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]form.Payload(nil), s.payloads...)
}

// newTestModel builds a page whose output messages are collected instead of
// going through a running program.
func newTestModel(submitter *form.Submitter, defaultModel string) (Model, chan tea.Msg) {
	m := New(submitter, defaultModel)
	msgs := make(chan tea.Msg, 16)
	m.page.send = func(msg tea.Msg) { msgs <- msg }
	return m, msgs
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return m
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestNewPrefillsModelName(t *testing.T) {
	m := New(form.NewSubmitter(&stubClassifier{}, nil), "llama3.1")
	assert.Equal(t, "llama3.1", m.page.ModelName())
	assert.Equal(t, "description", m.Focused())
	assert.Empty(t, m.OutputText())
}

func TestFocusCycles(t *testing.T) {
	m := New(form.NewSubmitter(&stubClassifier{}, nil), "")

	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, "categories", m.Focused())
	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, "model_name", m.Focused())
	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, "submit", m.Focused())
	m, _ = update(t, m, key(tea.KeyTab))
	assert.Equal(t, "description", m.Focused())
	m, _ = update(t, m, key(tea.KeyShiftTab))
	assert.Equal(t, "submit", m.Focused())
}

func TestSubmitFromButton(t *testing.T) {
	client := &stubClassifier{resp: json.RawMessage(`{"category":"Electronics"}`)}
	s := form.NewSubmitter(client, nil)
	m, msgs := newTestModel(s, "")

	m = typeText(t, m, "Wireless mouse")
	m, _ = update(t, m, key(tea.KeyEnter))
	m = typeText(t, m, "Electronics,Books,")
	m, _ = update(t, m, key(tea.KeyTab))
	m = typeText(t, m, "llama3.1")
	m, _ = update(t, m, key(tea.KeyTab))
	require.Equal(t, "submit", m.Focused())

	m, _ = update(t, m, key(tea.KeyEnter))
	assert.Equal(t, 1, m.Pending())

	s.Wait()
	m, _ = update(t, m, <-msgs)
	assert.Equal(t, 0, m.Pending())
	assert.Equal(t, "{\n  \"category\": \"Electronics\"\n}", m.OutputText())

	require.Len(t, client.calls(), 1)
	assert.Equal(t, form.Payload{
		Description: "Wireless mouse",
		Categories:  []string{"Electronics", "Books", ""},
		ModelName:   "llama3.1",
	}, client.calls()[0])
}

func TestSubmitShortcutShowsError(t *testing.T) {
	client := &stubClassifier{err: errors.New("connection refused")}
	s := form.NewSubmitter(client, nil)
	m, msgs := newTestModel(s, "llama3.1")

	m, _ = update(t, m, key(tea.KeyCtrlS))
	s.Wait()
	m, _ = update(t, m, <-msgs)

	assert.Equal(t, "Error: connection refused", m.OutputText())
	assert.Contains(t, m.View(), "Error: connection refused")
}

func TestInputsReadAtActivation(t *testing.T) {
	client := &stubClassifier{resp: json.RawMessage(`{}`)}
	s := form.NewSubmitter(client, nil)
	m, _ := newTestModel(s, "")

	m = typeText(t, m, "first")
	m, _ = update(t, m, key(tea.KeyCtrlS))
	// Editing after activation does not change the in-flight payload.
	m = typeText(t, m, " edited")
	s.Wait()

	require.Len(t, client.calls(), 1)
	assert.Equal(t, "first", client.calls()[0].Description)
	assert.Equal(t, "first edited", m.page.Description())
}

func TestSerializedSubmitsDisplayInOrder(t *testing.T) {
	cm := manager.NewActivationManager(nil, 0, true)
	defer cm.Shutdown()

	slow := make(chan struct{})
	client := &stubClassifier{hold: map[string]chan struct{}{"first": slow}}
	s := form.NewSubmitter(client, cm)
	m, msgs := newTestModel(s, "")

	m = typeText(t, m, "first")
	m, _ = update(t, m, key(tea.KeyCtrlS))
	m, _ = update(t, m, key(tea.KeyCtrlU))
	m = typeText(t, m, "second")
	m, _ = update(t, m, key(tea.KeyCtrlS))
	assert.Equal(t, 2, m.Pending())

	time.Sleep(20 * time.Millisecond)
	assert.Len(t, client.calls(), 1, "second request sent before the first finished")

	close(slow)
	s.Wait()
	m, _ = update(t, m, <-msgs)
	assert.Equal(t, "{\n  \"from\": \"first\"\n}", m.OutputText())
	m, _ = update(t, m, <-msgs)
	assert.Equal(t, "{\n  \"from\": \"second\"\n}", m.OutputText())
	assert.Equal(t, 0, m.Pending())
}

func TestLaterResponseOverwrites(t *testing.T) {
	m := New(form.NewSubmitter(&stubClassifier{}, nil), "")

	m, _ = update(t, m, responseMsg{text: "one"})
	m, _ = update(t, m, responseMsg{text: "two"})
	assert.Equal(t, "two", m.OutputText())
}

func TestQuit(t *testing.T) {
	m := New(form.NewSubmitter(&stubClassifier{}, nil), "")
	_, cmd := update(t, m, key(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestWindowResize(t *testing.T) {
	m := New(form.NewSubmitter(&stubClassifier{}, nil), "")
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	assert.Equal(t, 96, m.output.Width)
	assert.Equal(t, 24, m.output.Height)
	assert.Equal(t, 94, m.page.inputs[DescriptionField].Width)
}
