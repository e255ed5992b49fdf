package form

import "sync"

// Inputs are the three named input slots of the form. They are read once per
// activation.
type Inputs interface {
	Description() string
	// Categories is the raw comma separated list.
	Categories() string
	ModelName() string
}

// Output is the named output area. SetText replaces its whole content.
type Output interface {
	SetText(text string)
}

// Values is a fixed set of inputs.
type Values struct {
	DescriptionText string
	CategoriesText  string
	ModelNameText   string
}

func (v Values) Description() string { return v.DescriptionText }
func (v Values) Categories() string { return v.CategoriesText }
func (v Values) ModelName() string { return v.ModelNameText }

// OutputFunc adapts a plain function to Output.
type OutputFunc func(text string)

func (f OutputFunc) SetText(text string) { f(text) }

// TextArea is an Output that keeps the last text written to it.
type TextArea struct {
	mu     sync.Mutex
	text   string
	writes int
}

func (a *TextArea) SetText(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.text = text
	a.writes++
}

// Text returns the current content.
func (a *TextArea) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.text
}

// Writes returns how many times the content was replaced.
func (a *TextArea) Writes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.writes
}
