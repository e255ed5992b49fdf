package form

import "sync"

// Trigger is an activation source such as a submit button.
type Trigger interface {
	OnActivate(action func())
}

// Button is an in-process Trigger. Press runs the bound actions in the order
// they were bound, on the caller's goroutine; actions that do slow work are
// expected to continue it in the background, as Submitter.Bind does.
type Button struct {
	mu      sync.Mutex
	actions []func()
}

func (b *Button) OnActivate(action func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions = append(b.actions, action)
}

// Press activates the button.
func (b *Button) Press() {
	b.mu.Lock()
	actions := make([]func(), len(b.actions))
	copy(actions, b.actions)
	b.mu.Unlock()

	for _, action := range actions {
		action()
	}
}
