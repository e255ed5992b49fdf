package form

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"classifyform/manager"
)

// Classifier performs the single classify call for an activation.
type Classifier interface {
	Classify(ctx context.Context, payload Payload) (json.RawMessage, error)
}

// Submitter runs form activations.
type Submitter struct {
	client      Classifier
	activations *manager.ActivationManager
	running     sync.WaitGroup
}

// NewSubmitter creates a Submitter. activations may be nil, in which case
// activations are neither counted nor limited.
func NewSubmitter(client Classifier, activations *manager.ActivationManager) *Submitter {
	return &Submitter{
		client:      client,
		activations: activations,
	}
}

// Activation is one submit whose inputs have been read and whose place in
// line has been taken, but whose request has not been sent yet.
type Activation struct {
	client      Classifier
	payload     Payload
	reservation *manager.Reservation
	err         error
}

// Prepare reads the inputs and reserves an activation slot without blocking.
// Call it at the moment the user activates the form.
func (s *Submitter) Prepare(in Inputs) (a *Activation) {
	a = &Activation{client: s.client}
	defer func() {
		if r := recover(); r != nil {
			a.err = fmt.Errorf("%v", r)
		}
	}()

	a.payload = NewPayload(in)
	logPayload(a.payload)
	if s.activations != nil {
		a.reservation = s.activations.Reserve(a.payload.ModelName)
	}
	return a
}

// Run sends the classify request and replaces the output text with the
// pretty-printed response, or with "Error: <message>" when anything fails.
// The activation slot is held until the output has been written. Failures
// are never returned.
func (a *Activation) Run(ctx context.Context, out Output) {
	release := func() {}
	defer func() { release() }()
	defer func() {
		if r := recover(); r != nil {
			renderPanic(out, r)
		}
	}()

	if a.err != nil {
		logAndRender(out, a.err)
		return
	}

	if a.reservation != nil {
		r, err := a.reservation.Wait(ctx)
		if err != nil {
			logAndRender(out, err)
			return
		}
		release = r
	}

	raw, err := a.client.Classify(ctx, a.payload)
	if err != nil {
		logAndRender(out, err)
		return
	}
	text, err := Render(raw)
	if err != nil {
		logAndRender(out, err)
		return
	}

	logResponse(text)
	out.SetText(text)
}

// Submit runs one activation to completion.
func (s *Submitter) Submit(ctx context.Context, in Inputs, out Output) {
	s.Prepare(in).Run(ctx, out)
}

// Bind registers an action on t. Each activation reads the inputs while the
// trigger fires, then runs in the background. Wait blocks until they finish.
func (s *Submitter) Bind(t Trigger, in Inputs, out Output) {
	t.OnActivate(func() {
		a := s.Prepare(in)
		s.running.Add(1)
		go func() {
			defer s.running.Done()
			a.Run(context.Background(), out)
		}()
	})
}

// Wait blocks until every activation started through Bind has finished.
func (s *Submitter) Wait() {
	s.running.Wait()
}
