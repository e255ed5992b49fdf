package form

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

func logPayload(p Payload) {
	log.WithFields(logrus.Fields{
		"description": p.Description,
		"categories":  p.Categories,
		"model_name":  p.ModelName,
	}).Info("Sending payload")
}

func logResponse(text string) {
	log.Infof("Response from API: %s", text)
}

// logAndRender logs the failure and writes it into the output area.
func logAndRender(out Output, err error) {
	log.Errorf("API call failed: %v", err)
	out.SetText("Error: " + err.Error())
}

// renderPanic reports a recovered panic. The output area itself may be what
// panicked, so a second failure is only logged.
func renderPanic(out Output, r any) {
	defer func() {
		if again := recover(); again != nil {
			log.Errorf("Output area failed: %v", again)
		}
	}()
	logAndRender(out, fmt.Errorf("%v", r))
}
