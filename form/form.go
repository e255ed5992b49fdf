// Package form implements the classification form submitter: it reads the
// description, categories and model name inputs, posts them to the classify
// service and writes the pretty-printed response or an error into an output area.
package form

import (
	"github.com/sirupsen/logrus"

	"classifyform/logging"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}
