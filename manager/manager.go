package manager

import (
	"github.com/sirupsen/logrus"

	"classifyform/logging"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}
