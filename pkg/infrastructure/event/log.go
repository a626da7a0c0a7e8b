package event

import (
	log "github.com/sirupsen/logrus"

	"github.com/Rifaiiii04/ims-inventory-sub001/pkg/common/domain"
)

// LogDispatcher writes domain events to the structured log.
type LogDispatcher struct {
	logger log.FieldLogger
}

func NewLogDispatcher(logger log.FieldLogger) *LogDispatcher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(e domain.Event) error {
	d.logger.WithFields(log.Fields{
		"event":   e.Type(),
		"payload": e,
	}).Info("domain event")
	return nil
}
