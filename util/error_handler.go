package util

import (
	"fmt"

	"github.com/reconquest/pkg/log"
)

// FatalErrorHandler aborts on the first failed deck, or logs the failure and
// keeps count when ContinueOnError is set.
type FatalErrorHandler struct {
	ContinueOnError bool

	Failures int
}

func NewErrorHandler(continueOnError bool) *FatalErrorHandler {
	return &FatalErrorHandler{
		ContinueOnError: continueOnError,
	}
}

func (h *FatalErrorHandler) Handle(err error, format string, args ...interface{}) {
	h.Failures++

	if err == nil {
		if h.ContinueOnError {
			log.Error(fmt.Sprintf(format, args...))
			return
		}
		log.Fatal(fmt.Sprintf(format, args...))
	}

	if h.ContinueOnError {
		log.Errorf(err, format, args...)
		return
	}
	log.Fatalf(err, format, args...)
}

// Err summarizes the failures seen while processing total decks.
func (h *FatalErrorHandler) Err(total int) error {
	if h.Failures == 0 {
		return nil
	}

	return fmt.Errorf("%d of %d decks failed", h.Failures, total)
}
