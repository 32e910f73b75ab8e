package stats

import (
	"errors"

	"github.com/nao1215/wikistats/internal/model"
	"github.com/nao1215/wikistats/internal/pageviews"
	"github.com/nao1215/wikistats/internal/wiki"
)

// Fault is the kind of recognized fault a field step recovered from.
type Fault int

const (
	// FaultNone means the field was computed without a recognized fault.
	FaultNone Fault = iota

	// FaultMalformedInterwiki means the interwiki links of the page could
	// not be parsed and were counted as zero.
	FaultMalformedInterwiki

	// FaultEmptyAnalytics means the analytics service had no data for the
	// page and range and the views were counted as zero.
	FaultEmptyAnalytics
)

// String returns the name of the fault kind.
func (f Fault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultMalformedInterwiki:
		return "malformed interwiki data"
	case FaultEmptyAnalytics:
		return "empty analytics result"
	default:
		return "unknown"
	}
}

// Outcome is the result of one field step.
type Outcome struct {
	Value model.Value
	Fault Fault
}

// ok returns an Outcome without fault.
func ok(v model.Value) Outcome {
	return Outcome{Value: v}
}

// recognize maps err to the fault it represents.
// It returns FaultNone for errors that are not recognized and must propagate.
func recognize(err error) Fault {
	switch {
	case errors.Is(err, wiki.ErrMalformedInterwiki):
		return FaultMalformedInterwiki
	case errors.Is(err, pageviews.ErrNoData):
		return FaultEmptyAnalytics
	default:
		return FaultNone
	}
}
