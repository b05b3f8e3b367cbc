package reports

import "context"

const (
	ColumnMessageDelay          = "messageDelay"
	ColumnCumulativeProbability = "cumulativeProbability"
)

// DelayColumns are the fields of a MessageDelayReport line.
var DelayColumns = []string{ColumnMessageDelay, ColumnCumulativeProbability}

// DelayLoader parses MessageDelayReport files.
func DelayLoader() Loader {
	return timeSeriesLoader{
		kind:     KindDelay,
		parser:   LineParser{Columns: DelayColumns},
		required: ColumnMessageDelay,
		hint:     wrongGlobReason + ".",
	}
}

// NewDelayGroup loads the MessageDelayReport files selected by spec.
func NewDelayGroup(ctx context.Context, spec Spec, resolver *Resolver) (*ReportGroup, error) {
	return NewGroup(ctx, DelayLoader(), spec, resolver)
}
