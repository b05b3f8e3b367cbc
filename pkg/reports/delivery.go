package reports

import "context"

const (
	ColumnTime             = "time"
	ColumnCreated          = "created"
	ColumnDelivered        = "delivered"
	ColumnDeliveredCreated = "delivered/created"
)

// DeliveryColumns are the fields of a MessageDeliveryReport line.
var DeliveryColumns = []string{ColumnTime, ColumnCreated, ColumnDelivered, ColumnDeliveredCreated}

// DeliveryLoader parses MessageDeliveryReport files.
func DeliveryLoader() Loader {
	return timeSeriesLoader{
		kind:     KindDelivery,
		parser:   LineParser{Columns: DeliveryColumns},
		required: ColumnTime,
		hint:     wrongGlobReason + " or missing header lines in the report files.",
	}
}

// NewDeliveryGroup loads the MessageDeliveryReport files selected by spec.
func NewDeliveryGroup(ctx context.Context, spec Spec, resolver *Resolver) (*ReportGroup, error) {
	return NewGroup(ctx, DeliveryLoader(), spec, resolver)
}
