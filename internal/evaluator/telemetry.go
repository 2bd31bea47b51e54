package evaluator

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var fixpointMetrics struct {
	passes      metric.Int64Counter
	rowsDerived metric.Int64Histogram
}

func init() {
	m := otel.Meter("github.com/Rototu/recursiveSQLDatabase/evaluator")
	fixpointMetrics.passes, _ = m.Int64Counter("rsqldb.evaluator.fixpoint_passes",
		metric.WithDescription("recursive-term evaluations run to reach a fixpoint"),
		metric.WithUnit("{pass}"),
	)
	fixpointMetrics.rowsDerived, _ = m.Int64Histogram("rsqldb.evaluator.rows_derived",
		metric.WithDescription("rows a single execute_term call contributed to the result table"),
		metric.WithUnit("{row}"),
	)
}

func recordPass(ctx context.Context, delta int) {
	fixpointMetrics.passes.Add(ctx, 1)
	fixpointMetrics.rowsDerived.Record(ctx, int64(delta))
}
