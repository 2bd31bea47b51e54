package naive

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var fixpointPasses metric.Int64Counter

func init() {
	m := otel.Meter("github.com/Rototu/recursiveSQLDatabase/naive")
	fixpointPasses, _ = m.Int64Counter("rsqldb.naive.fixpoint_passes",
		metric.WithDescription("recursive-term evaluations run by the standard evaluator to reach a fixpoint"),
		metric.WithUnit("{pass}"),
	)
}

func recordPass(ctx context.Context) {
	fixpointPasses.Add(ctx, 1)
}
