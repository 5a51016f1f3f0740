package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("hockey-indexer/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

// startUsecaseSpan only opens a child span; handlers called outside a traced
// receipt stay span-free.
func startUsecaseSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	return usecaseTracer.Start(ctx, name)
}

// startReceiptSpan opens the root span of one receipt. The feed consumer has
// no inbound request, so this span may start a new trace.
func startReceiptSpan(ctx context.Context, receiptID, signerID string, actions int) (context.Context, trace.Span) {
	return usecaseTracer.Start(ctx, "usecase.Dispatcher.Process",
		trace.WithAttributes(
			attribute.String("receipt.id", receiptID),
			attribute.String("receipt.signer_id", signerID),
			attribute.Int("receipt.actions", actions),
		),
	)
}

func finishSpan(span trace.Span, err error) {
	if err != nil && !isNoChange(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
