package docstore

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-docstore")

// TracingStore wraps a document store with one span per call
type TracingStore struct {
	next    domain.DocumentStore
	backend string
}

// NewTracingStore creates a new store with tracing
func NewTracingStore(next domain.DocumentStore, backend string) *TracingStore {
	return &TracingStore{next: next, backend: backend}
}

func (s *TracingStore) start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", s.backend))
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// ListAll with tracing
func (s *TracingStore) ListAll(ctx context.Context, collection string) ([]domain.Document, error) {
	ctx, span := s.start(ctx, "docstore.ListAll",
		attribute.String("docstore.collection", collection),
	)
	defer span.End()

	docs, err := s.next.ListAll(ctx, collection)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(docs)))
	return docs, nil
}

// Get with tracing. A missing record is not a span error.
func (s *TracingStore) Get(ctx context.Context, collection, key string) (domain.Fields, error) {
	ctx, span := s.start(ctx, "docstore.Get",
		attribute.String("docstore.collection", collection),
		attribute.String("docstore.key", key),
	)
	defer span.End()

	fields, err := s.next.Get(ctx, collection, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			span.SetAttributes(attribute.Bool("docstore.found", false))
			return nil, err
		}
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Bool("docstore.found", true))
	if quantity, ok := fields.Int(domain.FieldQuantity); ok {
		span.SetAttributes(attribute.Int("inventory.quantity", quantity))
	}
	return fields, nil
}

// Set with tracing
func (s *TracingStore) Set(ctx context.Context, collection, key string, fields domain.Fields, merge bool) error {
	ctx, span := s.start(ctx, "docstore.Set",
		attribute.String("docstore.collection", collection),
		attribute.String("docstore.key", key),
		attribute.Bool("docstore.merge", merge),
		attribute.Int("docstore.fields", len(fields)),
	)
	defer span.End()

	if err := s.next.Set(ctx, collection, key, fields, merge); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

// Delete with tracing
func (s *TracingStore) Delete(ctx context.Context, collection, key string) error {
	ctx, span := s.start(ctx, "docstore.Delete",
		attribute.String("docstore.collection", collection),
		attribute.String("docstore.key", key),
	)
	defer span.End()

	if err := s.next.Delete(ctx, collection, key); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func (s *TracingStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *TracingStore) Close() error {
	return s.next.Close()
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
