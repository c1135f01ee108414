package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/steveyegge/projmigrate/internal/migrate"
	"github.com/steveyegge/projmigrate/internal/types"
)

const targetScopeName = "github.com/steveyegge/projmigrate/target"

// InstrumentedTarget wraps migrate.Target with OTel tracing and metrics.
// Every call gets a span and is counted in projmigrate.target.* metrics;
// item and value writes are also counted in projmigrate.items.*.
// Use WrapTarget to create one; it returns the original target unchanged when
// telemetry is disabled.
type InstrumentedTarget struct {
	inner  migrate.Target
	tracer trace.Tracer
	ops    metric.Int64Counter
	dur    metric.Float64Histogram
	errs   metric.Int64Counter
	items  metric.Int64Counter
	values metric.Int64Counter
}

// WrapTarget returns t decorated with OTel instrumentation.
// When telemetry is disabled, t is returned as-is with zero overhead.
func WrapTarget(t migrate.Target) migrate.Target {
	if !Enabled() {
		return t
	}
	return newInstrumentedTarget(t, Meter(targetScopeName), Tracer(targetScopeName))
}

func newInstrumentedTarget(t migrate.Target, m metric.Meter, tracer trace.Tracer) *InstrumentedTarget {
	ops, _ := m.Int64Counter("projmigrate.target.operations",
		metric.WithDescription("Total target API operations executed"),
	)
	dur, _ := m.Float64Histogram("projmigrate.target.operation.duration",
		metric.WithDescription("Target API operation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	errs, _ := m.Int64Counter("projmigrate.target.errors",
		metric.WithDescription("Total target API operation errors"),
	)
	items, _ := m.Int64Counter("projmigrate.items.created",
		metric.WithDescription("Project items created in the target"),
	)
	values, _ := m.Int64Counter("projmigrate.items.values",
		metric.WithDescription("Field values set on target items"),
	)
	return &InstrumentedTarget{
		inner:  t,
		tracer: tracer,
		ops:    ops,
		dur:    dur,
		errs:   errs,
		items:  items,
		values: values,
	}
}

// op starts a span and records a metric for the named target operation.
func (t *InstrumentedTarget) op(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span, time.Time) {
	all := append([]attribute.KeyValue{attribute.String("projmigrate.operation", name)}, attrs...)
	ctx, span := t.tracer.Start(ctx, "target."+name,
		trace.WithAttributes(all...),
		trace.WithSpanKind(trace.SpanKindClient),
	)
	t.ops.Add(ctx, 1, metric.WithAttributes(all...))
	return ctx, span, time.Now()
}

// done ends the span, records duration and optional error.
func (t *InstrumentedTarget) done(ctx context.Context, span trace.Span, start time.Time, err error, attrs ...attribute.KeyValue) {
	ms := float64(time.Since(start).Milliseconds())
	t.dur.Record(ctx, ms, metric.WithAttributes(attrs...))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.errs.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	span.End()
}

func (t *InstrumentedTarget) ResolveOwnerID(ctx context.Context, login string, kind types.OwnerKind) (string, error) {
	attrs := []attribute.KeyValue{attribute.String("projmigrate.owner.kind", string(kind))}
	ctx, span, start := t.op(ctx, "ResolveOwnerID", attrs...)
	v, err := t.inner.ResolveOwnerID(ctx, login, kind)
	t.done(ctx, span, start, err, attrs...)
	return v, err
}

func (t *InstrumentedTarget) ResolveRepositoryID(ctx context.Context, owner, name string) (string, error) {
	ctx, span, start := t.op(ctx, "ResolveRepositoryID")
	v, err := t.inner.ResolveRepositoryID(ctx, owner, name)
	t.done(ctx, span, start, err)
	return v, err
}

func (t *InstrumentedTarget) ResolveIssueOrPullRequest(ctx context.Context, owner, name string, number int) (*types.ContentRef, error) {
	ctx, span, start := t.op(ctx, "ResolveIssueOrPullRequest")
	v, err := t.inner.ResolveIssueOrPullRequest(ctx, owner, name, number)
	span.SetAttributes(attribute.Bool("projmigrate.content.found", v != nil))
	t.done(ctx, span, start, err)
	return v, err
}

func (t *InstrumentedTarget) CreateProject(ctx context.Context, ownerID, title string) (*types.TargetProject, error) {
	ctx, span, start := t.op(ctx, "CreateProject")
	v, err := t.inner.CreateProject(ctx, ownerID, title)
	t.done(ctx, span, start, err)
	return v, err
}

func (t *InstrumentedTarget) LinkRepository(ctx context.Context, projectID, repositoryID string) error {
	ctx, span, start := t.op(ctx, "LinkRepository")
	err := t.inner.LinkRepository(ctx, projectID, repositoryID)
	t.done(ctx, span, start, err)
	return err
}

func (t *InstrumentedTarget) CreateField(ctx context.Context, projectID string, spec types.FieldSpec) (*types.TargetField, error) {
	attrs := []attribute.KeyValue{
		attribute.String("projmigrate.field.type", string(spec.DataType)),
		attribute.Int("projmigrate.field.options", len(spec.Options)),
	}
	ctx, span, start := t.op(ctx, "CreateField", attrs...)
	v, err := t.inner.CreateField(ctx, projectID, spec)
	t.done(ctx, span, start, err, attrs...)
	return v, err
}

func (t *InstrumentedTarget) FetchFieldByName(ctx context.Context, projectID, name string) (*types.TargetField, error) {
	ctx, span, start := t.op(ctx, "FetchFieldByName")
	v, err := t.inner.FetchFieldByName(ctx, projectID, name)
	t.done(ctx, span, start, err)
	return v, err
}

func (t *InstrumentedTarget) AddItemByContentID(ctx context.Context, projectID, contentID string) (string, error) {
	attrs := []attribute.KeyValue{attribute.String("projmigrate.item.kind", "content")}
	ctx, span, start := t.op(ctx, "AddItemByContentID", attrs...)
	v, err := t.inner.AddItemByContentID(ctx, projectID, contentID)
	if err == nil {
		t.items.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	t.done(ctx, span, start, err, attrs...)
	return v, err
}

func (t *InstrumentedTarget) AddDraftIssue(ctx context.Context, projectID, title, body string) (string, error) {
	attrs := []attribute.KeyValue{attribute.String("projmigrate.item.kind", "draft")}
	ctx, span, start := t.op(ctx, "AddDraftIssue", attrs...)
	v, err := t.inner.AddDraftIssue(ctx, projectID, title, body)
	if err == nil {
		t.items.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
	t.done(ctx, span, start, err, attrs...)
	return v, err
}

func (t *InstrumentedTarget) ArchiveItem(ctx context.Context, projectID, itemID string) error {
	ctx, span, start := t.op(ctx, "ArchiveItem")
	err := t.inner.ArchiveItem(ctx, projectID, itemID)
	t.done(ctx, span, start, err)
	return err
}

func (t *InstrumentedTarget) UpdateItemFieldValue(ctx context.Context, projectID, itemID, fieldID string, value types.FieldValueInput) error {
	ctx, span, start := t.op(ctx, "UpdateItemFieldValue")
	err := t.inner.UpdateItemFieldValue(ctx, projectID, itemID, fieldID, value)
	if err == nil {
		t.values.Add(ctx, 1)
	}
	t.done(ctx, span, start, err)
	return err
}
