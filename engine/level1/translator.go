package level1

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/fitlins-go/fslshim/engine/contrast"
	"github.com/fitlins-go/fslshim/engine/session"
	"github.com/fitlins-go/fslshim/pkg/logger"
)

const tracerName = "fslshim.level1"

type Option func(*Translator)

// WithParallelism bounds how many runs are normalized concurrently.
// Values below 1 select serial processing.
func WithParallelism(n int) Option {
	return func(t *Translator) {
		if n < 1 {
			n = 1
		}
		t.parallelism = n
	}
}

// WithMetrics replaces the metrics recorder. A nil recorder disables metrics.
func WithMetrics(m *Metrics) Option {
	return func(t *Translator) {
		t.metrics = m
	}
}

// WithTracer replaces the tracer used for the translation span.
func WithTracer(tr trace.Tracer) Option {
	return func(t *Translator) {
		if tr != nil {
			t.tracer = tr
		}
	}
}

// Translator combines per-run session info and contrasts into a single FSL
// level-1 Result, enforcing that all runs share one design.
type Translator struct {
	normalizer  *session.Normalizer
	parallelism int
	metrics     *Metrics
	tracer      trace.Tracer
}

func NewTranslator(normalizer *session.Normalizer, opts ...Option) *Translator {
	if normalizer == nil {
		normalizer = session.NewNormalizer(nil)
	}
	t := &Translator{
		normalizer:  normalizer,
		parallelism: 1,
		metrics:     defaultMetrics(),
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate runs the normalizer and contrast translator over every run and
// returns the aggregate result. Any failure aborts the whole batch.
func (t *Translator) Translate(ctx context.Context, runs []Run) (result *Result, err error) {
	start := time.Now()
	ctx, span := t.tracer.Start(ctx, "level1.Translate", trace.WithAttributes(
		attribute.Int("fslshim.runs", len(runs)),
		attribute.Int("fslshim.parallelism", t.parallelism),
	))
	log := logger.FromContext(ctx)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			log.Debug("batch translation failed", "runs", len(runs), "err", err)
		}
		span.End()
		t.metrics.record(ctx, outcomeOf(err), len(runs), time.Since(start))
	}()

	if len(runs) == 0 {
		return nil, &EmptyBatchError{}
	}
	outputs, err := t.translateRuns(ctx, runs)
	if err != nil {
		return nil, err
	}
	interval, err := sharedInterval(outputs)
	if err != nil {
		return nil, err
	}
	sessionInfo := make([]session.RunInfo, len(outputs))
	for i := range outputs {
		sessionInfo[i] = outputs[i].normalized.Info
	}
	contrasts, err := sharedContrasts(outputs)
	if err != nil {
		return nil, err
	}
	log.Debug("batch translated",
		"runs", len(runs),
		"interscan_interval", interval,
		"contrasts", len(contrasts),
	)
	return &Result{
		InterscanInterval: interval,
		SessionInfo:       sessionInfo,
		Contrasts:         contrasts,
	}, nil
}

// translateRuns processes runs with bounded concurrency. Every run is allowed
// to finish so the reported failure is always the lowest failing index.
func (t *Translator) translateRuns(ctx context.Context, runs []Run) ([]runOutput, error) {
	outputs := make([]runOutput, len(runs))
	errs := make([]error, len(runs))
	var g errgroup.Group
	g.SetLimit(t.parallelism)
	for i := range runs {
		g.Go(func() error {
			out, err := t.translateRun(ctx, i, runs[i])
			if err != nil {
				errs[i] = &RunError{Index: i, Scans: runs[i].Scans, Err: err}
				return errs[i]
			}
			outputs[i] = out
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch translation interrupted: %w", err)
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return outputs, nil
}

func (t *Translator) translateRun(ctx context.Context, index int, run Run) (runOutput, error) {
	if err := ctx.Err(); err != nil {
		return runOutput{}, err
	}
	normalized, err := t.normalizer.Normalize(ctx, run.Scans, run.Session)
	if err != nil {
		return runOutput{}, err
	}
	encoded, err := contrast.Translate(run.Contrasts)
	if err != nil {
		return runOutput{}, err
	}
	logger.FromContext(ctx).Debug("run translated",
		"run", index,
		"scans", run.Scans,
		"regressors", len(normalized.Info.Regress),
		"contrasts", len(encoded),
	)
	return runOutput{normalized: normalized, contrasts: encoded}, nil
}

// sharedInterval requires exactly one distinct inter-scan interval. Values
// are compared with exact float equality.
func sharedInterval(outputs []runOutput) (float64, error) {
	distinct := make([]float64, 0, 1)
	for i := range outputs {
		v := outputs[i].normalized.InterscanInterval
		seen := false
		for _, d := range distinct {
			if d == v {
				seen = true
				break
			}
		}
		if !seen {
			distinct = append(distinct, v)
		}
	}
	if len(distinct) != 1 {
		sort.Float64s(distinct)
		return 0, &InconsistentIntervalError{Values: distinct}
	}
	return distinct[0], nil
}

// sharedContrasts uses run 0 as the reference sequence.
func sharedContrasts(outputs []runOutput) ([]contrast.Encoded, error) {
	reference := outputs[0].contrasts
	for i := 1; i < len(outputs); i++ {
		if !contrast.Equal(reference, outputs[i].contrasts) {
			return nil, &InconsistentContrastsError{
				Run:       i,
				Reference: reference,
				Got:       outputs[i].contrasts,
			}
		}
	}
	if reference == nil {
		reference = []contrast.Encoded{}
	}
	return reference, nil
}
