// Package layer drives the object tracker from an API call interception
// point. Each intercepted call is validated, optionally blocked, recorded
// around the real call, and its diagnostics are reported.
package layer

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/objtrack/config"
	"github.com/wippyai/objtrack/diag"
	"github.com/wippyai/objtrack/errors"
	"github.com/wippyai/objtrack/metrics"
	"github.com/wippyai/objtrack/tracker"
	"github.com/wippyai/objtrack/vuid"
	"github.com/wippyai/objtrack/vulkan"
)

// Next invokes the intercepted call and returns its result.
type Next func(ctx context.Context) vulkan.Result

// Option configures a Layer.
type Option func(*Layer)

// WithLogger sets the logger used by the layer, its tracker and the
// default reporter.
func WithLogger(l *zap.Logger) Option {
	return func(ly *Layer) {
		ly.log = l
	}
}

// WithReporter adds a reporter that receives every diagnostic.
func WithReporter(r diag.Reporter) Option {
	return func(ly *Layer) {
		ly.extra = append(ly.extra, r)
	}
}

// WithMetrics feeds registry events and diagnostics to c.
func WithMetrics(c *metrics.Collector) Option {
	return func(ly *Layer) {
		ly.metrics = c
	}
}

// WithoutLogReporter disables the default warn-level diagnostic log.
func WithoutLogReporter() Option {
	return func(ly *Layer) {
		ly.quiet = true
	}
}

// Layer is the interception flow around a Tracker.
type Layer struct {
	tracker   *tracker.Tracker
	log       *zap.Logger
	metrics   *metrics.Collector
	reporters diag.Reporters
	extra     []diag.Reporter
	blocking  bool
	quiet     bool
}

// New builds a layer for cfg. The VUID catalog is the built-in list plus
// the identifiers in cfg.CatalogPath, when set.
func New(cfg config.Config, opts ...Option) (*Layer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ly := &Layer{blocking: cfg.Blocking}
	for _, opt := range opts {
		opt(ly)
	}
	if ly.log == nil {
		ly.log = Logger()
	}

	variant, err := cfg.VariantValue()
	if err != nil {
		return nil, err
	}
	catalog, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	tr, err := tracker.NewForVariant(variant, catalog, ly.log.Named("tracker"))
	if err != nil {
		return nil, err
	}
	ly.tracker = tr

	if !ly.quiet {
		ly.reporters = append(ly.reporters, &LogReporter{Log: ly.log})
	}
	if ly.metrics != nil {
		tr.Registry().Subscribe(ly.metrics)
		ly.reporters = append(ly.reporters, ly.metrics)
	}
	ly.reporters = append(ly.reporters, ly.extra...)

	ly.log.Debug("object tracker layer ready",
		zap.String("variant", string(variant)),
		zap.Int("vuids", catalog.Len()),
		zap.Bool("blocking", ly.blocking))
	return ly, nil
}

func loadCatalog(path string) (*vuid.Catalog, error) {
	catalog := vulkan.Catalog()
	if path == "" {
		return catalog, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseCatalog, errors.KindNotFound, err, "open "+path)
	}
	defer f.Close()
	if _, err := catalog.Load(f); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Tracker returns the underlying tracker.
func (ly *Layer) Tracker() *tracker.Tracker {
	return ly.tracker
}

// Blocking reports whether calls with error diagnostics are skipped.
func (ly *Layer) Blocking() bool {
	return ly.blocking
}

// Call runs one intercepted call. When validation reports an error and the
// layer is blocking, next is not invoked and VK_ERROR_VALIDATION_FAILED_EXT
// is returned. Otherwise the result of next is returned.
func (ly *Layer) Call(ctx context.Context, call tracker.Call, next Next) (vulkan.Result, diag.Outcome) {
	out := ly.tracker.PreCallValidate(call)
	if out.Skip && ly.blocking {
		ly.report(out)
		ly.log.Debug("call blocked", zap.String("command", call.Command), zap.Int("diagnostics", len(out.Diagnostics)))
		return vulkan.ErrorValidationFailedEXT, out
	}

	out.Merge(ly.tracker.Teardown(call))
	ly.tracker.PreCallRecord(call)

	result := vulkan.Success
	if next != nil {
		result = next(ctx)
	}

	ly.tracker.PostCallRecord(call, result)
	ly.report(out)
	return result, out
}

func (ly *Layer) report(out diag.Outcome) {
	for _, d := range out.Diagnostics {
		ly.reporters.Report(d)
	}
}

// Close detaches the metrics collector from the registry.
func (ly *Layer) Close() {
	if ly.metrics != nil {
		ly.tracker.Registry().Unsubscribe(ly.metrics)
	}
}

// LogReporter logs each diagnostic at warn level.
type LogReporter struct {
	Log *zap.Logger
}

// Report implements diag.Reporter.
func (r *LogReporter) Report(d diag.Diagnostic) {
	fields := []zap.Field{
		zap.String("rule", d.RuleID),
		zap.String("location", d.Location),
		zap.String("kind", string(d.Kind)),
		zap.Stringer("object", d.Object),
	}
	if !d.Handle.IsNull() {
		fields = append(fields, zap.Stringer("handle", d.Handle))
	}
	r.Log.Warn(d.Message, fields...)
}
