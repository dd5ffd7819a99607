package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes billing instruments.
type Metrics struct {
	billsCreated    metric.Int64Counter
	readings        metric.Int64Counter
	verifications   metric.Int64Counter
	rateLimitDenied metric.Int64Counter
	configErrors    metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "gridbill"
	}
	meter := provider.Meter(name)

	billsCreated, err := meter.Int64Counter("gridbill_bills_created_total")
	if err != nil {
		return nil, err
	}
	readings, err := meter.Int64Counter("gridbill_readings_recorded_total")
	if err != nil {
		return nil, err
	}
	verifications, err := meter.Int64Counter("gridbill_payment_verifications_total")
	if err != nil {
		return nil, err
	}
	rateLimitDenied, err := meter.Int64Counter("gridbill_rate_limit_denied_total")
	if err != nil {
		return nil, err
	}
	configErrors, err := meter.Int64Counter("gridbill_configuration_errors_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		billsCreated:    billsCreated,
		readings:        readings,
		verifications:   verifications,
		rateLimitDenied: rateLimitDenied,
		configErrors:    configErrors,
	}, nil
}

func (m *Metrics) RecordBillCreated(ctx context.Context, tariffType string) {
	if m == nil {
		return
	}
	m.billsCreated.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("tariff_type", tariffType))...))
}

func (m *Metrics) RecordReading(ctx context.Context, operation string) {
	if m == nil {
		return
	}
	m.readings.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("operation", operation))...))
}

// RecordVerification counts payment verification outcomes such as "paid" or "amount_mismatch".
func (m *Metrics) RecordVerification(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.verifications.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("result", result))...))
}

func (m *Metrics) RecordRateLimitDenied(ctx context.Context, endpoint, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("endpoint", strings.TrimSpace(endpoint)),
		attribute.String("reason", strings.TrimSpace(reason)),
	)
	m.rateLimitDenied.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordConfigurationError(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.configErrors.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("code", code))...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"tariff_type": {},
	"operation":   {},
	"result":      {},
	"endpoint":    {},
	"reason":      {},
	"code":        {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
