package infra

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.uber.org/fx"

	"tolet.dev/backend/internal/app/appconfig"
	"tolet.dev/backend/internal/constant"
	"tolet.dev/backend/internal/pkg/bininfo"
)

// Tracing returns nil when tracing is disabled.
func Tracing(conf *appconfig.Config, lc fx.Lifecycle) (*tracesdk.TracerProvider, error) {
	if !conf.TracingEnabled {
		return nil, nil
	}

	opts := []tracesdk.TracerProviderOption{
		tracesdk.WithSampler(tracesdk.ParentBased(tracesdk.TraceIDRatioBased(conf.TracingSampleRate))),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(constant.ServiceName),
			semconv.ServiceVersionKey.String(bininfo.Version),
			attribute.String("environment", lo.Ternary(conf.DevMode, "dev", "prod")),
		)),
	}

	for _, name := range conf.TracingExporters {
		exporter, err := traceExporter(name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, tracesdk.WithBatcher(exporter))
		log.Info().
			Str("evt.name", "infra.tracing.exporter").
			Str("exporter", name).
			Msg("tracing exporter enabled")
	}

	tp := tracesdk.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return tp, nil
}

func traceExporter(name string) (tracesdk.SpanExporter, error) {
	switch name {
	case "otlp":
		// endpoint and headers come from OTEL_EXPORTER_OTLP_* variables
		return otlptracegrpc.New(context.Background())
	case "jaeger":
		return jaeger.New(jaeger.WithCollectorEndpoint())
	case "stdout":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, errors.Errorf("infra: tracing: unknown exporter %q", name)
	}
}
