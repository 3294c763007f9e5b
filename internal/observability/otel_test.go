package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/tbourn/claims-backend/internal/config"
)

func keepOTelGlobals(t *testing.T) {
	t.Helper()
	tp, prop := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	t.Cleanup(func() {
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(prop)
	})
}

func tracingCfg(insecure bool) config.OTELConfig {
	return config.OTELConfig{
		Enabled:     true,
		Insecure:    insecure,
		Endpoint:    "localhost:4317",
		ServiceName: "claims-backend-test",
		SampleRatio: 1,
	}
}

func TestSetupOTel_DisabledLeavesGlobals(t *testing.T) {
	keepOTelGlobals(t)
	before := otel.GetTracerProvider()

	shutdown, err := SetupOTel(context.Background(), config.OTELConfig{Endpoint: "ignored:4317"}, "v0")
	if err != nil || shutdown == nil {
		t.Fatalf("SetupOTel: err=%v, nil shutdown=%v", err, shutdown == nil)
	}
	if otel.GetTracerProvider() != before {
		t.Fatal("provider replaced while disabled")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("no-op shutdown: %v", err)
	}
}

func TestSetupOTel_InstallsProvider(t *testing.T) {
	for _, insecure := range []bool{true, false} {
		keepOTelGlobals(t)

		// The gRPC exporter connects lazily, so neither an absent collector
		// nor a cancelled context fails setup.
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		shutdown, err := SetupOTel(ctx, tracingCfg(insecure), "v1.0.0")
		if err != nil {
			t.Fatalf("insecure=%v: %v", insecure, err)
		}
		if _, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider); !ok {
			t.Fatalf("insecure=%v: provider %T", insecure, otel.GetTracerProvider())
		}

		carrier := propagation.MapCarrier{}
		spanCtx, span := otel.Tracer("claims").Start(context.Background(), "ClaimService.Create")
		otel.GetTextMapPropagator().Inject(spanCtx, carrier)
		span.End()
		if carrier.Get("traceparent") == "" {
			t.Fatalf("insecure=%v: traceparent not injected", insecure)
		}

		sctx, stop := context.WithTimeout(context.Background(), 250*time.Millisecond)
		_ = shutdown(sctx)
		stop()
	}
}

func TestSetupOTel_ShutdownWithoutSpans(t *testing.T) {
	keepOTelGlobals(t)
	shutdown, err := SetupOTel(context.Background(), tracingCfg(true), "v1")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestSetupOTel_FailuresKeepGlobals(t *testing.T) {
	cases := []struct {
		name  string
		patch func() func()
	}{
		{"exporter", func() func() {
			orig := newTraceExporter
			newTraceExporter = func(context.Context, otlptrace.Client) (*otlptrace.Exporter, error) {
				return nil, errors.New("exporter down")
			}
			return func() { newTraceExporter = orig }
		}},
		{"resource", func() func() {
			orig := newServiceResource
			newServiceResource = func(context.Context, string, string) (*resource.Resource, error) {
				return nil, errors.New("bad resource")
			}
			return func() { newServiceResource = orig }
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			keepOTelGlobals(t)
			t.Cleanup(tc.patch())
			tp, prop := otel.GetTracerProvider(), otel.GetTextMapPropagator()

			if _, err := SetupOTel(context.Background(), tracingCfg(true), "v0"); err == nil {
				t.Fatal("expected error")
			}
			if otel.GetTracerProvider() != tp || otel.GetTextMapPropagator() != prop {
				t.Fatal("globals replaced on failure")
			}
		})
	}
}

func TestServiceResource_Attributes(t *testing.T) {
	res, err := newServiceResource(context.Background(), "claims-backend", "v2.1.0")
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		string(semconv.ServiceNameKey):    "claims-backend",
		string(semconv.ServiceVersionKey): "v2.1.0",
	}
	got := map[string]string{}
	for _, kv := range res.Attributes() {
		got[string(kv.Key)] = kv.Value.Emit()
	}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s = %q, want %q", k, got[k], v)
		}
	}
	if got[string(semconv.ServiceInstanceIDKey)] == "" {
		t.Fatal("service.instance.id missing")
	}
}

func TestSampleRatio_Clamps(t *testing.T) {
	cases := map[float64]float64{-0.5: 0, 0: 0, 0.25: 0.25, 1: 1, 3: 1}
	for in, want := range cases {
		if got := sampleRatio(in); got != want {
			t.Fatalf("sampleRatio(%v) = %v; want %v", in, got, want)
		}
	}
}
