// Package telemetry configures the OpenTelemetry metric provider for freepool
// tooling.
package telemetry

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	apimetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	defaultServiceName = "freepool"
	exporterDialTries  = 5
	exportInterval     = 15 * time.Second
)

// Config selects the OTLP metric exporter target. An empty endpoint installs a
// noop provider.
type Config struct {
	OTLPEndpoint string
	ServiceName  string
}

// Init configures the global meter provider based on the provided
// configuration and returns it together with a shutdown function.
func Init(ctx context.Context, cfg Config) (apimetric.MeterProvider, func(context.Context) error, error) {
	endpoint := strings.TrimSpace(cfg.OTLPEndpoint)
	service := strings.TrimSpace(cfg.ServiceName)
	if service == "" {
		service = defaultServiceName
	}

	if endpoint == "" {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, func(context.Context) error { return nil }, nil
	}

	host, insecure, err := parseEndpoint(endpoint)
	if err != nil {
		return nil, nil, err
	}

	metricOpts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(host)}
	if insecure {
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := newExporterWithRetry(ctx, metricOpts)
	if err != nil {
		return nil, nil, fmt.Errorf("create metric exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(service)))
	if err != nil {
		return nil, nil, fmt.Errorf("create resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(exportInterval))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res))
	otel.SetMeterProvider(mp)

	return mp, mp.Shutdown, nil
}

func newExporterWithRetry(ctx context.Context, opts []otlpmetrichttp.Option) (sdkmetric.Exporter, error) {
	backoffCfg := backoff.NewExponentialBackOff()
	backoffCfg.InitialInterval = 200 * time.Millisecond
	backoffCfg.MaxInterval = 2 * time.Second

	var lastErr error
	for attempt := 0; attempt < exporterDialTries; attempt++ {
		exporter, err := otlpmetrichttp.New(ctx, opts...)
		if err == nil {
			return exporter, nil
		}
		lastErr = err

		sleep := backoffCfg.NextBackOff()
		if sleep == backoff.Stop {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(sleep):
		}
	}
	return nil, lastErr
}

func parseEndpoint(raw string) (string, bool, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false, fmt.Errorf("parse otlp endpoint: %w", err)
	}
	host := parsed.Host
	if host == "" {
		host = raw
	}
	insecure := parsed.Scheme != "https"
	return host, insecure, nil
}
