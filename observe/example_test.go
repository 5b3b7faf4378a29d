package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/keelworks/keel/observe"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "example-service",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: false},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}

	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer func() {
		_ = obs.Shutdown(ctx)
	}()

	fmt.Println("Observer created successfully")
	// Output:
	// Observer created successfully
}

func ExampleNewObserver_validation() {
	cfg := observe.Config{
		ServiceName: "", // fails validation
	}

	_, err := observe.NewObserver(context.Background(), cfg)
	fmt.Println(errors.Is(err, observe.ErrMissingServiceName))
	// Output:
	// true
}

func ExampleNewLoggerWithWriter() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	guardLogger := logger.WithGuard(observe.GuardMeta{
		Name: "payments-db",
		Kind: "breaker",
	})

	guardLogger.Info(context.Background(), "circuit closed")

	fmt.Println(bytes.Contains(buf.Bytes(), []byte(`"guard.name":"payments-db"`)))
	// Output:
	// true
}

func ExampleGuardMeta_SpanName() {
	meta := observe.GuardMeta{Name: "inventory-fetch", Kind: "rate_limiter"}
	fmt.Println(meta.SpanName())
	// Output:
	// guard.exec.rate_limiter.inventory-fetch
}
