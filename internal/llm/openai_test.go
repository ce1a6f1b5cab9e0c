package llm

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func newTestClient() *openaiClient {
	logger := zerolog.Nop()

	return &openaiClient{
		logger:      &logger,
		rateLimiter: rate.NewLimiter(rate.Inf, 1),
		timeout:     time.Second,
	}
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	c := newTestClient()

	for i := 0; i < circuitBreakerThreshold-1; i++ {
		c.recordFailure()

		if err := c.checkCircuit(); err != nil {
			t.Fatalf("circuit opened after %d failures, threshold is %d", i+1, circuitBreakerThreshold)
		}
	}

	c.recordFailure()

	if err := c.checkCircuit(); err == nil {
		t.Fatalf("circuit still closed after %d failures", circuitBreakerThreshold)
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	c := newTestClient()

	for i := 0; i < circuitBreakerThreshold-1; i++ {
		c.recordFailure()
	}

	c.recordSuccess()

	for i := 0; i < circuitBreakerThreshold-1; i++ {
		c.recordFailure()
	}

	if err := c.checkCircuit(); err != nil {
		t.Fatal("circuit opened even though a success reset the failure count")
	}
}

func TestComplete_ShortCircuitsWhileOpen(t *testing.T) {
	c := newTestClient()
	c.circuitOpenUntil = time.Now().Add(time.Minute)

	// With the circuit open, complete must fail before touching the API
	// client, which is nil here.
	_, err := c.complete(context.Background(), TaskClassify, "prompt", false)
	if err == nil {
		t.Fatal("expected an error while the circuit is open")
	}

	if !strings.Contains(err.Error(), "circuit breaker is open") {
		t.Fatalf("unexpected error: %v", err)
	}
}
