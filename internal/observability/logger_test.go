package observability

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestWithFields_AccumulatesAcrossCalls(t *testing.T) {
	ctx := context.Background()
	ctx = WithFields(ctx, Field{"a", 1})
	ctx = WithFields(ctx, Field{"b", "two"})

	fields := getObservabilityFields(ctx)
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != "a" || fields[1].Key != "b" {
		t.Errorf("fields out of order: %+v", fields)
	}
}

func TestGetRealClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		forwardedFor string
		want         string
	}{
		{
			name:         "single forwarded address",
			forwardedFor: "203.0.113.7",
			want:         "203.0.113.7",
		},
		{
			name:         "chain keeps first hop",
			forwardedFor: "203.0.113.7, 10.0.0.1",
			want:         "203.0.113.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			c.Request.Header.Set("X-Forwarded-For", tt.forwardedFor)

			if got := GetRealClientIP(c); got != tt.want {
				t.Errorf("GetRealClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMergeFields_MetricOverridesContext(t *testing.T) {
	ctx := WithFields(context.Background(), Field{"status", "pending"})
	merged := mergeFields(ctx, []MetricField{{"status", "completed"}, {"count", 3}})

	if len(merged) != 2 {
		t.Fatalf("expected 2 merged fields, got %d", len(merged))
	}
}
