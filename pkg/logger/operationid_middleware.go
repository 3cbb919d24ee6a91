package logger

import (
	"context"
	"net/http"

	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"k8s.io/klog/v2"
)

type OperationIDKey string

const OpIDKey OperationIDKey = "opID"
const OpIDHeader string = "X-Operation-ID"

// OperationIDMiddleware tags every request with an operation ID, taken from the
// X-Operation-ID header when present, so all log lines of one request can be correlated.
func OperationIDMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		opID := r.Header.Get(OpIDHeader)
		if opID != "" {
			ctx = context.WithValue(ctx, OpIDKey, opID)
		} else {
			ctx = WithOpID(ctx)
			opID = GetOperationID(ctx)
			r.Header.Set(OpIDHeader, opID)
		}
		w.Header().Set(OpIDHeader, opID)

		span := trace.SpanFromContext(ctx)
		span.SetAttributes(attribute.String(string(OpIDKey), opID))

		logger := klog.FromContext(ctx).WithValues(string(OpIDKey), opID)
		ctx = klog.NewContext(ctx, logger)
		handler.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithOpID(ctx context.Context) context.Context {
	if ctx.Value(OpIDKey) != nil {
		return ctx
	}
	opID := ksuid.New().String()
	return context.WithValue(ctx, OpIDKey, opID)
}

// GetOperationID get operationID of the context
func GetOperationID(ctx context.Context) string {
	if opID, ok := ctx.Value(OpIDKey).(string); ok {
		return opID
	}
	return ""
}
