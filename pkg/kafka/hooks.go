package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// ConsumerHook runs around every handler invocation. BeforeHandle may
// enrich ctx; returning an error skips the handler and routes the
// message to the DLQ path.
type ConsumerHook interface {
	BeforeHandle(ctx context.Context, km kafka.Message) (context.Context, error)
	AfterHandle(ctx context.Context, km kafka.Message, err error)
}

// NoopHook does nothing.
type NoopHook struct{}

func (NoopHook) BeforeHandle(ctx context.Context, _ kafka.Message) (context.Context, error) {
	return ctx, nil
}

func (NoopHook) AfterHandle(context.Context, kafka.Message, error) {}

// TraceHook copies the trace_id header into the handler context.
type TraceHook struct{}

func (TraceHook) BeforeHandle(ctx context.Context, km kafka.Message) (context.Context, error) {
	return WithTraceID(ctx, ExtractTraceID(km)), nil
}

func (TraceHook) AfterHandle(context.Context, kafka.Message, error) {}

// HookChain applies hooks in order before and in reverse after.
// A panicking hook is converted into an error.
type HookChain []ConsumerHook

func (c HookChain) BeforeHandle(ctx context.Context, km kafka.Message) (out context.Context, err error) {
	out = ctx
	for _, h := range c {
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("hook panic: %v", r)
				}
			}()
			out, err = h.BeforeHandle(out, km)
		}()
		if err != nil {
			return ctx, err
		}
	}
	return out, nil
}

func (c HookChain) AfterHandle(ctx context.Context, km kafka.Message, err error) {
	for i := len(c) - 1; i >= 0; i-- {
		func() {
			defer func() { _ = recover() }()
			c[i].AfterHandle(ctx, km, err)
		}()
	}
}

type ctxKey string

const (
	ctxTraceID  ctxKey = "kafka_trace_id"
	traceHeader        = "trace_id"
)

// WithTraceID stores a correlation id in ctx.
func WithTraceID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxTraceID, id)
}

// TraceIDFrom returns the correlation id stored by WithTraceID.
func TraceIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxTraceID).(string)
	return id
}

// ExtractTraceID reads the trace_id header.
func ExtractTraceID(msg kafka.Message) string {
	for _, h := range msg.Headers {
		if h.Key == traceHeader && len(h.Value) > 0 {
			return string(h.Value)
		}
	}
	return ""
}
