package logger

import (
	"context"
	"log/slog"
)

type contextKey string

// Business context keys emitted on every log record.
const (
	TherapistIDKey contextKey = "aegis.therapist.id"
	PatientIDKey   contextKey = "aegis.patient.id"
)

// WithTherapistID tags ctx with the acting therapist.
func WithTherapistID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, TherapistIDKey, id)
}

// WithPatientID tags ctx with the patient being viewed.
func WithPatientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, PatientIDKey, id)
}

func contextAttrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var attrs []slog.Attr
	for _, key := range []contextKey{TherapistIDKey, PatientIDKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			attrs = append(attrs, slog.String(string(key), v))
		}
	}
	return attrs
}
