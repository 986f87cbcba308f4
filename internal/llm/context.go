package llm

import "context"

type purposeKey struct{}

// UnknownPurpose is recorded for calls made without WithPurpose.
const UnknownPurpose = "unknown"

// WithPurpose labels calls made with ctx, e.g. "study-tip". The label is
// stored with each logged LLM event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or UnknownPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return UnknownPurpose
}
