package api

import "context"

type contextKey string

const subjectKey contextKey = "subject"

// SubjectFromContext returns the authenticated username stored by the auth
// middleware.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

func withSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}
