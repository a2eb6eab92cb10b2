package main

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"
)

var (
	errMissingCompany = eris.New("company_id or company_name is required")
	errMissingQuery   = eris.New("query is required")
)

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// contextWithoutCancel keeps request-scoped values but detaches from the
// request's cancellation, for work that outlives the response.
func contextWithoutCancel(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}
