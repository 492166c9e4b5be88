package checkpoint

import (
	"context"
	"fmt"

	rferrors "github.com/wassim-k/renderflow/pkg/common/errors"
)

// ErrNoProvider is returned when scheduler construction cannot resolve a
// checkpoint provider, neither explicitly nor from an ambient context.
var ErrNoProvider = fmt.Errorf("%w: no checkpoint provider available", rferrors.ErrInvalidConfiguration)

type ambientKey struct{}

// WithAmbientProvider returns a context carrying p as the ambient checkpoint
// provider. Schedulers constructed with that context and no explicit
// provider resolve p at construction time.
func WithAmbientProvider(ctx context.Context, p Provider) context.Context {
	return context.WithValue(ctx, ambientKey{}, p)
}

// AmbientProvider resolves the ambient checkpoint provider from ctx.
// It returns ErrNoProvider if ctx is nil or carries no provider; this is a
// configuration error, not a scheduling error.
func AmbientProvider(ctx context.Context) (Provider, error) {
	if ctx == nil {
		return nil, ErrNoProvider
	}
	p, ok := ctx.Value(ambientKey{}).(Provider)
	if !ok || p == nil {
		return nil, ErrNoProvider
	}
	return p, nil
}
