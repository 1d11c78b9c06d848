package loaders

import (
	"context"
	"net/http"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/repositories"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders contains the per-request batch loaders used when expanding join entities
type Loaders struct {
	AccommodationLoader *dataloader.Loader[string, *entities.Accommodation]
}

// NewLoaders creates a new instance of Loaders
func NewLoaders(accommodationRepo repositories.AccommodationRepository) *Loaders {
	return &Loaders{
		AccommodationLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []string) []*dataloader.Result[*entities.Accommodation] {
			results := make([]*dataloader.Result[*entities.Accommodation], len(keys))
			accommodations, err := accommodationRepo.GetByIDs(ctx, keys)

			accommodationMap := make(map[string]*entities.Accommodation, len(accommodations))
			if err == nil {
				for i := range accommodations {
					accommodationMap[accommodations[i].ID] = &accommodations[i]
				}
			}

			for i, key := range keys {
				if err != nil {
					results[i] = &dataloader.Result[*entities.Accommodation]{Error: err}
				} else if a, ok := accommodationMap[key]; ok {
					results[i] = &dataloader.Result[*entities.Accommodation]{Data: a}
				} else {
					results[i] = &dataloader.Result[*entities.Accommodation]{
						Error: apperrors.NewDanglingReferenceError("accommodation " + key + " not found"),
					}
				}
			}
			return results
		}, dataloader.WithCache[string, *entities.Accommodation](&dataloader.NoCache[string, *entities.Accommodation]{})),
	}
}

// For returns the loaders for a given context, or nil when none are attached
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// Middleware attaches fresh loaders to every request
func Middleware(accommodationRepo repositories.AccommodationRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithLoaders(r.Context(), NewLoaders(accommodationRepo))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadAccommodations resolves ids in order. Missing accommodations come back as nil.
func (l *Loaders) LoadAccommodations(ctx context.Context, ids []string) ([]*entities.Accommodation, error) {
	values, errs := l.AccommodationLoader.LoadMany(ctx, ids)()

	out := make([]*entities.Accommodation, len(ids))
	for i := range ids {
		if i < len(errs) && errs[i] != nil {
			if apperrors.IsType(errs[i], apperrors.ErrorTypeDanglingReference) {
				continue
			}
			return nil, errs[i]
		}
		if i < len(values) {
			out[i] = values[i]
		}
	}
	return out, nil
}
