package projections

import (
	"context"

	"lifeline/internal/domain/service"
)

// ServiceStoreForDirectory defines the store interface needed by the
// service directory projection.
type ServiceStoreForDirectory interface {
	List(ctx context.Context) ([]service.Service, error)
}

// GetServicesQuery carries the directory's filter controls.
type GetServicesQuery struct {
	Category string // "", "all", or one of the service categories
	Search   string // free-text, matched against title and description
}

// GetServicesDeps holds dependencies for the service directory projection.
type GetServicesDeps struct {
	ServiceStore ServiceStoreForDirectory
}

// GetServicesResult carries the filtered directory view.
type GetServicesResult struct {
	Services []service.Service
	Total    int // catalog size before filtering
}

// QueryGetServices returns the catalog filtered by category and search
// query. Order is the catalog's insertion order; filtering never reorders.
func QueryGetServices(ctx context.Context, query GetServicesQuery, deps GetServicesDeps) (GetServicesResult, error) {
	all, err := deps.ServiceStore.List(ctx)
	if err != nil {
		return GetServicesResult{}, err
	}

	matched := make([]service.Service, 0, len(all))
	for _, svc := range all {
		if svc.Matches(query.Category, query.Search) {
			matched = append(matched, svc)
		}
	}

	return GetServicesResult{Services: matched, Total: len(all)}, nil
}
