package web

import (
	"net/http"

	"lifeline/internal/application/projections"
)

// handleServices handles GET /api/services?category=&q=.
func handleServices(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	result, err := projections.QueryGetServices(r.Context(), projections.GetServicesQuery{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("q"),
	}, projections.GetServicesDeps{ServiceStore: stores.ServiceStore})
	if err != nil {
		internalError(w, err)
		return
	}

	type serviceView struct {
		ID           string   `json:"id"`
		Title        string   `json:"title"`
		Category     string   `json:"category"`
		Description  string   `json:"description"`
		DetailsHTML  string   `json:"details_html"`
		Icon         string   `json:"icon"`
		Requirements []string `json:"requirements"`
		Locations    []string `json:"locations"`
		Contact      string   `json:"contact"`
		Phone        string   `json:"phone"`
		Hours        string   `json:"hours"`
		Urgency      string   `json:"urgency"`
	}
	views := make([]serviceView, 0, len(result.Services))
	for _, svc := range result.Services {
		views = append(views, serviceView{
			ID:           svc.ID,
			Title:        svc.Title,
			Category:     svc.Category,
			Description:  svc.Description,
			DetailsHTML:  renderMarkdown(svc.Details),
			Icon:         svc.Icon,
			Requirements: svc.Requirements,
			Locations:    svc.Locations,
			Contact:      svc.Contact,
			Phone:        svc.Phone,
			Hours:        svc.Hours,
			Urgency:      svc.Urgency,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"services": views,
		"total":    result.Total,
		"matched":  len(views),
	})
}
