package controllers

import (
	"net/http"

	"allergy-register-service/internal/pkg/constvars"
	"allergy-register-service/internal/pkg/dto/requests"
	"allergy-register-service/internal/pkg/utils"
)

const controllerRequestTimeout = 30

// parseSortState reads the sort/order query pair. Both must be present and
// the order must be a known direction for a sort to apply.
func parseSortState(r *http.Request) *utils.SortState {
	key := r.URL.Query().Get(constvars.QueryParamSort)
	order := r.URL.Query().Get(constvars.QueryParamOrder)
	if key == "" {
		return nil
	}
	if order != constvars.SortDirectionAsc && order != constvars.SortDirectionDesc {
		return nil
	}
	return &utils.SortState{Key: key, Direction: order}
}

// parseListOptions collects the whitelisted filter params plus the sort state.
func parseListOptions(r *http.Request, filterKeys map[string]string) *requests.ListOptions {
	filters := map[string]string{}
	for queryParam, fieldKey := range filterKeys {
		if value := r.URL.Query().Get(queryParam); value != "" {
			filters[fieldKey] = value
		}
	}
	return &requests.ListOptions{
		Filters: filters,
		Sort:    parseSortState(r),
	}
}
