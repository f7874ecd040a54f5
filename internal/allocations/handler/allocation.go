package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"fleetalloc/internal/allocations/service"
	"fleetalloc/pkg/config"
	httputil "fleetalloc/pkg/http"
	"fleetalloc/pkg/logger"
	"fleetalloc/pkg/model"
)

type AllocationHandler struct {
	service service.AllocationService
	cfg     *config.Config
	log     *logger.Logger
}

func NewAllocationHandler(service service.AllocationService, cfg *config.Config) *AllocationHandler {
	return &AllocationHandler{
		service: service,
		cfg:     cfg,
		log:     cfg.Log,
	}
}

func (h *AllocationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var allocation model.Allocation
	if err := json.NewDecoder(r.Body).Decode(&allocation); err != nil {
		h.writeJSON(w, "Create", http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}

	created, err := h.service.Create(r.Context(), &allocation)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, created); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *AllocationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	var patch model.AllocationPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeJSON(w, "Update", http.StatusBadRequest, httputil.ErrorResponse{Error: "Invalid request body"})
		return
	}

	updated, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, updated); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *AllocationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteDetail(w, "Allocation deleted successfully."); err != nil {
		h.log.Error("failed to write detail response", "handler", "Delete", "error", err)
	}
}

func (h *AllocationHandler) History(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter, err := extractHistoryFilter(r)
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	skip, limit, err := httputil.ExtractSkipLimit(r)
	if err != nil {
		h.writeError(w, "History", err)
		return
	}
	skip = h.cfg.NormalizeSkip(skip)
	limit = h.cfg.NormalizeLimit(limit)

	page, err := h.service.History(r.Context(), filter, skip, limit)
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	response := httputil.HistoryResponse{
		Total:   page.Total,
		Skip:    skip,
		Limit:   limit,
		Results: page.Results,
	}
	if err := httputil.WriteSuccess(w, response); err != nil {
		h.log.Error("failed to write history response", "handler", "History", "error", err)
	}
}

func (h *AllocationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/allocate", h.Create)
	router.PUT("/allocate/:id", h.Update)
	router.DELETE("/allocate/:id", h.Delete)
	router.GET("/history", h.History)
}

func extractHistoryFilter(r *http.Request) (model.HistoryFilter, error) {
	var filter model.HistoryFilter
	var err error

	if filter.EmployeeID, err = httputil.ExtractOptionalInt(r, "employee_id"); err != nil {
		return filter, err
	}
	if filter.VehicleID, err = httputil.ExtractOptionalInt(r, "vehicle_id"); err != nil {
		return filter, err
	}
	if filter.DriverID, err = httputil.ExtractOptionalInt(r, "driver_id"); err != nil {
		return filter, err
	}
	if date := r.URL.Query().Get("allocation_date"); date != "" {
		filter.AllocationDate = &date
	}

	return filter, nil
}

func (h *AllocationHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *AllocationHandler) writeJSON(w http.ResponseWriter, handlerName string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.Error("failed to write JSON response", "handler", handlerName, "error", err)
	}
}
