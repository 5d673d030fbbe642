package handlers

import (
	"context"
	"net/http"

	"github.com/vaughan-dsouza/usermgmt/internal/utils"
)

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

func (h *HomeHandler) Index(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"message": "Hello !!! Welcome to Efficient User Management System",
		"status":  "User Management API Running",
	})
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		utils.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
