package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/vaughan-dsouza/usermgmt/internal/utils"
)

type Handler struct {
	Home   *HomeHandler
	Health *HealthHandler
	Users  *UserHandler
}

func NewHandler(users UserService, store Pinger) *Handler {
	return &Handler{
		Home:   NewHomeHandler(),
		Health: NewHealthHandler(store),
		Users:  NewUserHandler(users),
	}
}

// serverError logs err and reports it to the client as a 500 with the raw
// message.
func serverError(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("unhandled error")

	utils.JSONError(w, http.StatusInternalServerError, err.Error())
}
