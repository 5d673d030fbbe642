package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vaughan-dsouza/usermgmt/internal/metrics"
	"github.com/vaughan-dsouza/usermgmt/internal/models"
	"github.com/vaughan-dsouza/usermgmt/internal/utils"
)

const (
	msgUserNotFound    = "User not found"
	msgEmailExists     = "Email already exists"
	msgInvalidEmail    = "Invalid email format"
	msgInvalidPassword = "Password must be at least 6 characters long and include letters and numbers"
)

// UserService is the set of user operations the HTTP layer depends on.
// *service.UserService implements it.
type UserService interface {
	ListAll(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, name, email, password string) (int64, error)
	Update(ctx context.Context, id int64, name, email string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	SearchByName(ctx context.Context, fragment string) ([]models.User, error)
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
}

type UserHandler struct {
	Users    UserService
	validate *requestValidator
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{Users: users, validate: newRequestValidator()}
}

// ----------- Request DTOs -------------

type createUserReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,useremail"`
	Password string `json:"password" validate:"required,userpassword"`
}

type updateUserReq struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,useremail"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ---------------------- LIST ----------------------

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListAll(r.Context())
	if err != nil {
		serverError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, users)
}

// ---------------------- GET ONE ----------------------

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	user, err := h.Users.Get(r.Context(), id)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if user == nil {
		utils.JSONError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// ---------------------- CREATE ----------------------

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		serverError(w, r, err)
		return
	}

	if msg, ok := h.validate.check(req, map[string]string{
		"required":     "Missing required fields",
		"useremail":    msgInvalidEmail,
		"userpassword": msgInvalidPassword,
	}); !ok {
		utils.JSONError(w, http.StatusBadRequest, msg)
		return
	}

	exists, err := h.Users.ExistsByEmail(r.Context(), req.Email)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if exists {
		utils.JSONError(w, http.StatusBadRequest, msgEmailExists)
		return
	}

	if _, err := h.Users.Create(r.Context(), req.Name, req.Email, req.Password); err != nil {
		if errors.Is(err, models.ErrEmailExists) {
			utils.JSONError(w, http.StatusBadRequest, msgEmailExists)
			return
		}
		serverError(w, r, err)
		return
	}

	metrics.UsersCreatedTotal.Inc()
	utils.JSONMessage(w, http.StatusCreated, "User created successfully")
}

// ---------------------- UPDATE ----------------------

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	var req updateUserReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		serverError(w, r, err)
		return
	}

	if msg, ok := h.validate.check(req, map[string]string{
		"required":  "Missing name or email",
		"useremail": msgInvalidEmail,
	}); !ok {
		utils.JSONError(w, http.StatusBadRequest, msg)
		return
	}

	n, err := h.Users.Update(r.Context(), id, req.Name, req.Email)
	if errors.Is(err, models.ErrEmailExists) {
		utils.JSONError(w, http.StatusBadRequest, msgEmailExists)
		return
	}
	if err != nil {
		serverError(w, r, err)
		return
	}
	if n == 0 {
		utils.JSONError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	utils.JSONMessage(w, http.StatusOK, "User updated successfully")
}

// ---------------------- DELETE ----------------------

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(r)
	if !ok {
		utils.JSONError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	n, err := h.Users.Delete(r.Context(), id)
	if err != nil {
		serverError(w, r, err)
		return
	}
	if n == 0 {
		utils.JSONError(w, http.StatusNotFound, msgUserNotFound)
		return
	}

	utils.JSONMessage(w, http.StatusOK, fmt.Sprintf("User %d deleted successfully", id))
}

// ---------------------- SEARCH ----------------------

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		utils.JSONError(w, http.StatusBadRequest, "Please provide a name to search")
		return
	}

	users, err := h.Users.SearchByName(r.Context(), name)
	if err != nil {
		serverError(w, r, err)
		return
	}

	utils.JSON(w, http.StatusOK, users)
}

// ---------------------- LOGIN ----------------------

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := utils.DecodeJSON(r, &req); err != nil {
		serverError(w, r, err)
		return
	}

	if msg, ok := h.validate.check(req, map[string]string{
		"required": "Missing email or password",
	}); !ok {
		utils.JSONError(w, http.StatusBadRequest, msg)
		return
	}

	res, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		serverError(w, r, err)
		return
	}

	metrics.LoginsTotal.WithLabelValues(res.Status).Inc()

	if res.Status != models.LoginSuccess {
		utils.JSON(w, http.StatusUnauthorized, res)
		return
	}
	utils.JSON(w, http.StatusOK, res)
}

func userID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
