package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/useradmin/user-admin/backend/internal/model/user"
	userService "github.com/useradmin/user-admin/backend/internal/service/user"
	"github.com/useradmin/user-admin/backend/pkg/utils"
)

const errUserNotFound = "user not found"

// Handler exposes the user service over HTTP.
type Handler struct {
	users  *userService.Service
	logger *zap.Logger
}

// New creates the user handler.
func New(users *userService.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		users:  users,
		logger: logger,
	}
}

// RegisterRoutes mounts the user routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.handleList)
	r.Post("/users", h.handleCreate)
	r.Get("/users/form", h.handleForm)
	r.Route("/users/{id:[0-9]+}", func(r chi.Router) {
		r.Get("/", h.handleGet)
		r.Put("/", h.handleUpdate)
		r.Patch("/", h.handleUpdate)
		r.Delete("/", h.handleDelete)
	})
}

// handleList lists users, optionally filtered by ?q= and sliced by ?offset=&limit=.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	fields, err := userService.ParseFields(query.Get("fields"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	offset, err := parseNonNegative(query.Get("offset"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := parseNonNegative(query.Get("limit"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	var items []user.User
	if q, ok := query["q"]; ok {
		items = h.users.Search(r.Context(), q[0], fields...)
	} else {
		items = h.users.List(r.Context())
	}

	total := len(items)
	items = window(items, offset, limit)

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": total,
	})
}

func (h *Handler) handleForm(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"fields": user.FormLabels()})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	found, ok := h.users.Get(r.Context(), id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, errUserNotFound)
		return
	}
	utils.RespondJSON(w, http.StatusOK, found)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload user.Fields
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created := h.users.Create(r.Context(), payload)
	h.logger.Info("user created", zap.Int("id", created.ID))
	utils.RespondJSON(w, http.StatusCreated, created)
}

// handleUpdate serves PUT as a full replacement of the form fields and PATCH as a partial merge.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var patch user.Patch
	if r.Method == http.MethodPut {
		var payload user.Fields
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		patch = user.PatchFrom(payload)
	} else if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, ok := h.users.Update(r.Context(), id, patch)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, errUserNotFound)
		return
	}
	h.logger.Info("user updated", zap.Int("id", id))
	utils.RespondJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if !h.users.Delete(r.Context(), id) {
		utils.RespondJSON(w, http.StatusNotFound, map[string]any{"deleted": false, "error": errUserNotFound})
		return
	}
	h.logger.Info("user deleted", zap.Int("id", id))
	utils.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func parseID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

var errNegative = errors.New("negative value")

func parseNonNegative(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errNegative
	}
	return n, nil
}

// window slices items the way the grid pages them. limit 0 means no limit.
func window(items []user.User, offset, limit int) []user.User {
	if offset >= len(items) {
		return []user.User{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
