package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/mongo-user-service/internal/user"
)

type CreateUserResponse struct {
	ID string `json:"id"`
}

type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterRoutes binds the user endpoints. Update and delete answer GET and
// the update path keeps its historical spelling; clients depend on both.
func (h *UserHandler) RegisterRoutes(router chi.Router) {
	router.Post("/addUser", h.handleAddUser)
	router.Get("/getUser/{id}", h.handleGetUser)
	router.Get("/udateUser/{id}", h.handleUpdateUser)
	router.Get("/deleteUser/{id}", h.handleDeleteUser)
}

// decodeFields reads the request body. An empty body decodes to no fields.
func decodeFields(r *http.Request) (user.Fields, error) {
	var fields user.Fields
	if r.Body == nil {
		return fields, nil
	}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil && !errors.Is(err, io.EOF) {
		return user.Fields{}, err
	}
	return fields, nil
}

func (h *UserHandler) handleAddUser(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	id, err := h.service.CreateUser(r.Context(), fields)
	if err != nil {
		respondWithServiceError(w, err, "Failed to create user via service")
		return
	}

	log.Info().Str("user_id", id.Hex()).Msg("User added")
	respondWithSuccess(w, http.StatusOK, "User added successfully", CreateUserResponse{ID: id.Hex()})
}

func (h *UserHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")

	found, err := h.service.GetUserByID(r.Context(), idParam)
	if err != nil {
		respondWithServiceError(w, err, "Failed to get user by id via service")
		return
	}

	respondWithSuccess(w, http.StatusOK, "User retrieved successfully", found)
}

func (h *UserHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")

	fields, err := decodeFields(r)
	if err != nil {
		log.Warn().Err(err).Str("user_id", idParam).Msg("Failed to decode request body")
		respondWithError(w, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}

	res, err := h.service.UpdateUser(r.Context(), idParam, fields)
	if err != nil {
		respondWithServiceError(w, err, "Failed to update user via service")
		return
	}

	summary := fmt.Sprintf("Matched %d document(s) and modified %d document(s)", res.Matched, res.Modified)
	log.Info().Str("user_id", idParam).Msg(summary)
	respondWithSuccess(w, http.StatusOK, "User updated successfully", summary)
}

func (h *UserHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	idParam := chi.URLParam(r, "id")

	deleted, err := h.service.DeleteUser(r.Context(), idParam)
	if err != nil {
		respondWithServiceError(w, err, "Failed to delete user via service")
		return
	}

	log.Info().Str("user_id", idParam).Msg("User deleted")
	respondWithSuccess(w, http.StatusOK, "User deleted successfully", fmt.Sprintf("Deleted %d user(s)", deleted))
}
