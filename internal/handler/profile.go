package handler

import (
	"encoding/json"
	"net/http"

	"authapi/dto"
	"authapi/internal/usecase"
	"authapi/middleware"
	"authapi/utils"
)

type ProfileHandler struct {
	profileUsecase usecase.ProfileUsecase
}

func NewProfileHandler(profileUsecase usecase.ProfileUsecase) *ProfileHandler {
	return &ProfileHandler{profileUsecase}
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	profile, err := h.profileUsecase.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]any{"user": profile})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var input dto.UpdateProfile
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	profile, err := h.profileUsecase.UpdateProfile(r.Context(), user.ID, &input)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]any{"user": profile})
}

func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "user not authenticated")
		return
	}

	if err := h.profileUsecase.DeleteAccount(r.Context(), user.ID); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "account deleted")
}
