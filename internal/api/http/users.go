package httpapi

import (
	"net/http"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) userProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Users.Profile(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, user, "User profile fetched successfully")
}

func (h *Handler) updateUserProfile(w http.ResponseWriter, r *http.Request) {
	var patch domain.UserProfilePatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	user, err := h.Users.UpdateProfile(r.Context(), principalFrom(r.Context()), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, user, "Profile updated successfully")
}

func (h *Handler) updateUserAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.writeError(w, r, apperr.BadRequest("File too large"))
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		h.writeError(w, r, apperr.BadRequest("Avatar file is required"))
		return
	}
	defer file.Close()

	user, err := h.Users.UpdateAvatar(r.Context(), principalFrom(r.Context()), header.Filename, file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, user, "Avatar updated successfully")
}

func (h *Handler) userBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.ListForUser(r.Context(), principalFrom(r.Context()), r.URL.Query().Get("status"), pageFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, bookings, "Bookings fetched successfully")
}

func (h *Handler) favorites(w http.ResponseWriter, r *http.Request) {
	chefs, err := h.Users.Favorites(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, chefs, "Favorite chefs fetched successfully")
}

func (h *Handler) addFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.AddFavorite(r.Context(), principalFrom(r.Context()), mux.Vars(r)["chefId"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{}, "Chef added to favorites")
}

func (h *Handler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.RemoveFavorite(r.Context(), principalFrom(r.Context()), mux.Vars(r)["chefId"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{}, "Chef removed from favorites")
}
