package httpapi

import (
	"net/http"

	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) pendingChefs(w http.ResponseWriter, r *http.Request) {
	chefs, err := h.Admin.PendingChefs(r.Context(), pageFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, chefs, "Pending chefs fetched successfully")
}

func (h *Handler) moderateChef(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var (
		chef    *domain.ChefProfile
		err     error
		message string
	)
	switch vars["action"] {
	case "approve":
		chef, err = h.Admin.ApproveChef(r.Context(), vars["chefId"])
		message = "Chef approved successfully"
	case "reject":
		chef, err = h.Admin.RejectChef(r.Context(), vars["chefId"])
		message = "Chef rejected"
	default:
		chef, err = h.Admin.SuspendChef(r.Context(), vars["chefId"])
		message = "Chef suspended"
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, chef, message)
}

func (h *Handler) adminBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Admin.ListBookings(r.Context(), r.URL.Query().Get("status"), pageFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, bookings, "Bookings fetched successfully")
}

func (h *Handler) topDishesToday(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.Analytics.TopDishesToday(r.Context(), limitFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, dishes, "Top dishes fetched successfully")
}

func (h *Handler) topChefs(w http.ResponseWriter, r *http.Request) {
	chefs, err := h.Analytics.TopChefs(r.Context(), limitFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, chefs, "Top chefs fetched successfully")
}
