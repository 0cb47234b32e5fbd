package httpapi

import (
	"net/http"

	"github.com/aashikantkumar/cheifidea/internal/service"

	"github.com/gorilla/mux"
)

func (h *Handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var in service.CreateBookingInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	booking, err := h.Bookings.Create(r.Context(), principalFrom(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, booking, "Booking created successfully")
}

func (h *Handler) getBooking(w http.ResponseWriter, r *http.Request) {
	booking, err := h.Bookings.Get(r.Context(), principalFrom(r.Context()), mux.Vars(r)["bookingId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, booking, "Booking fetched successfully")
}

func (h *Handler) cancelBooking(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Reason string `json:"reason"`
	}
	if r.ContentLength != 0 {
		if err := decode(r, &in); err != nil {
			h.writeError(w, r, err)
			return
		}
	}
	booking, err := h.Bookings.Cancel(r.Context(), principalFrom(r.Context()), mux.Vars(r)["bookingId"], in.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, booking, "Booking cancelled successfully")
}

func (h *Handler) addReview(w http.ResponseWriter, r *http.Request) {
	var in service.ReviewInput
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	review, err := h.Reviews.Add(r.Context(), principalFrom(r.Context()), mux.Vars(r)["bookingId"], in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, review, "Review added successfully")
}

func (h *Handler) bookingQRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.Bookings.QRCode(r.Context(), principalFrom(r.Context()), mux.Vars(r)["bookingId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
