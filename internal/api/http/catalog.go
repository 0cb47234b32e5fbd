package httpapi

import (
	"net/http"
	"strconv"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"

	"github.com/gorilla/mux"
)

func (h *Handler) listChefs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.ChefFilter{
		Specialization: q.Get("specialization"),
		City:           q.Get("city"),
		Search:         q.Get("search"),
		Page:           pageFrom(r),
	}
	if v := q.Get("min_rating"); v != "" {
		rating, err := strconv.ParseFloat(v, 64)
		if err != nil {
			h.writeError(w, r, apperr.BadRequest("min_rating must be a number"))
			return
		}
		f.MinRating = rating
	}
	chefs, err := h.Catalog.ListChefs(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, chefs, "Chefs fetched successfully")
}

func (h *Handler) getChef(w http.ResponseWriter, r *http.Request) {
	chef, err := h.Catalog.Chef(r.Context(), mux.Vars(r)["chefId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, chef, "Chef fetched successfully")
}

func (h *Handler) getChefDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.Catalog.ChefDishes(r.Context(), mux.Vars(r)["chefId"], pageFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, dishes, "Dishes fetched successfully")
}

func (h *Handler) getChefReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Catalog.ChefReviews(r.Context(), mux.Vars(r)["chefId"], pageFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, reviews, "Reviews fetched successfully")
}

func (h *Handler) searchDishes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := domain.DishFilter{
		ChefID:   q.Get("chef_id"),
		Category: q.Get("category"),
		Cuisine:  q.Get("cuisine"),
		Search:   q.Get("search"),
		Page:     pageFrom(r),
	}
	if v := q.Get("vegetarian"); v != "" {
		vegetarian, err := strconv.ParseBool(v)
		if err != nil {
			h.writeError(w, r, apperr.BadRequest("vegetarian must be true or false"))
			return
		}
		f.Vegetarian = &vegetarian
	}
	dishes, err := h.Catalog.SearchDishes(r.Context(), f)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, dishes, "Dishes fetched successfully")
}

func (h *Handler) getDish(w http.ResponseWriter, r *http.Request) {
	dish, err := h.Catalog.Dish(r.Context(), mux.Vars(r)["dishId"])
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, dish, "Dish fetched successfully")
}
