package httpapi

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/aashikantkumar/cheifidea/internal/apperr"
	"github.com/aashikantkumar/cheifidea/internal/domain"
	"github.com/aashikantkumar/cheifidea/internal/service"

	"github.com/gorilla/mux"
)

const maxDishImages = 5

func (h *Handler) chefProfile(w http.ResponseWriter, r *http.Request) {
	chef, err := h.Chefs.Profile(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, chef, "Chef profile fetched successfully")
}

func (h *Handler) updateChefProfile(w http.ResponseWriter, r *http.Request) {
	var patch domain.ChefPatch
	if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}
	chef, err := h.Chefs.UpdateProfile(r.Context(), principalFrom(r.Context()), patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, chef, "Profile updated successfully")
}

func (h *Handler) updateChefImage(w http.ResponseWriter, r *http.Request) {
	kind := service.ImageKind(mux.Vars(r)["kind"])
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		h.writeError(w, r, apperr.BadRequest("File too large"))
		return
	}
	file, header, err := r.FormFile(string(kind))
	if err != nil {
		h.writeError(w, r, apperr.BadRequest("Image file is required"))
		return
	}
	defer file.Close()

	chef, err := h.Chefs.UpdateImage(r.Context(), principalFrom(r.Context()), kind, header.Filename, file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, chef, "Image updated successfully")
}

func (h *Handler) toggleAvailability(w http.ResponseWriter, r *http.Request) {
	chef, err := h.Chefs.ToggleAvailability(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"is_available": chef.IsAvailable}, "Availability updated successfully")
}

func (h *Handler) chefStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Chefs.Stats(r.Context(), principalFrom(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, stats, "Chef stats fetched successfully")
}

func (h *Handler) chefDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.Chefs.Dishes(r.Context(), principalFrom(r.Context()), pageFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, dishes, "Dishes fetched successfully")
}

// dishImages opens the "images" files of a multipart request. The caller
// closes them with the returned func.
func dishImages(r *http.Request) ([]service.Upload, func(), error) {
	if !isMultipart(r) {
		return nil, func() {}, nil
	}
	headers := r.MultipartForm.File["images"]
	if len(headers) > maxDishImages {
		return nil, func() {}, apperr.BadRequest("At most %d images are allowed", maxDishImages)
	}
	var files []multipart.File
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	uploads := make([]service.Upload, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, apperr.BadRequest("Error retrieving the file")
		}
		files = append(files, f)
		uploads = append(uploads, service.Upload{Name: header.Filename, Reader: f})
	}
	return uploads, closeAll, nil
}

// dishForm reads dish fields from a multipart form. List and object fields
// may be sent as JSON strings.
func dishForm(r *http.Request) (service.DishInput, error) {
	form := r.MultipartForm.Value
	get := func(key string) string {
		if v := form[key]; len(v) > 0 {
			return v[0]
		}
		return ""
	}
	in := service.DishInput{
		Name:        get("name"),
		Description: get("description"),
		Category:    get("category"),
		Cuisine:     get("cuisine"),
	}
	var err error
	if v := get("price"); v != "" {
		if in.Price, err = strconv.ParseInt(v, 10, 64); err != nil {
			return in, apperr.BadRequest("Price must be a whole number")
		}
	}
	in.PreparationTime, _ = strconv.Atoi(get("preparation_time"))
	in.Servings, _ = strconv.Atoi(get("servings"))
	if v := get("is_available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return in, apperr.BadRequest("is_available must be true or false")
		}
		in.IsAvailable = &available
	}
	if err := parseMaybeJSON(get("tags"), &in.Tags); err != nil {
		return in, apperr.BadRequest("Invalid tags")
	}
	if err := parseMaybeJSON(get("dietary"), &in.Dietary); err != nil {
		return in, apperr.BadRequest("Invalid dietary info")
	}
	return in, nil
}

func (h *Handler) addDish(w http.ResponseWriter, r *http.Request) {
	var in service.DishInput
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.writeError(w, r, apperr.BadRequest("File too large"))
			return
		}
		var err error
		if in, err = dishForm(r); err != nil {
			h.writeError(w, r, err)
			return
		}
	} else if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	images, closeImages, err := dishImages(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer closeImages()

	dish, err := h.Chefs.AddDish(r.Context(), principalFrom(r.Context()), in, images)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, dish, "Dish added successfully")
}

func (h *Handler) updateDish(w http.ResponseWriter, r *http.Request) {
	var patch domain.DishPatch
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			h.writeError(w, r, apperr.BadRequest("File too large"))
			return
		}
		if raw := r.MultipartForm.Value["data"]; len(raw) > 0 {
			if err := parseMaybeJSON(raw[0], &patch); err != nil {
				h.writeError(w, r, apperr.BadRequest("Invalid dish data"))
				return
			}
		}
	} else if err := decode(r, &patch); err != nil {
		h.writeError(w, r, err)
		return
	}

	images, closeImages, err := dishImages(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer closeImages()

	dish, err := h.Chefs.UpdateDish(r.Context(), principalFrom(r.Context()), mux.Vars(r)["dishId"], patch, images)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, dish, "Dish updated successfully")
}

func (h *Handler) deleteDish(w http.ResponseWriter, r *http.Request) {
	if err := h.Chefs.DeleteDish(r.Context(), principalFrom(r.Context()), mux.Vars(r)["dishId"]); err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{}, "Dish deleted successfully")
}

func (h *Handler) chefBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.Bookings.ListForChef(r.Context(), principalFrom(r.Context()), r.URL.Query().Get("status"), pageFrom(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, bookings, "Bookings fetched successfully")
}

func (h *Handler) updateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status domain.BookingStatus `json:"status"`
	}
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	booking, err := h.Bookings.UpdateStatus(r.Context(), principalFrom(r.Context()), mux.Vars(r)["bookingId"], in.Status)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, booking, "Booking status updated successfully")
}

func (h *Handler) respondToReview(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Comment string `json:"comment"`
	}
	if err := decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}
	review, err := h.Reviews.Respond(r.Context(), principalFrom(r.Context()), mux.Vars(r)["reviewId"], in.Comment)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, review, "Response added successfully")
}
