package api

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/imaging"
	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/model"
	"github.com/zczlr12/comp0034-cw1i-zczlr12/internal/store"
)

// msgItemNotFound is the literal body clients assert on for missing items.
const msgItemNotFound = "404 Not Found: Item not found."

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// itemRequest covers both creation and partial update. Pointer fields
// distinguish absent from zero-valued input.
type itemRequest struct {
	Name        *string `json:"name"`
	BrandNumber *int64  `json:"brand_number"`
	ItemNumber  *int64  `json:"item_number"`
}

func (req itemRequest) validateCreate() fieldErrors {
	fe := fieldErrors{}
	if req.Name == nil || *req.Name == "" {
		fe.add("name", msgMissingField)
	}
	if req.BrandNumber == nil {
		fe.add("brand_number", msgMissingField)
	}
	if req.ItemNumber == nil {
		fe.add("item_number", msgMissingField)
	}
	return fe
}

// List handles GET /items. Items are returned without their data records.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		slog.Error("listing items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /items/{id}, returning the item with its data records.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	detail, err := store.GetItemDetail(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if detail == nil {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}

	jsonResponse(w, http.StatusOK, detail)
}

// Create handles POST /items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if fe := req.validateCreate(); len(fe) > 0 {
		jsonResponse(w, http.StatusBadRequest, fe)
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, *req.Name, *req.BrandNumber, *req.ItemNumber)
	if err != nil {
		slog.Error("creating item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	jsonMessage(w, http.StatusCreated, fmt.Sprintf("Item created with id %d.", item.ID))
}

// Patch handles PATCH /items/{id}. Only fields present in the payload are
// updated; omitted fields keep their prior values.
func (h *ItemsHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	_, err = store.PatchItem(r.Context(), h.DB, id, req.Name, req.BrandNumber, req.ItemNumber)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		slog.Error("updating item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	jsonMessage(w, http.StatusOK, fmt.Sprintf("Item with id %d updated.", id))
}

// Delete handles DELETE /items/{id}. The item's data records are deleted with
// it in a single transaction.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	err = store.DeleteItem(r.Context(), h.DB, id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		slog.Error("deleting item", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	jsonMessage(w, http.StatusOK, fmt.Sprintf("The item with id %d has been deleted", id))
}

// UploadImage handles PUT /items/{id}/image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	processed, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = store.SetItemImage(r.Context(), h.DB, id, processed.Data, processed.MIME)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, http.StatusNotFound, msgItemNotFound)
		return
	}
	if err != nil {
		slog.Error("saving item image", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonMessage(w, http.StatusOK, "Image uploaded.")
}

// GetImage handles GET /items/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		slog.Error("getting item image", "id", id, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
