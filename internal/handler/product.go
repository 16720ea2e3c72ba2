package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"authapi/dto"
	"authapi/internal/usecase"
	"authapi/utils"

	"github.com/gorilla/mux"
)

type ProductHandler struct {
	productUsecase usecase.ProductUsecase
}

func NewProductHandler(productUsecase usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{productUsecase}
}

func productID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.productUsecase.ListProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.productUsecase.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, product)
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input dto.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	product, err := h.productUsecase.CreateProduct(r.Context(), &input)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, product)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var input dto.ProductInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid body")
		return
	}

	product, err := h.productUsecase.UpdateProduct(r.Context(), id, &input)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		utils.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.productUsecase.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "product deleted")
}
