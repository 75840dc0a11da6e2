// internal/api/handler/coupon.go
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"coupon-manager/internal/domain"
	"coupon-manager/internal/service"
	"coupon-manager/internal/util"
)

// CouponHandler handles HTTP requests related to coupon operations.
type CouponHandler struct {
	responder
	service service.CouponService
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(svc service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		responder: responder{logger: logger},
		service:   svc,
	}
}

// CouponRequest is the body of create and update requests.
// id and createdAt are not accepted: unknown fields are rejected.
type CouponRequest struct {
	Code               string           `json:"code" validate:"required,max=100"`
	Description        string           `json:"description" validate:"required"`
	Store              string           `json:"store" validate:"required,max=255"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage" validate:"required"`
	Category           *string          `json:"category"`
	ExpiryDate         *domain.Date     `json:"expiryDate"`
	IsUsed             *bool            `json:"isUsed"`
	Notes              *string          `json:"notes"`
}

func (req CouponRequest) toDraft() domain.CouponDraft {
	d := domain.CouponDraft{
		Code:        req.Code,
		Description: req.Description,
		Store:       req.Store,
		Category:    req.Category,
		ExpiryDate:  req.ExpiryDate,
		Notes:       req.Notes,
	}
	if req.DiscountPercentage != nil {
		d.DiscountPercentage = *req.DiscountPercentage
	}
	if req.IsUsed != nil {
		d.IsUsed = *req.IsUsed
	}
	return d
}

// Create handles the create coupon request.
// POST /coupons
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CouponRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	coupon, err := h.service.Create(r.Context(), req.toDraft())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.logger.Info().Int64("coupon_id", coupon.ID).Str("code", coupon.Code).Msg("Coupon created")
	h.respondWithJSON(w, http.StatusCreated, coupon)
}

// List handles the list all coupons request.
// GET /coupons
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	h.respondWithList(w, r, h.service.List)
}

// GetByID handles the get coupon request.
// GET /coupons/{id}
func (h *CouponHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := couponID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	coupon, found, err := h.service.GetByID(r.Context(), id)
	h.respondWithLookup(w, r, coupon, found, err)
}

// GetByCode handles the get coupon by code request.
// GET /coupons/code/{code}
func (h *CouponHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	coupon, found, err := h.service.GetByCode(r.Context(), chi.URLParam(r, "code"))
	h.respondWithLookup(w, r, coupon, found, err)
}

// Update handles the full-field update request.
// PUT /coupons/{id}
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := couponID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	var req CouponRequest
	if err := decodeAndValidate(w, r, &req); err != nil {
		h.respondWithError(w, r, err)
		return
	}

	coupon, err := h.service.Update(r.Context(), id, req.toDraft())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, coupon)
}

// Delete handles the delete coupon request.
// DELETE /coupons/{id}
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := couponID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.logger.Info().Int64("coupon_id", id).Msg("Coupon deleted")
	w.WriteHeader(http.StatusNoContent)
}

// MarkUsed handles the mark-used transition.
// PATCH /coupons/{id}/mark-used
func (h *CouponHandler) MarkUsed(w http.ResponseWriter, r *http.Request) {
	id, err := couponID(r)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}

	coupon, err := h.service.MarkUsed(r.Context(), id)
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, coupon)
}

// GET /coupons/active
func (h *CouponHandler) Active(w http.ResponseWriter, r *http.Request) {
	h.respondWithList(w, r, h.service.Active)
}

// GET /coupons/expiring-soon
func (h *CouponHandler) ExpiringSoon(w http.ResponseWriter, r *http.Request) {
	h.respondWithList(w, r, h.service.ExpiringSoon)
}

// GET /coupons/expired
func (h *CouponHandler) Expired(w http.ResponseWriter, r *http.Request) {
	h.respondWithList(w, r, h.service.Expired)
}

// GET /coupons/used
func (h *CouponHandler) Used(w http.ResponseWriter, r *http.Request) {
	h.respondWithList(w, r, h.service.Used)
}

// GET /coupons/unused
func (h *CouponHandler) Unused(w http.ResponseWriter, r *http.Request) {
	h.respondWithList(w, r, h.service.Unused)
}

// GET /coupons/store/{store}
func (h *CouponHandler) ByStore(w http.ResponseWriter, r *http.Request) {
	store := chi.URLParam(r, "store")
	h.respondWithList(w, r, func(ctx context.Context) ([]domain.Coupon, error) {
		return h.service.ByStore(ctx, store)
	})
}

// GET /coupons/category/{category}
func (h *CouponHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	h.respondWithList(w, r, func(ctx context.Context) ([]domain.Coupon, error) {
		return h.service.ByCategory(ctx, category)
	})
}

// Search handles free-text search across code, description, store and category.
// GET /coupons/search?q=term
func (h *CouponHandler) Search(w http.ResponseWriter, r *http.Request) {
	if !r.URL.Query().Has("q") {
		h.respondWithError(w, r, util.ErrInvalidInput)
		return
	}
	term := r.URL.Query().Get("q")
	h.respondWithList(w, r, func(ctx context.Context) ([]domain.Coupon, error) {
		return h.service.Search(ctx, term)
	})
}

func (h *CouponHandler) respondWithList(w http.ResponseWriter, r *http.Request, view func(context.Context) ([]domain.Coupon, error)) {
	coupons, err := view(r.Context())
	if err != nil {
		h.respondWithError(w, r, err)
		return
	}
	h.respondWithJSON(w, http.StatusOK, coupons)
}

func (h *CouponHandler) respondWithLookup(w http.ResponseWriter, r *http.Request, coupon *domain.Coupon, found bool, err error) {
	switch {
	case err != nil:
		h.respondWithError(w, r, err)
	case !found:
		h.respondWithError(w, r, util.ErrNotFound)
	default:
		h.respondWithJSON(w, http.StatusOK, coupon)
	}
}

func couponID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, util.ErrInvalidInput
	}
	return id, nil
}
