package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/challenger-asso/challenger-api/internal/api/handler/v1/request"
	"github.com/challenger-asso/challenger-api/internal/api/handler/v1/response"
	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/service"
)

type PurchaseService interface {
	ListProducts(ctx context.Context, editionID uint) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	ListPurchases(ctx context.Context, userID, editionID uint) ([]domain.Purchase, error)
	CreatePurchase(ctx context.Context, userID, editionID, productID uint, variant string, quantity int, paymentMethodID string) (service.PurchaseResult, error)
	UpdatePurchase(ctx context.Context, purchaseID uint, variant string, quantity int) (service.PurchaseResult, error)
	DeletePurchase(ctx context.Context, purchaseID uint) error
	MarkAcquitted(ctx context.Context, purchaseID uint) (domain.Purchase, error)
}

type PurchaseHandler struct {
	svc  PurchaseService
	uSvc userGetter
}

func NewPurchaseHandler(svc PurchaseService, uSvc userGetter) *PurchaseHandler {
	return &PurchaseHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleListProducts godoc
// @Summary      List the products of an edition
// @Tags         purchases
// @Produce      json
// @Param        edition_id   query     int  true  "edition ID"
// @Success      200      {array}    domain.Product
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /products [get]
// @Security BearerAuth
func (h *PurchaseHandler) HandleListProducts(ctx *gin.Context) {
	editionID, respErr := parseUintQuery(ctx, "edition_id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	products, err := h.svc.ListProducts(ctx.Request.Context(), editionID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListProducts -> h.svc.ListProducts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, products)
}

// HandleCreateProduct godoc
// @Summary      Create a product
// @Tags         purchases
// @Produce      json
// @Param        request   body      request.CreateProductRequest true "request body"
// @Success      201      {object}   domain.Product
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/products [post]
// @Security BearerAuth
func (h *PurchaseHandler) HandleCreateProduct(ctx *gin.Context) {
	var req request.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	product, err := h.svc.CreateProduct(ctx.Request.Context(), domain.Product{
		EditionID:  req.EditionID,
		Name:       req.Name,
		Required:   req.Required,
		PriceCents: req.PriceCents,
		Variants:   req.Variants,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateProduct -> h.svc.CreateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// HandleListPurchases godoc
// @Summary      List the authenticated user's purchases for an edition
// @Tags         purchases
// @Produce      json
// @Param        edition_id   query     int  true  "edition ID"
// @Success      200      {array}    domain.Purchase
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /purchases [get]
// @Security BearerAuth
func (h *PurchaseHandler) HandleListPurchases(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	editionID, respErr := parseUintQuery(ctx, "edition_id")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	purchases, err := h.svc.ListPurchases(ctx.Request.Context(), user.ID, editionID)
	if err != nil {
		err = fmt.Errorf("v1.HandleListPurchases -> h.svc.ListPurchases -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, purchases)
}

// HandleCreatePurchase godoc
// @Summary      Record a purchase and open its payment intent
// @Tags         purchases
// @Produce      json
// @Param        request   body      request.CreatePurchaseRequest true "request body"
// @Success      201      {object}   service.PurchaseResult
// @Failure      400      {object}   response.Err
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /purchases [post]
// @Security BearerAuth
func (h *PurchaseHandler) HandleCreatePurchase(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreatePurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.CreatePurchase(ctx.Request.Context(), user.ID, req.EditionID, req.ProductID, req.Variant, req.Quantity, req.PaymentMethodID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("product", "ID", req.ProductID))
			return
		}

		err = fmt.Errorf("v1.HandleCreatePurchase -> h.svc.CreatePurchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, result)
}

// HandleUpdatePurchase godoc
// @Summary      Update a purchase's variant or quantity
// @Tags         purchases
// @Produce      json
// @Param        purchaseID   path      int  true  "purchase ID"
// @Param        request      body      request.UpdatePurchaseRequest true "request body"
// @Success      200      {object}   service.PurchaseResult
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /purchases/{purchaseID} [put]
// @Security BearerAuth
func (h *PurchaseHandler) HandleUpdatePurchase(ctx *gin.Context) {
	purchaseID, respErr := parseUintParam(ctx, "purchaseID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.UpdatePurchaseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.UpdatePurchase(ctx.Request.Context(), purchaseID, req.Variant, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("purchase", "ID", purchaseID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdatePurchase -> h.svc.UpdatePurchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}

// HandleDeletePurchase godoc
// @Summary      Delete a purchase
// @Tags         purchases
// @Produce      json
// @Param        purchaseID   path      int  true  "purchase ID"
// @Success      204
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /purchases/{purchaseID} [delete]
// @Security BearerAuth
func (h *PurchaseHandler) HandleDeletePurchase(ctx *gin.Context) {
	purchaseID, respErr := parseUintParam(ctx, "purchaseID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.DeletePurchase(ctx.Request.Context(), purchaseID); err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("purchase", "ID", purchaseID))
			return
		}

		err = fmt.Errorf("v1.HandleDeletePurchase -> h.svc.DeletePurchase -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAcquitPurchase godoc
// @Summary      Mark a purchase as paid
// @Tags         purchases
// @Produce      json
// @Param        purchaseID   path      int  true  "purchase ID"
// @Success      200      {object}   domain.Purchase
// @Failure      400      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /admin/purchases/{purchaseID}/acquit [post]
// @Security BearerAuth
func (h *PurchaseHandler) HandleAcquitPurchase(ctx *gin.Context) {
	purchaseID, respErr := parseUintParam(ctx, "purchaseID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	purchase, err := h.svc.MarkAcquitted(ctx.Request.Context(), purchaseID)
	if err != nil {
		if errors.Is(err, service.ErrPurchaseNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("purchase", "ID", purchaseID))
			return
		}

		err = fmt.Errorf("v1.HandleAcquitPurchase -> h.svc.MarkAcquitted -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, purchase)
}
