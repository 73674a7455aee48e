package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/payment"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
	validator       *validator.Validate
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService, validator: validator.New()}
}

// Checkout godoc
//
//	@Summary	Submit the cart as an order
//	@Router		/api/v1/checkout [post]
func (h *CheckoutHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var form models.CheckoutForm
		if !utils.ParseAndValidate(r, w, &form, h.validator) {
			logger.Warn("Invalid checkout input")
			return
		}

		result, err := h.checkoutService.Checkout(r.Context(), &form)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, result)
	}
}

func (h *CheckoutHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := pathID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		confirmation, err := h.checkoutService.GetOrderConfirmation(r.Context(), id)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Failed to load order", slog.String("orderId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, confirmation)
	}
}

type PaymentPoller interface {
	Run(ctx context.Context, sessionID string) (payment.Result, error)
}

type PaymentHandler struct {
	poller PaymentPoller
}

func NewPaymentHandler(poller PaymentPoller) *PaymentHandler {
	return &PaymentHandler{poller: poller}
}

// PaymentReturn godoc
//
//	@Summary	Confirm a hosted checkout once the shopper is sent back
//	@Param		session_id	query	string	true	"Checkout session ID"
//	@Router		/api/v1/payments/return [get]
func (h *PaymentHandler) PaymentReturn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		sessionID := r.URL.Query().Get("session_id")
		if sessionID == "" {
			logger.Warn("Payment return without session id, redirecting home")
			response.Redirect(w, r, "/")
			return
		}

		result, err := h.poller.Run(r.Context(), sessionID)
		if err != nil {
			switch {
			case errors.Is(err, payment.ErrMissingSession):
				response.Redirect(w, r, "/")
			case errors.Is(err, context.Canceled), errors.Is(err, payment.ErrStopped):
				logger.Info("Payment confirmation abandoned", slog.String("sessionId", sessionID))
			default:
				logger.Error("Payment confirmation failed", slog.String("sessionId", sessionID), slog.Any("error", err))
				response.Error(w, appErrors.InternalError("Payment confirmation interrupted").WithError(err))
			}
			return
		}

		response.Success(w, http.StatusOK, result)
	}
}
