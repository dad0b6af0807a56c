package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saikganesh/navajothi-jewels-backend/internal/cart"
	"github.com/saikganesh/navajothi-jewels-backend/internal/orders"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/db/models"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
	pkgerrors "github.com/saikganesh/navajothi-jewels-backend/pkg/errors"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/logger"
	"github.com/saikganesh/navajothi-jewels-backend/pkg/razorpay"
)

type cartReader interface {
	Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type gateway interface {
	CreateOrder(ctx context.Context, params razorpay.OrderCreateParams) (*razorpay.Order, error)
	VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) error
	KeyID() string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ShippingInput is the delivery address captured at checkout.
type ShippingInput struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required,len=10,numeric"`
	Address string `json:"address" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required,len=6,numeric"`
}

// Session is what the storefront needs to open the gateway's payment widget.
// Amount is in paise.
type Session struct {
	OrderID        uuid.UUID `json:"order_id"`
	GatewayOrderID string    `json:"gateway_order_id"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	KeyID          string    `json:"key_id"`
}

// VerifyInput carries the gateway's checkout callback payload.
type VerifyInput struct {
	OrderID          uuid.UUID `json:"order_id" validate:"required"`
	GatewayOrderID   string    `json:"razorpay_order_id" validate:"required"`
	GatewayPaymentID string    `json:"razorpay_payment_id" validate:"required"`
	Signature        string    `json:"razorpay_signature" validate:"required"`
}

// Service drives the order placement and payment verification flow.
type Service interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, shipping ShippingInput) (*Session, error)
	VerifyPayment(ctx context.Context, userID uuid.UUID, input VerifyInput) (*models.Order, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
}

type service struct {
	orders  orders.Repository
	cart    cartReader
	stock   stockAdjusterFunc
	gateway gateway
	tx      txRunner
	logger  *logger.Logger
}

// stockAdjusterFunc resolves the stock writer for a transaction. The products
// repository is rebound per-tx the same way the order repository is.
type stockAdjusterFunc func(tx *gorm.DB) interface {
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}

// NewService builds the checkout service.
func NewService(
	orderRepo orders.Repository,
	cartSvc cartReader,
	stock stockAdjusterFunc,
	gw gateway,
	tx txRunner,
	log *logger.Logger,
) (Service, error) {
	if orderRepo == nil {
		return nil, fmt.Errorf("checkout: order repository is required")
	}
	if cartSvc == nil {
		return nil, fmt.Errorf("checkout: cart service is required")
	}
	if stock == nil {
		return nil, fmt.Errorf("checkout: stock adjuster is required")
	}
	if gw == nil {
		return nil, fmt.Errorf("checkout: payment gateway is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("checkout: transaction runner is required")
	}
	if log == nil {
		return nil, fmt.Errorf("checkout: logger is required")
	}
	return &service{orders: orderRepo, cart: cartSvc, stock: stock, gateway: gw, tx: tx, logger: log}, nil
}

func (s *service) CreateOrder(ctx context.Context, userID uuid.UUID, shipping ShippingInput) (*Session, error) {
	if err := validateShipping(shipping); err != nil {
		return nil, err
	}

	current, err := s.cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(current.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	for _, line := range current.Lines {
		if line.Quantity > line.StockQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("insufficient stock for %s", line.Name)).
				WithDetails(map[string]any{"product_id": line.ProductID, "available": line.StockQuantity})
		}
	}

	order := buildOrder(userID, shipping, current)
	if _, err := s.orders.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, razorpay.OrderCreateParams{
		Amount:   order.TotalAmount * 100,
		Currency: "INR",
		Receipt:  order.ID.String(),
		Notes:    map[string]string{"user_id": userID.String()},
	})
	if err != nil {
		s.markFailed(ctx, order, "gateway order creation failed")
		return nil, err
	}

	order.GatewayOrderID = &gatewayOrder.ID
	if _, err := s.orders.Update(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach gateway order")
	}

	return &Session{
		OrderID:        order.ID,
		GatewayOrderID: gatewayOrder.ID,
		Amount:         gatewayOrder.Amount,
		Currency:       gatewayOrder.Currency,
		KeyID:          s.gateway.KeyID(),
	}, nil
}

func (s *service) VerifyPayment(ctx context.Context, userID uuid.UUID, input VerifyInput) (*models.Order, error) {
	order, err := s.loadOwned(ctx, userID, input.OrderID)
	if err != nil {
		return nil, err
	}

	// Replayed callbacks for an already verified payment are harmless.
	if order.Status == enums.OrderStatusPaid {
		return order, nil
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}
	if order.GatewayOrderID == nil || *order.GatewayOrderID != strings.TrimSpace(input.GatewayOrderID) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "gateway order does not match")
	}

	if err := s.gateway.VerifyPaymentSignature(input.GatewayOrderID, input.GatewayPaymentID, input.Signature); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodePayment {
			s.markFailed(ctx, order, "payment signature mismatch")
		}
		return nil, err
	}

	now := time.Now().UTC()
	paymentID := strings.TrimSpace(input.GatewayPaymentID)
	signature := strings.TrimSpace(input.Signature)
	order.Status = enums.OrderStatusPaid
	order.PaymentStatus = enums.PaymentStatusVerified
	order.GatewayPaymentID = &paymentID
	order.GatewaySignature = &signature
	order.PaidAt = &now
	order.FailureReason = nil

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.orders.WithTx(tx).Update(ctx, order); err != nil {
			return err
		}
		stock := s.stock(tx)
		for _, item := range order.LineItems {
			if item.ProductID == nil {
				continue
			}
			if err := stock.AdjustStock(ctx, *item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record payment")
	}

	// The cart clear also broadcasts to the user's open tabs. Failure here
	// cannot unwind the payment, so it is only logged.
	if err := s.cart.Clear(ctx, userID); err != nil {
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "post-payment cart clear failed")
	}

	s.logger.Info(s.logger.WithOrderID(ctx, order.ID.String()), "payment verified")
	return order, nil
}

// Cancel records a dismissed payment widget. The order stays pending so the
// customer can retry from order history.
func (s *service) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.loadOwned(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != enums.OrderStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is not awaiting payment")
	}

	reason := "payment dismissed by customer"
	order.FailureReason = &reason
	updated, err := s.orders.Update(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record dismissal")
	}
	return updated, nil
}

func (s *service) loadOwned(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) markFailed(ctx context.Context, order *models.Order, reason string) {
	order.Status = enums.OrderStatusFailed
	order.PaymentStatus = enums.PaymentStatusFailed
	order.FailureReason = &reason
	if _, err := s.orders.Update(ctx, order); err != nil {
		s.logger.Warn(s.logger.WithField(ctx, "error", err.Error()), "mark order failed")
	}
}

func buildOrder(userID uuid.UUID, shipping ShippingInput, current *cart.Cart) *models.Order {
	items := make([]models.OrderLineItem, 0, len(current.Lines))
	for _, line := range current.Lines {
		productID := line.ProductID
		items = append(items, models.OrderLineItem{
			ProductID:              &productID,
			Name:                   line.Name,
			Image:                  line.Image,
			KaratSelected:          line.KaratSelected,
			NetWeight:              line.NetWeight,
			MakingChargePercentage: line.MakingChargePercentage,
			Quantity:               line.Quantity,
			GoldPrice:              line.Price.GoldPrice,
			MakingCharge:           line.Price.MakingCharge,
			GST:                    line.Price.GST,
			UnitTotal:              line.Price.Total,
			LineTotal:              line.Price.Total * int64(line.Quantity),
		})
	}
	return &models.Order{
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusCreated,
		TotalAmount:     current.Total,
		ShippingName:    strings.TrimSpace(shipping.Name),
		ShippingPhone:   strings.TrimSpace(shipping.Phone),
		ShippingAddress: strings.TrimSpace(shipping.Address),
		ShippingCity:    strings.TrimSpace(shipping.City),
		ShippingState:   strings.TrimSpace(shipping.State),
		ShippingPincode: strings.TrimSpace(shipping.Pincode),
		LineItems:       items,
	}
}

func validateShipping(shipping ShippingInput) error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", shipping.Name},
		{"phone", shipping.Phone},
		{"address", shipping.Address},
		{"city", shipping.City},
		{"state", shipping.State},
		{"pincode", shipping.Pincode},
	}
	missing := make([]string, 0, len(fields))
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping details are incomplete").
			WithDetails(map[string]any{"missing": missing})
	}
	if !allDigits(strings.TrimSpace(shipping.Pincode)) || len(strings.TrimSpace(shipping.Pincode)) != 6 {
		return pkgerrors.New(pkgerrors.CodeValidation, "pincode must be 6 digits")
	}
	if !allDigits(strings.TrimSpace(shipping.Phone)) || len(strings.TrimSpace(shipping.Phone)) != 10 {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone must be 10 digits")
	}
	return nil
}

func allDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return value != ""
}
