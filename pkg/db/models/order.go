package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
)

// Order is an immutable snapshot of purchased line items plus payment and
// shipping state. Amounts are whole rupees, already rounded by the pricing
// engine at the moment of purchase.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	UserID           uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index:orders_user_id_idx"`
	Status           enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;not null;default:'created'"`
	TotalAmount      int64               `gorm:"column:total_amount;not null"`
	GatewayOrderID   *string             `gorm:"column:gateway_order_id;uniqueIndex:orders_gateway_order_key"`
	GatewayPaymentID *string             `gorm:"column:gateway_payment_id"`
	GatewaySignature *string             `gorm:"column:gateway_signature"`
	ShippingName     string              `gorm:"column:shipping_name;not null"`
	ShippingPhone    string              `gorm:"column:shipping_phone;not null"`
	ShippingAddress  string              `gorm:"column:shipping_address;not null"`
	ShippingCity     string              `gorm:"column:shipping_city;not null"`
	ShippingState    string              `gorm:"column:shipping_state;not null"`
	ShippingPincode  string              `gorm:"column:shipping_pincode;not null"`
	FailureReason    *string             `gorm:"column:failure_reason"`
	PaidAt           *time.Time          `gorm:"column:paid_at"`
	LineItems        []OrderLineItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
