package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/localhandler/marketplace/internal/service"
)

func checkout(totalPrice float64) service.CheckoutRequest {
	return service.CheckoutRequest{
		Cart: []service.CartLineRequest{
			{ProductID: uuid.NewString(), Quantity: 2, UnitPrice: 49.99, ShopID: uuid.NewString()},
			{ProductID: uuid.NewString(), Quantity: 1, UnitPrice: 100.02, ShopID: uuid.NewString()},
		},
		ShippingAddress: service.ShippingAddressRequest{
			Address1: "12 MG Road",
			City:     "Bengaluru",
			Country:  "India",
			ZipCode:  "560001",
		},
		User: service.BuyerRequest{
			ID:    uuid.NewString(),
			Name:  "Asha",
			Email: "asha@example.com",
		},
		TotalPrice: totalPrice,
	}
}

func TestCheckoutTotalMatchesCartSum(t *testing.T) {
	v := New()

	// 2*49.99 + 100.02 = 200.00
	if err := v.Struct(checkout(200.00)); err != nil {
		t.Fatalf("expected matching total to pass, got %v", err)
	}
}

func TestCheckoutTotalMismatchRejected(t *testing.T) {
	v := New()

	err := v.Struct(checkout(199.99))
	if err == nil {
		t.Fatal("expected mismatched total to fail")
	}

	msg := Message(err)
	if !strings.Contains(msg, "totalPrice") {
		t.Errorf("expected message to name totalPrice, got %q", msg)
	}
}

func TestCheckoutRequiredFields(t *testing.T) {
	v := New()

	req := checkout(200.00)
	req.User.Email = "not-an-email"

	if err := v.Struct(req); err == nil {
		t.Fatal("expected email validation to fail")
	}
}
