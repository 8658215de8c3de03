package validation

import (
	"fmt"
	"math"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/localhandler/marketplace/internal/service"
)

// New returns a configured validator with struct-level validation
// registered for the checkout payload.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// Honor the same binding tags gin enforces, so handler-level
	// re-validation agrees with request binding.
	v.SetTagName("binding")

	// The checkout total must equal the sum of unitPrice*quantity
	// across every cart line (compared in cents to dodge float
	// rounding).
	v.RegisterStructValidation(checkoutStructValidation, service.CheckoutRequest{})

	return v
}

func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(service.CheckoutRequest)

	var sum float64
	for _, line := range req.Cart {
		sum += float64(line.Quantity) * line.UnitPrice
	}

	sumCents := int(math.Round(sum * 100))
	totalCents := int(math.Round(req.TotalPrice * 100))
	if sumCents != totalCents {
		sl.ReportError(req.TotalPrice, "totalPrice", "TotalPrice", "total_match_cart",
			fmt.Sprintf("cart sum %.2f != total %.2f", sum, req.TotalPrice))
	}
}

// Message flattens validator errors into a single human-readable
// message for the error body.
func Message(err error) string {
	ve, ok := err.(validatorv10.ValidationErrors)
	if !ok {
		return err.Error()
	}

	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		if fe.Tag() == "total_match_cart" {
			parts = append(parts, "totalPrice does not match the cart line sum")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.StructNamespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
