package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// register struct-level validation for ProductRequest to ensure the
	// discounted price never exceeds the original price.
	v.RegisterStructValidation(productStructValidation, ProductRequest{})

	return v
}

// productStructValidation enforces discounted <= original.
func productStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(ProductRequest)

	if req.DiscountedPrice > req.OriginalPrice {
		sl.ReportError(req.DiscountedPrice, "discounted_price", "DiscountedPrice", "lte_original_price", "")
	}
}
