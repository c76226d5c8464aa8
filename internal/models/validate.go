// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is returned (wrapped) when an input or patch fails validation.
var ErrInvalid = errors.New("invalid input")

// maxPrice is the exclusive upper bound of a NUMERIC(10,2) column.
var maxPrice = big.NewRat(100_000_000, 1)

// priceFormat matches plain decimals with at most two fractional digits.
var priceFormat = regexp.MustCompile(`^(\d+(\.\d{0,2})?|\.\d{1,2})$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("price", validatePrice); err != nil {
		panic(err)
	}
	return v
}

// validatePrice accepts a non-negative decimal with at most two fractional
// digits that fits NUMERIC(10,2). Blank is allowed and means free.
func validatePrice(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if s == "" {
		return true
	}
	r, ok := parsePrice(s)
	if !ok {
		return false
	}
	return r.Sign() >= 0 && r.Cmp(maxPrice) < 0
}

// parsePrice parses a plain decimal string ("12", "9.99", ".5").
// Signs, exponents and more than two fractional digits are rejected.
func parsePrice(s string) (*big.Rat, bool) {
	if !priceFormat.MatchString(s) {
		return nil, false
	}
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return new(big.Rat).SetString(s)
}

// Validate checks v against its struct tags. Failures are reported as
// ErrInvalid naming the first offending field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return fmt.Errorf("%w: %s failed %q", ErrInvalid, first.Field(), first.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}
