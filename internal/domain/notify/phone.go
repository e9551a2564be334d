package notify

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	ErrNoPhone      = errors.New("owner has no phone")
	ErrInvalidPhone = errors.New("invalid phone")
)

// DefaultCountryCode define la región de los números sin prefijo internacional.
const DefaultCountryCode = "91"

// regionFor traduce un código de país ("91", "+1") a su región principal ("IN", "US").
func regionFor(countryCode string) (string, error) {
	cc, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(countryCode), "+"))
	if err != nil {
		return "", fmt.Errorf("%w: country code %q", ErrInvalidPhone, countryCode)
	}
	region := phonenumbers.GetRegionCodeForCountryCode(cc)
	if region == "" || region == "ZZ" {
		return "", fmt.Errorf("%w: country code %q", ErrInvalidPhone, countryCode)
	}
	return region, nil
}

// NormalizePhone lleva un teléfono libre ("098765 43210", "+91-98765-43210") a E.164.
func NormalizePhone(raw, countryCode string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrNoPhone
	}
	if countryCode == "" {
		countryCode = DefaultCountryCode
	}
	region, err := regionFor(countryCode)
	if err != nil {
		return "", err
	}

	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %v", ErrInvalidPhone, raw, err)
	}
	if num.GetExtension() != "" || !phonenumbers.IsValidNumber(num) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
