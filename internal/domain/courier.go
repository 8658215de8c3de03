package domain

import "regexp"

// Courier identifies a supported shipping carrier.
type Courier string

const (
	CourierDelhivery   Courier = "delhivery"
	CourierBluedart    Courier = "bluedart"
	CourierEkart       Courier = "ekart"
	CourierEcomExpress Courier = "ecomExpress"
	CourierXpressbees  Courier = "xpressbees"
	CourierShadowfax   Courier = "shadowfax"
)

// Each carrier issues tracking ids in its own fixed format.
var courierTrackingPatterns = map[Courier]*regexp.Regexp{
	CourierDelhivery:   regexp.MustCompile(`^[0-9]{9,14}$`),
	CourierBluedart:    regexp.MustCompile(`^[A-Z0-9]{8,12}$`),
	CourierEkart:       regexp.MustCompile(`^FMPC[0-9A-Z]{8,12}$`),
	CourierEcomExpress: regexp.MustCompile(`^[A-Z]{2}[0-9]{9}$`),
	CourierXpressbees:  regexp.MustCompile(`^XB[0-9]{9}$`),
	CourierShadowfax:   regexp.MustCompile(`^[A-Z0-9]{10,15}$`),
}

// IsValid checks if the courier is in the supported set
func (c Courier) IsValid() bool {
	_, ok := courierTrackingPatterns[c]
	return ok
}

// MatchesTrackingID checks a tracking id against the carrier's format.
// Unknown carriers match nothing.
func (c Courier) MatchesTrackingID(trackingID string) bool {
	pattern, ok := courierTrackingPatterns[c]
	if !ok {
		return false
	}
	return pattern.MatchString(trackingID)
}
