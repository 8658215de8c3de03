package domain

import "testing"

func TestCourierIsValid(t *testing.T) {
	for _, c := range []Courier{
		CourierDelhivery,
		CourierBluedart,
		CourierEkart,
		CourierEcomExpress,
		CourierXpressbees,
		CourierShadowfax,
	} {
		if !c.IsValid() {
			t.Errorf("expected %q to be valid", c)
		}
	}

	for _, c := range []Courier{"", "pigeon", "Delhivery", "EKART"} {
		if c.IsValid() {
			t.Errorf("expected %q to be invalid", c)
		}
	}
}

func TestCourierMatchesTrackingID(t *testing.T) {
	tests := []struct {
		courier    Courier
		trackingID string
		want       bool
	}{
		{CourierDelhivery, "123456789", true},
		{CourierDelhivery, "12345678901234", true},
		{CourierDelhivery, "12345678", false},       // too short
		{CourierDelhivery, "123456789012345", false}, // too long
		{CourierDelhivery, "12AB56789", false},

		{CourierBluedart, "AB123456", true},
		{CourierBluedart, "ABCD12345678", true},
		{CourierBluedart, "AB12345", false},
		{CourierBluedart, "ab12345678", false},

		{CourierEkart, "FMPC12345678", true},
		{CourierEkart, "FMPCABCDEFGH12345", false}, // body too long
		{CourierEkart, "XMPC12345678", false},

		{CourierEcomExpress, "AB123456789", true},
		{CourierEcomExpress, "A1234567890", false},
		{CourierEcomExpress, "AB12345678", false},

		{CourierXpressbees, "XB123456789", true},
		{CourierXpressbees, "XB12345678", false},
		{CourierXpressbees, "XC123456789", false},

		{CourierShadowfax, "SF12345678", true},
		{CourierShadowfax, "SF1234567890ABC", true},
		{CourierShadowfax, "SF1234567", false},

		{Courier("pigeon"), "123456789", false},
	}

	for _, tt := range tests {
		if got := tt.courier.MatchesTrackingID(tt.trackingID); got != tt.want {
			t.Errorf("%s / %q: got %v, want %v", tt.courier, tt.trackingID, got, tt.want)
		}
	}
}
