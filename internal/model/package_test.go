package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetailerCode(t *testing.T) {
	tests := []struct {
		domain string
		want   string
	}{
		{"amazon.com", "amazon_com"},
		{"@ups.com", "ups_com"},
		{"account.etsy.com", "account_etsy_com"},
		{"House of Noa", "house_of_noa"},
		{"litter-robot.com", "litter_robot_com"},
		{"@", ""},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, RetailerCode(tt.domain))
		})
	}
}

func TestCarrierCode(t *testing.T) {
	assert.Equal(t, "ups", CarrierCode("UPS"))
	assert.Equal(t, "swiss_post", CarrierCode("Swiss Post"))
	assert.Equal(t, "fedex", CarrierCode("FedEx"))
}
