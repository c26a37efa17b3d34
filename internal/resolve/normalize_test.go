package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://stripe.com", "stripe.com"},
		{"www.stripe.com/company", "stripe.com"},
		{"https://www.stripe.com/about", "stripe.com"},
		{"HTTP://Docs.Stripe.COM/", "stripe.com"},
		{"  acme.co.uk  ", "acme.co.uk"},
		{"https://shop.acme.co.uk/path?q=1", "acme.co.uk"},
		{"stripe.com:8443", "stripe.com"},
		{"", ""},
		{"   ", ""},
		{"localhost", ""},
		{"http://192.168.1.10", ""},
		{"co.uk", ""},
		{"not a url", ""},
		{"https://acme.invalidtld", ""},
		{"//stripe.com", "stripe.com"},
		{"//www.stripe.com/about", "stripe.com"},
		{"https://münchen.de", "xn--mnchen-3ya.de"},
		{"xn--mnchen-3ya.de", "xn--mnchen-3ya.de"},
		{"https://shop.MÜNCHEN.de/", "xn--mnchen-3ya.de"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeDomain(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeDomain(got), "normalizing twice must be stable")
		})
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme Inc", "acme"},
		{"ACME", "acme"},
		{"Acme, Inc.", "acme"},
		{"  Stripe   Holdings LLC ", "stripe"},
		{"Café Über GmbH", "cafe uber"},
		{"Open-AI Technologies", "openai"},
		{"Inc", ""},
		{"", ""},
		{"3M Company", "3m"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestNamePrefix(t *testing.T) {
	assert.Equal(t, "acme", NamePrefix("Acme Inc"))
	assert.Equal(t, "open source", NamePrefix("Open Source Robotics Foundation"))
	assert.Empty(t, NamePrefix("LLC"))
	assert.Empty(t, NamePrefix(""))
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2010", "2010"},
		{"Founded in 1998", "1998"},
		{"Aug2015", "2015"},
		{"Nov30,2016", "2016"},
		{"120155", ""},
		{"1850", ""},
		{"", ""},
		{"unknown", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractYear(tt.in))
		})
	}
}
