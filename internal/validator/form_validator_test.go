package validator

import (
	"net/http"
	"testing"

	"swiftlogix/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func validOrder() usecase.SubmitOrderInput {
	return usecase.SubmitOrderInput{
		OriginName:         "Ada Sender",
		OriginAddress:      "1 Harbour Rd",
		OriginCity:         "Lagos",
		OriginCountry:      "Nigeria",
		OriginPhone:        "+234 800 000",
		OriginEmail:        "ada@example.com",
		DestinationName:    "Bo Receiver",
		DestinationAddress: "9 Canal St",
		DestinationCity:    "Rotterdam",
		DestinationCountry: "Netherlands",
		DestinationPhone:   "+31 10 000",
		Package:            usecase.QuoteInput{WeightKg: 10, Method: "standard"},
		SessionID:          "visitor-1",
	}
}

func requireBadRequest(t *testing.T, err error, msg string) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok, "want HTTPError, got %v", err)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, msg, he.Message)
}

func TestValidateOrder_OK(t *testing.T) {
	v := NewShipmentFormValidator()
	assert.NoError(t, v.ValidateOrder(validOrder()))
}

func TestValidateOrder_DestinationEmailOptional(t *testing.T) {
	v := NewShipmentFormValidator()

	in := validOrder()
	in.DestinationEmail = ""
	assert.NoError(t, v.ValidateOrder(in))

	in.DestinationEmail = "not-an-email"
	requireBadRequest(t, v.ValidateOrder(in), MsgInvalidEmail)
}

func TestValidateOrder_RequiredFields(t *testing.T) {
	v := NewShipmentFormValidator()

	cases := map[string]func(*usecase.SubmitOrderInput){
		"origin name":         func(in *usecase.SubmitOrderInput) { in.OriginName = "  " },
		"origin email":        func(in *usecase.SubmitOrderInput) { in.OriginEmail = "" },
		"destination phone":   func(in *usecase.SubmitOrderInput) { in.DestinationPhone = "" },
		"destination country": func(in *usecase.SubmitOrderInput) { in.DestinationCountry = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validOrder()
			mutate(&in)
			requireBadRequest(t, v.ValidateOrder(in), MsgRequiredFields)
		})
	}
}

func TestValidateOrder_InvalidOriginEmail(t *testing.T) {
	v := NewShipmentFormValidator()
	in := validOrder()
	in.OriginEmail = "ada@example"
	requireBadRequest(t, v.ValidateOrder(in), MsgInvalidEmail)
}

func TestValidatePackage(t *testing.T) {
	v := NewShipmentFormValidator()

	requireBadRequest(t, v.ValidatePackage(usecase.QuoteInput{WeightKg: 0, Method: "standard"}), MsgInvalidWeight)
	requireBadRequest(t, v.ValidatePackage(usecase.QuoteInput{WeightKg: -1, Method: "standard"}), MsgInvalidWeight)
	requireBadRequest(t, v.ValidatePackage(usecase.QuoteInput{WeightKg: 1, Method: "teleport"}), MsgInvalidMethod)
	requireBadRequest(t, v.ValidatePackage(usecase.QuoteInput{WeightKg: 1, Method: "ground", LengthCm: f64(-2)}), MsgNegativeValue)
	requireBadRequest(t, v.ValidatePackage(usecase.QuoteInput{WeightKg: 1, Method: "ground", DeclaredValue: f64(-5)}), MsgNegativeValue)

	assert.NoError(t, v.ValidatePackage(usecase.QuoteInput{WeightKg: 1, Method: "ocean", LengthCm: f64(0)}))
}

func TestValidateContact(t *testing.T) {
	v := NewContactValidator()

	assert.NoError(t, v.ValidateContact(usecase.ContactInput{Name: "Ada", Email: "ada@example.com", Message: "hi"}))
	requireBadRequest(t, v.ValidateContact(usecase.ContactInput{Name: "Ada", Email: "ada@example.com"}), MsgRequiredFields)
	requireBadRequest(t, v.ValidateContact(usecase.ContactInput{Name: "Ada", Email: "ada", Message: "hi"}), MsgInvalidEmail)
}

func TestIsEmailLike(t *testing.T) {
	assert.True(t, isEmailLike("a@b.co"))
	assert.True(t, isEmailLike(" a@b.co "))
	assert.False(t, isEmailLike("a b@c.d"))
	assert.False(t, isEmailLike("a@b"))
	assert.False(t, isEmailLike(""))
}
