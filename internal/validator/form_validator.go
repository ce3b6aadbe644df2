package validator

import (
	"net/http"
	"regexp"
	"strings"

	"swiftlogix/internal/domain/quote"
	"swiftlogix/internal/usecase"
)

const (
	MsgRequiredFields = "Please fill in all required fields"
	MsgInvalidEmail   = "Please enter a valid email address"
	MsgInvalidWeight  = "Please enter a valid weight"
	MsgInvalidMethod  = "Please select a shipping method"
	MsgNegativeValue  = "Dimensions and declared value cannot be negative"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type formValidator struct{}

// Usecaseは interface を依存注入
func NewShipmentFormValidator() usecase.ShipmentFormValidator {
	return &formValidator{}
}

func NewContactValidator() usecase.ContactValidator {
	return &formValidator{}
}

// 荷物（ステップ2）の入力を検証
func (v *formValidator) ValidatePackage(in usecase.QuoteInput) error {
	// 重さは必須
	if in.WeightKg <= 0 {
		return badRequest(MsgInvalidWeight)
	}
	for _, p := range []*float64{in.LengthCm, in.WidthCm, in.HeightCm, in.DeclaredValue} {
		if p != nil && *p < 0 {
			return badRequest(MsgNegativeValue)
		}
	}
	if _, ok := quote.LookupMethod(in.Method); !ok {
		return badRequest(MsgInvalidMethod)
	}
	return nil
}

// Ship Nowフォーム全体を検証（ステップ1 → ステップ2）
func (v *formValidator) ValidateOrder(in usecase.SubmitOrderInput) error {
	// 必須チェック
	if anyBlank(
		in.OriginName, in.OriginAddress, in.OriginCity, in.OriginCountry, in.OriginPhone, in.OriginEmail,
		in.DestinationName, in.DestinationAddress, in.DestinationCity, in.DestinationCountry, in.DestinationPhone,
	) {
		return badRequest(MsgRequiredFields)
	}

	// email形式
	if !isEmailLike(in.OriginEmail) {
		return badRequest(MsgInvalidEmail)
	}
	if d := strings.TrimSpace(in.DestinationEmail); d != "" && !isEmailLike(d) {
		return badRequest(MsgInvalidEmail)
	}

	return v.ValidatePackage(in.Package)
}

// お問い合わせフォームを検証
func (v *formValidator) ValidateContact(in usecase.ContactInput) error {
	if anyBlank(in.Name, in.Email, in.Message) {
		return badRequest(MsgRequiredFields)
	}
	if !isEmailLike(in.Email) {
		return badRequest(MsgInvalidEmail)
	}
	return nil
}

func anyBlank(values ...string) bool {
	for _, s := range values {
		if strings.TrimSpace(s) == "" {
			return true
		}
	}
	return false
}

func badRequest(msg string) error {
	return usecase.NewHTTPError(http.StatusBadRequest, msg)
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}
