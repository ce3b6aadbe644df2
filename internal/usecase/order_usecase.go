package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"swiftlogix/internal/domain/model"
	"swiftlogix/internal/domain/quote"
	repo "swiftlogix/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 入力チェックの約束（実装はvalidatorパッケージ）
type ShipmentFormValidator interface {
	ValidatePackage(in QuoteInput) error
	ValidateOrder(in SubmitOrderInput) error
}

type OrderUsecase struct {
	orders      repo.ShippingOrderRepository
	provisioner repo.ShipmentProvisioner
	auditRepo   repo.AuditLogRepository
	validator   ShipmentFormValidator
	numbers     *OrderNumberGenerator
	clock       Clock
	logger      *zap.Logger
}

func NewOrderUsecase(
	orders repo.ShippingOrderRepository,
	provisioner repo.ShipmentProvisioner,
	auditRepo repo.AuditLogRepository,
	validator ShipmentFormValidator,
	numbers *OrderNumberGenerator,
	clock Clock,
	logger *zap.Logger,
) *OrderUsecase {
	return &OrderUsecase{
		orders:      orders,
		provisioner: provisioner,
		auditRepo:   auditRepo,
		validator:   validator,
		numbers:     numbers,
		clock:       clock,
		logger:      logger,
	}
}

// 見積もりに必要な荷物情報
type QuoteInput struct {
	WeightKg      float64
	LengthCm      *float64
	WidthCm       *float64
	HeightCm      *float64
	Method        string
	Insurance     bool
	DeclaredValue *float64
}

type QuoteOutput struct {
	Method            quote.Method     `json:"method"`
	ChargeableWeight  decimal.Decimal  `json:"chargeable_weight_kg"`
	VolumetricWeight  *decimal.Decimal `json:"volumetric_weight_kg"`
	Price             decimal.Decimal  `json:"price"`
	InsuranceIncluded bool             `json:"insurance_included"`
}

// Ship Nowフォームの入力
type SubmitOrderInput struct {
	OriginName    string
	OriginAddress string
	OriginCity    string
	OriginCountry string
	OriginPhone   string
	OriginEmail   string

	DestinationName    string
	DestinationAddress string
	DestinationCity    string
	DestinationCountry string
	DestinationPhone   string
	DestinationEmail   string

	Package     QuoteInput
	Description string

	//訪問者cookie
	SessionID string
	//ログイン中ならuser id
	UserID *string
}

type SubmitOrderOutput struct {
	OrderNumber string              `json:"order_number"`
	QuotedPrice decimal.Decimal     `json:"quoted_price"`
	Order       model.ShippingOrder `json:"order"`
}

// 見積もり（I/Oなし）
func (u *OrderUsecase) Quote(in QuoteInput) (QuoteOutput, error) {
	in.Method = methodOrDefault(in.Method)
	if err := u.validator.ValidatePackage(in); err != nil {
		return QuoteOutput{}, err
	}
	m, _ := quote.LookupMethod(in.Method)

	out := QuoteOutput{
		Method:            m,
		ChargeableWeight:  decimal.NewFromFloat(in.WeightKg),
		Price:             quote.Calculate(toQuoteInput(in)),
		InsuranceIncluded: in.Insurance,
	}
	if dim, ok := quote.VolumetricWeight(in.LengthCm, in.WidthCm, in.HeightCm); ok {
		dim = dim.Round(2)
		out.VolumetricWeight = &dim
		if dim.GreaterThan(out.ChargeableWeight) {
			out.ChargeableWeight = dim
		}
	}
	return out, nil
}

// 発送依頼を保存してshipmentを作らせる。
// shipment作成の失敗はログだけ（依頼自体は成功扱い）
func (u *OrderUsecase) Submit(ctx context.Context, in SubmitOrderInput) (SubmitOrderOutput, error) {
	in.Package.Method = methodOrDefault(in.Package.Method)
	if err := u.validator.ValidateOrder(in); err != nil {
		return SubmitOrderOutput{}, err
	}
	if strings.TrimSpace(in.SessionID) == "" {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusBadRequest, "missing session")
	}

	price := quote.Calculate(toQuoteInput(in.Package))
	order := toShippingOrder(in, u.numbers.Next(), price)

	saved, err := u.orders.Create(ctx, order)
	if err != nil {
		u.logger.Error("create shipping order failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err),
		)
		return SubmitOrderOutput{}, NewHTTPError(http.StatusInternalServerError, "Failed to place order. Please try again.")
	}

	//shipmentは保存結果ではなくフォームの内容から作る
	u.provision(ctx, order)

	return SubmitOrderOutput{
		OrderNumber: saved.OrderNumber,
		QuotedPrice: saved.QuotedPrice,
		Order:       saved,
	}, nil
}

// 管理者が顧客の代わりに発送依頼を作る。監査ログは残すが失敗しても依頼は成功
func (u *OrderUsecase) SubmitAsAdmin(ctx context.Context, actorAdminUserID string, in SubmitOrderInput) (SubmitOrderOutput, error) {
	if strings.TrimSpace(actorAdminUserID) == "" {
		return SubmitOrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	out, err := u.Submit(ctx, in)
	if err != nil {
		return SubmitOrderOutput{}, err
	}

	after, _ := json.Marshal(map[string]any{
		"order_number": out.OrderNumber,
		"quoted_price": out.QuotedPrice,
		"method":       out.Order.ShippingMethod,
	})
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorAdminUserID,
		Action:       model.AuditActionCreateOrder,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   out.Order.ID,
		BeforeJSON:   "{}",
		AfterJSON:    string(after),
		CreatedAt:    u.clock.Now(),
	}); err != nil {
		u.logger.Warn("audit log write failed",
			zap.String("order_number", out.OrderNumber),
			zap.Error(err),
		)
	}
	return out, nil
}

func (u *OrderUsecase) provision(ctx context.Context, o model.ShippingOrder) {
	err := u.provisioner.CreateShipmentFromOrder(ctx, repo.CreateShipmentParams{
		OrderNumber:        o.OrderNumber,
		OriginCity:         o.OriginCity,
		OriginCountry:      o.OriginCountry,
		DestinationCity:    o.DestinationCity,
		DestinationCountry: o.DestinationCountry,
		SenderName:         o.OriginName,
		RecipientName:      o.DestinationName,
		WeightKg:           o.WeightKg,
		ShippingMethod:     o.ShippingMethod,
	})
	if err != nil {
		u.logger.Error("create shipment from order failed",
			zap.String("order_number", o.OrderNumber),
			zap.Error(err),
		)
	}
}

func methodOrDefault(m string) string {
	m = strings.TrimSpace(m)
	if m == "" {
		return quote.DefaultMethod
	}
	return m
}

func toQuoteInput(in QuoteInput) quote.Input {
	q := quote.Input{
		WeightKg:  in.WeightKg,
		LengthCm:  in.LengthCm,
		WidthCm:   in.WidthCm,
		HeightCm:  in.HeightCm,
		Method:    in.Method,
		Insurance: in.Insurance,
	}
	if in.DeclaredValue != nil {
		v := decimal.NewFromFloat(*in.DeclaredValue)
		q.DeclaredValue = &v
	}
	return q
}

func toShippingOrder(in SubmitOrderInput, orderNumber string, price decimal.Decimal) model.ShippingOrder {
	o := model.ShippingOrder{
		OrderNumber:        orderNumber,
		OriginName:         strings.TrimSpace(in.OriginName),
		OriginAddress:      strings.TrimSpace(in.OriginAddress),
		OriginCity:         strings.TrimSpace(in.OriginCity),
		OriginCountry:      strings.TrimSpace(in.OriginCountry),
		OriginPhone:        strings.TrimSpace(in.OriginPhone),
		OriginEmail:        strings.TrimSpace(in.OriginEmail),
		DestinationName:    strings.TrimSpace(in.DestinationName),
		DestinationAddress: strings.TrimSpace(in.DestinationAddress),
		DestinationCity:    strings.TrimSpace(in.DestinationCity),
		DestinationCountry: strings.TrimSpace(in.DestinationCountry),
		DestinationPhone:   strings.TrimSpace(in.DestinationPhone),
		DestinationEmail:   optionalString(in.DestinationEmail),
		WeightKg:           in.Package.WeightKg,
		LengthCm:           in.Package.LengthCm,
		WidthCm:            in.Package.WidthCm,
		HeightCm:           in.Package.HeightCm,
		PackageDescription: optionalString(in.Description),
		ShippingMethod:     in.Package.Method,
		InsuranceIncluded:  in.Package.Insurance,
		QuotedPrice:        price,
		SessionID:          in.SessionID,
		UserID:             in.UserID,
	}
	if in.Package.DeclaredValue != nil {
		v := decimal.NewFromFloat(*in.Package.DeclaredValue)
		o.DeclaredValue = &v
	}
	return o
}

// 空文字はnil
func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// 監査ログ用の小さいJSON
func statusJSON(status model.ShipmentStatus) string {
	b, _ := json.Marshal(map[string]string{"status": string(status)})
	return string(b)
}
