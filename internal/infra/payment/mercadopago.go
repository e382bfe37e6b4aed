package payment

import (
	"context"
	"errors"
	"strconv"

	appconfig "turismo/internal/config"
	"turismo/internal/usecase"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// MercadoPagoGateway はusecase.PaymentGatewayのMercadoPago実装。
// external_referenceに注文IDを載せ、webhookで突き合わせる
type MercadoPagoGateway struct {
	pref        preference.Client
	pay         mppayment.Client
	backendURL  string
	frontendURL string
}

func NewMercadoPagoGateway(cfg appconfig.Config) (*MercadoPagoGateway, error) {
	mpCfg, err := mpconfig.New(cfg.MPAccessToken)
	if err != nil {
		return nil, err
	}

	return &MercadoPagoGateway{
		pref:        preference.NewClient(mpCfg),
		pay:         mppayment.NewClient(mpCfg),
		backendURL:  cfg.BackendURL,
		frontendURL: cfg.FrontendURL,
	}, nil
}

func (g *MercadoPagoGateway) CreatePreference(ctx context.Context, orderID int64, items []usecase.PaymentItem) (usecase.PaymentPreference, error) {
	reqItems := make([]preference.ItemRequest, 0, len(items))
	for _, it := range items {
		reqItems = append(reqItems, preference.ItemRequest{
			ID:       it.ID,
			Title:    it.Title,
			Quantity: int(it.Quantity),
			//税込単価
			UnitPrice:  it.UnitPrice.InexactFloat64(),
			CurrencyID: "ARS",
		})
	}

	req := preference.Request{
		Items: reqItems,
		BackURLs: &preference.BackURLsRequest{
			Success: g.frontendURL,
			Failure: g.frontendURL,
			Pending: g.frontendURL,
		},
		AutoReturn:        "approved",
		NotificationURL:   g.backendURL + "/api/orders/webhook",
		ExternalReference: strconv.FormatInt(orderID, 10),
	}

	resp, err := g.pref.Create(ctx, req)
	if err != nil {
		return usecase.PaymentPreference{}, err
	}
	if resp == nil {
		return usecase.PaymentPreference{}, errors.New("empty preference response")
	}

	return usecase.PaymentPreference{
		ID:        resp.ID,
		InitPoint: resp.InitPoint,
	}, nil
}

func (g *MercadoPagoGateway) FindPayment(ctx context.Context, paymentID string) (usecase.PaymentInfo, error) {
	id, err := strconv.Atoi(paymentID)
	if err != nil {
		return usecase.PaymentInfo{}, errors.New("invalid payment id")
	}

	resp, err := g.pay.Get(ctx, id)
	if err != nil {
		return usecase.PaymentInfo{}, err
	}
	if resp == nil {
		return usecase.PaymentInfo{}, errors.New("empty payment response")
	}

	return usecase.PaymentInfo{
		Status:            resp.Status,
		ExternalReference: resp.ExternalReference,
	}, nil
}
