package paygate

import (
	"context"
	"fmt"
	"net/http"

	"tutorbook/internal/pkg/config"
	"tutorbook/internal/pkg/errs"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// Client talks to the external payment gateway. Orders are created
// there before the student pays; the gateway's order id is what the
// checkout signature is later computed over.
type Client struct {
	http     *resty.Client
	currency string
}

func NewClient(cfg config.PaymentConfig) *Client {
	c := resty.New().
		SetBaseURL(cfg.GatewayBaseURL).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Content-Type", "application/json")

	return &Client{http: c, currency: cfg.Currency}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type gatewayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder registers a payment order for the booking amount. The
// amount is in the smallest currency unit and is passed through
// unchanged.
func (c *Client) CreateOrder(ctx context.Context, bookingID uuid.UUID, amount int64) (string, error) {
	var (
		out    createOrderResponse
		outErr gatewayError
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(createOrderRequest{
			Amount:   amount,
			Currency: c.currency,
			Receipt:  "booking_" + bookingID.String(),
		}).
		SetResult(&out).
		SetError(&outErr).
		Post("/v1/orders")
	if err != nil {
		return "", errs.Mark(errs.Wrap(err, "payment gateway unreachable"), errs.ErrGatewayUnavailable)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", errs.Mark(
			errs.New(fmt.Sprintf("payment gateway rejected order: status=%d code=%s desc=%s",
				resp.StatusCode(), outErr.Error.Code, outErr.Error.Description)),
			errs.ErrGatewayUnavailable)
	}
	if out.ID == "" {
		return "", errs.Mark(errs.New("payment gateway returned an empty order id"), errs.ErrGatewayUnavailable)
	}

	return out.ID, nil
}
