package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adedunmol/jakpat-univ/api/custom_errors"
	"github.com/Adedunmol/jakpat-univ/config"
	"github.com/Adedunmol/jakpat-univ/logger"
	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

// SnapClient is the part of snap.Client the gateway uses.
type SnapClient interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

type MidtransGateway struct {
	client     SnapClient
	timeout    time.Duration
	production bool
	fallback   *SimulatedGateway
}

func NewMidtransGateway(client SnapClient, timeout time.Duration, production bool, fallback *SimulatedGateway) *MidtransGateway {
	return &MidtransGateway{client: client, timeout: timeout, production: production, fallback: fallback}
}

// NewGateway picks Midtrans when a server key is configured and the simulator otherwise.
func NewGateway(cfg config.Config) Gateway {
	simulated := &SimulatedGateway{BaseURL: cfg.AppBaseURL}
	if cfg.MidtransServerKey == "" {
		logger.Warnf("MIDTRANS_SERVER_KEY not set, payments are simulated")
		return simulated
	}

	var client snap.Client
	if cfg.MidtransProduction {
		client.New(cfg.MidtransServerKey, midtrans.Production)
	} else {
		client.New(cfg.MidtransServerKey, midtrans.Sandbox)
	}

	return NewMidtransGateway(&client, cfg.PaymentTimeout, cfg.IsProduction(), simulated)
}

type snapOutcome struct {
	resp *snap.Response
	err  error
}

func (g *MidtransGateway) CreatePayment(ctx context.Context, req PaymentRequest) (PaymentResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	done := make(chan snapOutcome, 1)
	go func() {
		resp, merr := g.client.CreateTransaction(snapRequest(req))
		if merr != nil {
			done <- snapOutcome{err: merr}
			return
		}
		done <- snapOutcome{resp: resp}
	}()

	var err error
	select {
	case outcome := <-done:
		if outcome.err == nil && outcome.resp != nil && outcome.resp.RedirectURL != "" {
			return PaymentResult{
				OrderID:     req.OrderID,
				Token:       outcome.resp.Token,
				RedirectURL: outcome.resp.RedirectURL,
			}, nil
		}
		err = outcome.err
		if err == nil {
			err = errors.New("empty snap response")
		}
	case <-ctx.Done():
		err = ctx.Err()
	}

	if g.production || g.fallback == nil {
		return PaymentResult{}, fmt.Errorf("%w: %v", custom_errors.ErrPaymentUnavailable, err)
	}

	logger.WithField("order_id", req.OrderID).WithError(err).Warn("midtrans unavailable, falling back to simulated payment")
	return g.fallback.CreatePayment(ctx, req)
}

func snapRequest(req PaymentRequest) *snap.Request {
	return &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.Customer.FullName,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       req.SubmissionID.String(),
				Price:    req.Amount,
				Qty:      1,
				Name:     truncate(req.ItemName, 50),
				Category: "Survey Ads",
			},
		},
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
