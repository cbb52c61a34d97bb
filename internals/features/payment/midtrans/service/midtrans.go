package service

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Midtrans Client
========================================================= */

var ErrGatewayNotConfigured = errors.New("payment gateway belum dikonfigurasi")

// SnapOrder: data minimal untuk membuat transaksi Snap.
type SnapOrder struct {
	OrderID      string
	GrossAmount  int64
	CustomerName string
	Email        string
	Phone        string
	ItemName     string
	Quantity     int
	UnitPrice    int64
}

type SnapResult struct {
	Token       string
	RedirectURL string
}

// SnapGateway: pembuat transaksi Snap (di-stub di test).
type SnapGateway interface {
	CreateTransaction(o SnapOrder) (*SnapResult, error)
}

type snapGateway struct {
	client snap.Client
}

// NewSnapGateway: nil kalau server key kosong.
// useProduction=true untuk Production, false untuk Sandbox.
func NewSnapGateway(serverKey string, useProduction bool) SnapGateway {
	if strings.TrimSpace(serverKey) == "" {
		log.Println("[MIDTRANS] MIDTRANS_SERVER_KEY kosong, Snap dimatikan")
		return nil
	}
	g := &snapGateway{}
	if useProduction {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

func (g *snapGateway) CreateTransaction(o SnapOrder) (*SnapResult, error) {
	if o.GrossAmount <= 0 {
		return nil, errors.New("invalid gross amount")
	}
	if o.OrderID == "" {
		return nil, errors.New("order id is required")
	}

	qty := o.Quantity
	if qty <= 0 {
		qty = 1
	}
	price := o.UnitPrice
	if price <= 0 || price*int64(qty) != o.GrossAmount {
		price, qty = o.GrossAmount, 1
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  o.OrderID,
			GrossAmt: o.GrossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: truncate(o.CustomerName, 50),
			Email: o.Email,
			Phone: o.Phone,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       o.OrderID,
				Name:     truncate(defaultString(o.ItemName, "Qurban"), 50),
				Price:    price,
				Qty:      int32(qty),
				Category: "QURBAN",
			},
		},
	}

	resp, err := g.client.CreateTransaction(req)
	if err != nil {
		return nil, fmt.Errorf("midtrans: %s", err.GetMessage())
	}
	return &SnapResult{Token: resp.Token, RedirectURL: resp.RedirectURL}, nil
}

/* =========================================================
   Webhook
========================================================= */

// Notification: body notifikasi HTTP Midtrans.
type Notification struct {
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"` // string dari Midtrans
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

// VerifySignature: SHA512(order_id + status_code + gross_amount + ServerKey).
func VerifySignature(n Notification, serverKey string) bool {
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if want == "" || serverKey == "" {
		return false
	}
	return sha512sum(n.OrderID+n.StatusCode+n.GrossAmount+serverKey) == want
}

func Sign(orderID, statusCode, grossAmount, serverKey string) string {
	return sha512sum(orderID + statusCode + grossAmount + serverKey)
}

func sha512sum(s string) string {
	h := sha512.Sum512([]byte(s))
	return hex.EncodeToString(h[:])
}

// GrossAmountInt: "25000000.00" -> 25000000.
func (n Notification) GrossAmountInt() (int64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(n.GrossAmount), 64)
	if err != nil {
		return 0, err
	}
	return int64(f + 0.5), nil
}

type Action int

const (
	ActionIgnore Action = iota
	ActionPaid
	ActionPending
	ActionCancel
)

// MapTransactionStatus: status Midtrans → aksi internal.
func MapTransactionStatus(transactionStatus, fraudStatus string) Action {
	ts := strings.ToLower(transactionStatus)
	fraud := strings.ToLower(fraudStatus)

	switch ts {
	case "capture":
		if fraud == "" || fraud == "accept" {
			return ActionPaid
		}
		if fraud == "challenge" {
			return ActionPending
		}
		return ActionCancel
	case "settlement":
		return ActionPaid
	case "pending":
		return ActionPending
	case "deny", "cancel", "expire":
		return ActionCancel
	default:
		return ActionIgnore
	}
}

/* =========================================================
   Utils
========================================================= */

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}

func defaultString(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}
