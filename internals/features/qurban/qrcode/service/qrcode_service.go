package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 300
	VerifyPath  = "/verify-mudhohi"
)

// OrderData: isi "data" di payload QR.
type OrderData struct {
	MudhohiID      uuid.UUID `json:"mudhohi_id"`
	DashCode       string    `json:"dash_code"`
	NamaPengqurban string    `json:"nama_pengqurban"`
	Quantity       int       `json:"quantity"`
	TipeHewan      string    `json:"tipe_hewan"`
	CreatedAt      time.Time `json:"created_at"`
}

type payload struct {
	URL  string    `json:"url"`
	Data OrderData `json:"data"`
}

// Renderer: render + simpan QR order, mengembalikan PNG dan URL publik.
type Renderer interface {
	Render(ctx context.Context, data OrderData) (*Result, error)
}

// Discarder: renderer yang bisa menghapus QR yatim (order batal commit).
type Discarder interface {
	Discard(ctx context.Context, url string) error
}

type Result struct {
	PNG []byte
	URL string
}

type QRService struct {
	Store   Store
	BaseURL string
	Size    int
}

func NewQRService(store Store, baseURL string) *QRService {
	return &QRService{Store: store, BaseURL: strings.TrimRight(baseURL, "/"), Size: DefaultSize}
}

// VerifyURL: halaman verifikasi untuk dash code.
func (s *QRService) VerifyURL(dashCode string) string {
	return fmt.Sprintf("%s%s?code=%s", s.BaseURL, VerifyPath, dashCode)
}

// Payload: JSON yang di-encode ke dalam QR.
func (s *QRService) Payload(data OrderData) ([]byte, error) {
	return sonic.Marshal(payload{URL: s.VerifyURL(data.DashCode), Data: data})
}

func (s *QRService) Render(ctx context.Context, data OrderData) (*Result, error) {
	if data.DashCode == "" {
		return nil, fmt.Errorf("dash code kosong")
	}
	content, err := s.Payload(data)
	if err != nil {
		return nil, fmt.Errorf("encode payload qr: %w", err)
	}
	size := s.Size
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(string(content), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("render qr: %w", err)
	}
	url, err := s.Store.Save(ctx, data.DashCode+".png", png)
	if err != nil {
		return nil, fmt.Errorf("simpan qr: %w", err)
	}
	return &Result{PNG: png, URL: url}, nil
}

func (s *QRService) Discard(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	return s.Store.Delete(ctx, url)
}
