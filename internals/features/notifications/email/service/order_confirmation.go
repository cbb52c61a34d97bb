package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	textTemplate "text/template"
)

type OrderItem struct {
	Nama     string `json:"nama"`
	Quantity int    `json:"quantity"`
	Harga    int64  `json:"harga"`
	Subtotal int64  `json:"subtotal"`
}

// OrderConfirmation: isi email konfirmasi pesanan (disimpan sebagai payload outbox).
type OrderConfirmation struct {
	To             string      `json:"to"`
	OrderID        string      `json:"order_id"`
	DashCode       string      `json:"dash_code"`
	NamaPengqurban string      `json:"nama_pengqurban"`
	Items          []OrderItem `json:"items"`
	TotalAmount    int64       `json:"total_amount"`
	CaraBayar      string      `json:"cara_bayar"`
	QRCodeURL      string      `json:"qrcode_url,omitempty"`
	QRPNG          []byte      `json:"qr_png,omitempty"`
	IsNewUser      bool        `json:"is_new_user"`
	IsGoogleAuth   bool        `json:"is_google_auth"`
}

// PaymentInstructions: teks instruksi sesuai cara bayar.
func PaymentInstructions(caraBayar string) string {
	switch strings.ToUpper(caraBayar) {
	case "TRANSFER":
		return "Transfer ke rekening BNI 123-456-789 a.n. Panitia Qurban"
	case "TUNAI":
		return "Pembayaran langsung ke sekretariat panitia"
	default:
		return "Silakan hubungi panitia untuk instruksi pembayaran"
	}
}

func NewAccountNotice(isNewUser, isGoogleAuth bool) string {
	if !isNewUser {
		return ""
	}
	if isGoogleAuth {
		return "Akun baru telah dibuat menggunakan Google Auth."
	}
	return "Akun baru telah dibuat untuk Anda."
}

func Subject(orderID, fromName string) string {
	return fmt.Sprintf("Konfirmasi Pesanan #%s - %s", orderID, fromName)
}

// FormatRupiah: 25000000 -> "Rp 25.000.000".
func FormatRupiah(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, ch := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	if neg {
		return "-Rp " + b.String()
	}
	return "Rp " + b.String()
}

type templateView struct {
	OrderConfirmation
	FromName     string
	Instructions string
	Notice       string
	HasQR        bool
}

var funcs = map[string]any{"rupiah": FormatRupiah}

var htmlTmpl = template.Must(template.New("order_html").Funcs(funcs).Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Terima kasih, {{.NamaPengqurban}}</h2>
  <p>Pesanan qurban Anda telah kami terima.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td>Nomor Pesanan</td><td><strong>{{.OrderID}}</strong></td></tr>
    <tr><td>Kode</td><td><strong>{{.DashCode}}</strong></td></tr>
    <tr><td>Cara Bayar</td><td>{{.CaraBayar}}</td></tr>
  </table>
  <h3>Rincian</h3>
  <table cellpadding="6" border="1" style="border-collapse: collapse;">
    <tr><th>Hewan</th><th>Jumlah</th><th>Harga</th><th>Subtotal</th></tr>
    {{range .Items}}<tr><td>{{.Nama}}</td><td>{{.Quantity}}</td><td>{{rupiah .Harga}}</td><td>{{rupiah .Subtotal}}</td></tr>
    {{end}}<tr><td colspan="3"><strong>Total</strong></td><td><strong>{{rupiah .TotalAmount}}</strong></td></tr>
  </table>
  <h3>Instruksi Pembayaran</h3>
  <p>{{.Instructions}}</p>
  {{if .Notice}}<p><em>{{.Notice}}</em></p>{{end}}
  {{if .HasQR}}<p>Tunjukkan QR code berikut saat pengambilan daging:</p>
  <img src="cid:qrcode" alt="QR Code" width="200" height="200"/>{{end}}
  <p>Salam,<br/>{{.FromName}}</p>
</body>
</html>`))

var textTmpl = textTemplate.Must(textTemplate.New("order_text").Funcs(funcs).Parse(`Terima kasih, {{.NamaPengqurban}}

Nomor Pesanan: {{.OrderID}}
Kode: {{.DashCode}}
{{range .Items}}- {{.Nama}} x{{.Quantity}}: {{rupiah .Subtotal}}
{{end}}Total: {{rupiah .TotalAmount}}
Cara Bayar: {{.CaraBayar}}
{{if .Notice}}
{{.Notice}}
{{end}}
Instruksi Pembayaran:
{{.Instructions}}

Salam,
{{.FromName}}
`))

// Render: (html, text) untuk email konfirmasi.
func (o OrderConfirmation) Render(fromName string) (string, string, error) {
	view := templateView{
		OrderConfirmation: o,
		FromName:          fromName,
		Instructions:      PaymentInstructions(o.CaraBayar),
		Notice:            NewAccountNotice(o.IsNewUser, o.IsGoogleAuth),
		HasQR:             len(o.QRPNG) > 0,
	}
	var h, t bytes.Buffer
	if err := htmlTmpl.Execute(&h, view); err != nil {
		return "", "", fmt.Errorf("render html: %w", err)
	}
	if err := textTmpl.Execute(&t, view); err != nil {
		return "", "", fmt.Errorf("render text: %w", err)
	}
	return h.String(), t.String(), nil
}
