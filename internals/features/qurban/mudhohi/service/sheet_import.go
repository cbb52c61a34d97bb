package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	hewanModel "qurban_backend/internals/features/qurban/hewan/model"
	hewanSvc "qurban_backend/internals/features/qurban/hewan/service"
	"qurban_backend/internals/features/qurban/mudhohi/model"
)

// SheetRow: satu baris export Google Sheets, key = header (lowercase).
type SheetRow map[string]string

func (r SheetRow) first(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r[k]); v != "" {
			return v
		}
	}
	return ""
}

type ImportRowResult struct {
	Row       int     `json:"row"`
	DashCode  string  `json:"dash_code,omitempty"`
	MudhohiID *string `json:"mudhohi_id,omitempty"`
	Nama      string  `json:"nama"`
	Error     string  `json:"error,omitempty"`
}

type ImportResult struct {
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Data    []ImportRowResult `json:"data"`
}

// BuildSheetRows: gabungkan headers + rows; baris kosong dilewati.
func BuildSheetRows(headers []string, rows [][]any) []SheetRow {
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = strings.ToLower(strings.TrimSpace(h))
	}
	out := make([]SheetRow, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 || cell(row[0]) == "" || allEmpty(row) {
			continue
		}
		r := SheetRow{}
		for i, k := range keys {
			if i < len(row) && k != "" {
				r[k] = cell(row[i])
			}
		}
		out = append(out, r)
	}
	return out
}

func cell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func allEmpty(row []any) bool {
	for _, v := range row {
		if cell(v) != "" {
			return false
		}
	}
	return true
}

func sheetBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "ya", "yes", "1", "y", "iya":
		return true
	}
	return false
}

// sheetInt: format rupiah dari sheet, mis. "Rp 25.000.000", "25.000.000,00",
// "Rp 3.500.000,-", "25000000.00" atau "1,500,000". Pecahan sen dibuang.
func sheetInt(s string, def int64) int64 {
	s = strings.NewReplacer("Rp", "", "RP", "", "rp", "", "IDR", "", " ", "").Replace(strings.TrimSpace(s))
	s = strings.TrimSuffix(strings.TrimSuffix(s, ",-"), ".-")
	if s == "" {
		return def
	}
	// pemisah terakhir dengan 1-2 digit di belakangnya dan hanya muncul sekali = desimal
	if i := strings.LastIndexAny(s, ".,"); i >= 0 {
		frac := s[i+1:]
		if len(frac) >= 1 && len(frac) <= 2 && strings.Count(s, s[i:i+1]) == 1 && isDigits(frac) {
			s = s[:i]
		}
	}
	s = strings.NewReplacer(".", "", ",", "").Replace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func sheetCaraBayar(s string) model.CaraBayar {
	if strings.Contains(strings.ToUpper(s), "TRANSFER") {
		return model.CaraBayarTransfer
	}
	return model.CaraBayarTunai
}

func sheetStatus(s string) model.PaymentStatus {
	v := strings.ToUpper(s)
	switch {
	case strings.Contains(v, "LUNAS"), strings.Contains(v, "PAID"):
		return model.PaymentLunas
	case strings.Contains(v, "MENUNGGU"), strings.Contains(v, "KONFIRMASI"):
		return model.PaymentMenungguKonfirmasi
	case strings.Contains(v, "BATAL"), strings.Contains(v, "CANCEL"):
		return model.PaymentBatal
	case strings.Contains(v, "DP"), strings.Contains(v, "DOWN"):
		return model.PaymentDownPayment
	}
	return model.PaymentBelumBayar
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// rowToInput: petakan satu baris ke input order.
func (s *OrderService) rowToInput(ctx context.Context, r SheetRow) (CreateMudhohiInput, error) {
	jenis := r.first("hewan", "jenis_hewan", "tipe_hewan")
	if jenis == "" {
		return CreateMudhohiInput{}, hewanSvc.ErrTipeHewanNotFound
	}
	tipe, err := hewanSvc.FindTipeHewanByNama(s.DB.WithContext(ctx), jenis)
	if err != nil {
		return CreateMudhohiInput{}, err
	}

	in := CreateMudhohiInput{
		AccountProvider:   r.first("accountprovider", "account_provider"),
		AccountProviderID: r.first("accountproviderid", "account_provider_id"),
		NamaPengqurban:    r.first("nama_pengqurban", "nama"),
		NamaPeruntukan:    optional(r.first("nama_peruntukan", "peruntukan")),
		Email:             r.first("email"),
		Phone:             r.first("phone", "telepon", "no_hp"),
		PesanKhusus:       optional(r.first("pesan_khusus")),
		Keterangan:        optional(r.first("keterangan")),
		PotongSendiri:     sheetBool(r.first("potong_sendiri")),
		AmbilDaging:       sheetBool(r.first("ambil_daging")),
		TipeHewanID:       tipe.TipeHewanID,
		IsKolektif:        sheetBool(r.first("is_kolektif", "kolektif")),
		Quantity:          int(sheetInt(r.first("jumlah_hewan", "quantity", "jumlah"), 1)),
		CaraBayar:         sheetCaraBayar(r.first("cara_bayar")),
		Dibayarkan:        sheetInt(r.first("dibayarkan", "jumlah_bayar"), 0),
		URLTandaBukti:     optional(r.first("url_tanda_bukti", "bukti_bayar")),
		KodeResi:          optional(r.first("kode_resi", "resi")),
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	if raw := r.first("payment_status", "status"); raw != "" {
		st := sheetStatus(raw)
		in.PaymentStatus = &st
	}
	if tipe.TipeHewanJenis == hewanModel.JenisSapi {
		if raw := r.first("jatahpengqurban", "jatah_pengqurban"); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil {
					in.JatahPengqurban = append(in.JatahPengqurban, id)
				}
			}
		}
	}
	return in, nil
}

// ImportSheet: tiap baris lewat CreateMudhohi (satu transaksi per baris).
func (s *OrderService) ImportSheet(ctx context.Context, headers []string, rows [][]any) (*ImportResult, error) {
	if len(headers) == 0 {
		return nil, errors.New("headers wajib diisi")
	}
	res := &ImportResult{Data: []ImportRowResult{}}
	for i, r := range BuildSheetRows(headers, rows) {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		item := ImportRowResult{Row: i + 1, Nama: r.first("nama_pengqurban", "nama")}

		in, err := s.rowToInput(ctx, r)
		if err == nil {
			var out *OrderResult
			out, err = s.CreateMudhohi(ctx, in)
			if err == nil {
				id := out.Mudhohi.MudhohiID.String()
				item.MudhohiID = &id
				item.DashCode = out.Mudhohi.MudhohiDashCode
			}
		}
		if err != nil {
			item.Error = err.Error()
			res.Failed++
			log.Printf("[IMPORT] baris %d (%s) gagal: %v", item.Row, item.Nama, err)
		} else {
			res.Success++
		}
		res.Data = append(res.Data, item)
	}
	log.Printf("[IMPORT] selesai: %d sukses, %d gagal", res.Success, res.Failed)
	return res, nil
}
