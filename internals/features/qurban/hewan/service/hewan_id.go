package service

import (
	"fmt"
	"strings"

	"qurban_backend/internals/features/qurban/hewan/model"
)

// GroupLetter: 0 -> A, 25 -> Z, 26 -> AA, 27 -> AB, ...
func GroupLetter(idx int) string {
	if idx < 0 {
		idx = 0
	}
	var b []byte
	for n := idx + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}
	return string(b)
}

// GroupedKode: kode berhuruf untuk posisi ke-`position` (0-based).
func GroupedKode(nama string, position, itemsPerGroup int) string {
	if itemsPerGroup <= 0 {
		itemsPerGroup = model.DefaultItemsPerGroup
	}
	group := GroupLetter(position / itemsPerGroup)
	return fmt.Sprintf("%s_%s-%02d", kodeBase(nama), group, position%itemsPerGroup+1)
}

// GenerateHewanKode: kode tampilan hewan baru.
// total = jumlah hewan tipe ini yang sudah ada, index = urutan di batch ini.
func GenerateHewanKode(tipe model.TipeHewanModel, total, index, itemsPerGroup int) string {
	position := total + index
	if tipe.IsLargeQuota() {
		return GroupedKode(tipe.TipeHewanNama, position, itemsPerGroup)
	}
	return fmt.Sprintf("%s_%d", kodeBase(tipe.TipeHewanNama), position+1)
}

func kodeBase(nama string) string {
	return strings.Join(strings.Fields(nama), " ")
}
