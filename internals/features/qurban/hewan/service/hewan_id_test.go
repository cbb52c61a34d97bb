package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"qurban_backend/internals/features/qurban/hewan/model"
)

func TestGroupLetter(t *testing.T) {
	cases := map[int]string{0: "A", 1: "B", 25: "Z", 26: "AA", 27: "AB", 51: "AZ", 52: "BA", 701: "ZZ", 702: "AAA", -3: "A"}
	for idx, want := range cases {
		assert.Equal(t, want, GroupLetter(idx), "idx %d", idx)
	}
}

func TestGroupedKode(t *testing.T) {
	assert.Equal(t, "Domba_A-01", GroupedKode("Domba", 0, 50))
	assert.Equal(t, "Domba_A-50", GroupedKode("Domba", 49, 50))
	assert.Equal(t, "Domba_B-01", GroupedKode("Domba", 50, 50))
	assert.Equal(t, "Domba_C-03", GroupedKode("Domba", 12, 5))
	// itemsPerGroup tidak valid → default 50
	assert.Equal(t, "Domba_A-02", GroupedKode("Domba", 1, 0))
}

func TestGenerateHewanKode(t *testing.T) {
	sapi := model.TipeHewanModel{TipeHewanNama: "Sapi  A", TipeHewanJenis: model.JenisSapi, TipeHewanTarget: 20}
	assert.Equal(t, "Sapi A_1", GenerateHewanKode(sapi, 0, 0, 50))
	assert.Equal(t, "Sapi A_6", GenerateHewanKode(sapi, 4, 1, 50))

	domba := model.TipeHewanModel{TipeHewanNama: "Domba", TipeHewanJenis: model.JenisDomba}
	assert.Equal(t, "Domba_A-01", GenerateHewanKode(domba, 0, 0, 50))
	assert.Equal(t, "Domba_B-02", GenerateHewanKode(domba, 50, 1, 50))

	// sapi dengan target besar ikut skema berhuruf
	sapiBesar := model.TipeHewanModel{TipeHewanNama: "Sapi", TipeHewanJenis: model.JenisSapi, TipeHewanTarget: 150}
	assert.Equal(t, "Sapi_A-10", GenerateHewanKode(sapiBesar, 9, 0, 10))
	assert.Equal(t, "Sapi_B-01", GenerateHewanKode(sapiBesar, 9, 1, 10))
}
