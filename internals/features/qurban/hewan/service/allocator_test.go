package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"qurban_backend/internals/databases/dbtest"
	"qurban_backend/internals/features/qurban/hewan/model"
	"qurban_backend/internals/features/qurban/hewan/service"
)

func seedTipe(t *testing.T, db *gorm.DB, nama string, jenis model.JenisHewan, target int) model.TipeHewanModel {
	t.Helper()
	kolektif := int64(3_500_000)
	tipe := model.TipeHewanModel{
		TipeHewanNama:          nama,
		TipeHewanJenis:         jenis,
		TipeHewanHarga:         25_000_000,
		TipeHewanHargaKolektif: &kolektif,
		TipeHewanTarget:        target,
	}
	require.NoError(t, db.Create(&tipe).Error)
	return tipe
}

func sumSlots(allocs []service.Allocation) int {
	n := 0
	for _, a := range allocs {
		n += a.Slot
	}
	return n
}

func TestAllocateSlots_Individu(t *testing.T) {
	db := dbtest.Open(t)
	tipe := seedTipe(t, db, "Sapi", model.JenisSapi, 20)

	allocs, err := service.AllocateSlots(db, service.AllocationRequest{Tipe: tipe, Quantity: 3, ItemsPerGroup: 50})
	require.NoError(t, err)
	require.Len(t, allocs, 3)
	assert.Equal(t, 3, sumSlots(allocs))
	for i, a := range allocs {
		assert.True(t, a.Created)
		assert.False(t, a.Hewan.HewanIsKolektif)
		assert.Nil(t, a.Hewan.HewanSlotTersisa)
		assert.Equal(t, []string{"Sapi_1", "Sapi_2", "Sapi_3"}[i], a.Hewan.HewanKode)
	}

	// order berikutnya melanjutkan penomoran
	tc, err := service.LoadTipeHewan(db, tipe.TipeHewanID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, tc.HewanCount)
	more, err := service.AllocateSlots(db, service.AllocationRequest{Tipe: tipe, Total: int(tc.HewanCount), Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, "Sapi_4", more[0].Hewan.HewanKode)
}

func TestAllocateSlots_KolektifFillsExistingFirst(t *testing.T) {
	db := dbtest.Open(t)
	tipe := seedTipe(t, db, "Sapi", model.JenisSapi, 20)

	first, err := service.AllocateSlots(db, service.AllocationRequest{Tipe: tipe, Quantity: 3, IsKolektif: true})
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.True(t, first[0].Created)
	assert.Equal(t, 3, first[0].Slot)
	require.NotNil(t, first[0].Hewan.HewanSlotTersisa)
	assert.Equal(t, 4, *first[0].Hewan.HewanSlotTersisa)

	second, err := service.AllocateSlots(db, service.AllocationRequest{Tipe: tipe, Total: 1, Quantity: 6, IsKolektif: true})
	require.NoError(t, err)
	assert.Equal(t, 6, sumSlots(second))
	require.Len(t, second, 2)
	assert.False(t, second[0].Created)
	assert.Equal(t, first[0].Hewan.HewanID, second[0].Hewan.HewanID)
	assert.Equal(t, 4, second[0].Slot)
	assert.True(t, second[1].Created)
	assert.Equal(t, 2, second[1].Slot)
	assert.Equal(t, "Sapi_2", second[1].Hewan.HewanKode)

	var full, fresh model.HewanQurbanModel
	require.NoError(t, db.First(&full, "hewan_id = ?", first[0].Hewan.HewanID).Error)
	require.NotNil(t, full.HewanSlotTersisa)
	assert.Equal(t, 0, *full.HewanSlotTersisa)
	require.NoError(t, db.First(&fresh, "hewan_id = ?", second[1].Hewan.HewanID).Error)
	require.NotNil(t, fresh.HewanSlotTersisa)
	assert.Equal(t, 5, *fresh.HewanSlotTersisa)
}

func TestAllocateSlots_KolektifRetriesAfterLostCAS(t *testing.T) {
	db := dbtest.Open(t)
	tipe := seedTipe(t, db, "Sapi", model.JenisSapi, 20)
	first, err := service.AllocateSlots(db, service.AllocationRequest{Tipe: tipe, Quantity: 3, IsKolektif: true})
	require.NoError(t, err)
	hewanID := first[0].Hewan.HewanID

	// order lain mengambil 2 slot di antara baca dan tulis
	stolen := false
	dbtest.BeforeUpdate(t, db, "hewan_qurban", func(conn *gorm.DB) {
		if stolen {
			return
		}
		stolen = true
		require.NoError(t, conn.Exec("UPDATE hewan_qurban SET hewan_slot_tersisa = 2 WHERE hewan_id = ?", hewanID).Error)
	})

	allocs, err := service.AllocateSlots(db, service.AllocationRequest{Tipe: tipe, Total: 1, Quantity: 3, IsKolektif: true})
	require.NoError(t, err)
	assert.True(t, stolen)
	assert.Equal(t, 3, sumSlots(allocs))
	require.Len(t, allocs, 2)
	assert.Equal(t, hewanID, allocs[0].Hewan.HewanID)
	assert.Equal(t, 2, allocs[0].Slot)
	assert.True(t, allocs[1].Created)
	assert.Equal(t, 1, allocs[1].Slot)

	var h model.HewanQurbanModel
	require.NoError(t, db.First(&h, "hewan_id = ?", hewanID).Error)
	require.NotNil(t, h.HewanSlotTersisa)
	assert.Equal(t, 0, *h.HewanSlotTersisa)
}

func TestAllocateSlots_KolektifContention(t *testing.T) {
	db := dbtest.Open(t)
	tipe := seedTipe(t, db, "Sapi", model.JenisSapi, 20)
	first, err := service.AllocateSlots(db, service.AllocationRequest{Tipe: tipe, Quantity: 3, IsKolektif: true})
	require.NoError(t, err)
	hewanID := first[0].Hewan.HewanID

	// slot selalu berubah sebelum CAS sempat menulis
	writes := 0
	dbtest.BeforeUpdate(t, db, "hewan_qurban", func(conn *gorm.DB) {
		writes++
		require.NoError(t, conn.Exec(
			"UPDATE hewan_qurban SET hewan_slot_tersisa = CASE WHEN hewan_slot_tersisa = 4 THEN 3 ELSE 4 END WHERE hewan_id = ?",
			hewanID).Error)
	})

	_, err = service.AllocateSlots(db, service.AllocationRequest{Tipe: tipe, Total: 1, Quantity: 2, IsKolektif: true})
	assert.ErrorIs(t, err, service.ErrSlotContention)
	assert.Equal(t, 6, writes)

	var count int64
	require.NoError(t, db.Model(&model.HewanQurbanModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "tidak ada hewan baru saat alokasi gagal")
}

func TestAllocateSlots_KolektifMoreThanCapacity(t *testing.T) {
	db := dbtest.Open(t)
	tipe := seedTipe(t, db, "Unta", model.JenisUnta, 5)

	allocs, err := service.AllocateSlots(db, service.AllocationRequest{Tipe: tipe, Quantity: 16, IsKolektif: true})
	require.NoError(t, err)
	assert.Equal(t, 16, sumSlots(allocs))
	require.Len(t, allocs, 3)
	assert.Equal(t, []int{7, 7, 2}, []int{allocs[0].Slot, allocs[1].Slot, allocs[2].Slot})
	assert.Equal(t, "Unta_3", allocs[2].Hewan.HewanKode)
}

func TestAllocateSlots_InvalidQuantity(t *testing.T) {
	db := dbtest.Open(t)
	tipe := seedTipe(t, db, "Sapi", model.JenisSapi, 20)
	_, err := service.AllocateSlots(db, service.AllocationRequest{Tipe: tipe, Quantity: 0})
	assert.ErrorIs(t, err, service.ErrInvalidQuantity)
}

func TestLoadTipeHewan_NotFound(t *testing.T) {
	db := dbtest.Open(t)
	_, err := service.LoadTipeHewan(db, 999)
	assert.ErrorIs(t, err, service.ErrTipeHewanNotFound)
	assert.EqualError(t, err, "Tipe hewan tidak ditemukan")
}

func TestSetItemsPerGroupAndRename(t *testing.T) {
	db := dbtest.Open(t)
	domba := seedTipe(t, db, "Domba", model.JenisDomba, 0)
	_, err := service.AllocateSlots(db, service.AllocationRequest{Tipe: domba, Quantity: 5, ItemsPerGroup: 50})
	require.NoError(t, err)

	assert.Equal(t, model.DefaultItemsPerGroup, service.GetItemsPerGroup(db))

	res, err := service.SetItemsPerGroupAndRename(db, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.ItemsPerGroup)
	assert.Equal(t, 2, service.GetItemsPerGroup(db))

	var kodes []string
	require.NoError(t, db.Model(&model.HewanQurbanModel{}).
		Order("created_at ASC, hewan_kode ASC").
		Pluck("hewan_kode", &kodes).Error)
	assert.ElementsMatch(t, []string{"Domba_A-01", "Domba_A-02", "Domba_B-01", "Domba_B-02", "Domba_C-01"}, kodes)
}
