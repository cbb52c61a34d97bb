// Package dbtest: SQLite in-memory untuk test service yang butuh transaksi GORM.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	database "qurban_backend/internals/databases"
)

// Open: DB baru per test (nama diambil dari t.Name()), skema lengkap sudah dimigrasi.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(0)", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// satu koneksi: transaksi & query biasa melihat data yang sama
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// BeforeUpdate: fn dipanggil tepat sebelum setiap UPDATE ke table, memakai
// koneksi/tx yang sama. Untuk meniru transaksi lain yang menulis lebih dulu.
func BeforeUpdate(t testing.TB, db *gorm.DB, table string, fn func(conn *gorm.DB)) {
	t.Helper()
	err := db.Callback().Update().Before("gorm:update").Register("dbtest:before_update_"+table, func(d *gorm.DB) {
		if d.Error != nil || d.Statement.Table != table {
			return
		}
		fn(d.Session(&gorm.Session{NewDB: true}))
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}
