package helper

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// PGCode mengambil SQLSTATE dari error pgx (driver utama) atau lib/pq.
func PGCode(err error) (code, constraint string) {
	if err == nil {
		return "", ""
	}
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code, pgxErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint
	}
	return "", ""
}

func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	code, _ := PGCode(err)
	if code == pgUniqueViolation {
		return true
	}
	// sqlite (test) tidak punya SQLSTATE
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsRetryableTxError: konflik yang hilang kalau transaksi diulang.
func IsRetryableTxError(err error) bool {
	if IsUniqueViolation(err) {
		return true
	}
	code, _ := PGCode(err)
	return code == pgSerializationFailure || code == pgDeadlockDetected
}

// MapPGError memetakan error constraint Postgres ke status HTTP.
func MapPGError(err error) (int, string, bool) {
	code, constraint := PGCode(err)
	switch code {
	case pgUniqueViolation:
		if constraint != "" {
			return fiber.StatusConflict, "Data duplikat (" + constraint + ")", true
		}
		return fiber.StatusConflict, "Data duplikat", true
	case pgForeignKeyViolation:
		return fiber.StatusBadRequest, "Referensi data tidak valid", true
	case pgCheckViolation:
		return fiber.StatusBadRequest, "Nilai tidak memenuhi constraint", true
	}
	return 0, "", false
}
