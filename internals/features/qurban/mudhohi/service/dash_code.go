package service

import (
	"crypto/rand"
	"math/big"
)

const (
	DashCodePrefix = "QRB-"
	dashCodeLen    = 6
	dashAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// GenerateDashCode: QRB-XXXXXX (tanpa 0/O/1/I supaya mudah dibaca).
func GenerateDashCode() (string, error) {
	b := make([]byte, dashCodeLen)
	max := big.NewInt(int64(len(dashAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = dashAlphabet[n.Int64()]
	}
	return DashCodePrefix + string(b), nil
}
