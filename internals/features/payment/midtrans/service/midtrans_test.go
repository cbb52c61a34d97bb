package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	n := Notification{OrderID: "QRB-ABC234", StatusCode: "200", GrossAmount: "25000000.00"}
	n.SignatureKey = Sign(n.OrderID, n.StatusCode, n.GrossAmount, "server-key")
	assert.Len(t, n.SignatureKey, 128)
	assert.True(t, VerifySignature(n, "server-key"))
	assert.False(t, VerifySignature(n, "kunci-lain"))
	assert.False(t, VerifySignature(n, ""))

	n.GrossAmount = "1.00"
	assert.False(t, VerifySignature(n, "server-key"))

	n.SignatureKey = ""
	assert.False(t, VerifySignature(n, "server-key"))
}

func TestGrossAmountInt(t *testing.T) {
	v, err := Notification{GrossAmount: "25000000.00"}.GrossAmountInt()
	require.NoError(t, err)
	assert.EqualValues(t, 25_000_000, v)

	_, err = Notification{GrossAmount: "abc"}.GrossAmountInt()
	assert.Error(t, err)
}

func TestMapTransactionStatus(t *testing.T) {
	cases := []struct {
		status, fraud string
		want          Action
	}{
		{"capture", "accept", ActionPaid},
		{"capture", "", ActionPaid},
		{"capture", "challenge", ActionPending},
		{"capture", "deny", ActionCancel},
		{"settlement", "", ActionPaid},
		{"SETTLEMENT", "", ActionPaid},
		{"pending", "", ActionPending},
		{"deny", "", ActionCancel},
		{"cancel", "", ActionCancel},
		{"expire", "", ActionCancel},
		{"refund", "", ActionIgnore},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, MapTransactionStatus(c.status, c.fraud), "%s/%s", c.status, c.fraud)
	}
}

func TestNewSnapGatewayWithoutKey(t *testing.T) {
	assert.Nil(t, NewSnapGateway("  ", false))
	assert.NotNil(t, NewSnapGateway("SB-Mid-server-xxx", false))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abcdef", 3))
	assert.Equal(t, "ab", truncate("ab", 3))
	assert.Equal(t, "Qurban", defaultString("", "Qurban"))
}
