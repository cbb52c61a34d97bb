package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	emailModel "qurban_backend/internals/features/notifications/email/model"
	emailSvc "qurban_backend/internals/features/notifications/email/service"
	distribusiModel "qurban_backend/internals/features/qurban/distribusi/model"
	kuponModel "qurban_backend/internals/features/qurban/kupon/model"
	"qurban_backend/internals/features/qurban/mudhohi/model"
	"qurban_backend/internals/features/qurban/mudhohi/service"
	realtime "qurban_backend/internals/features/realtime/service"
)

func TestResendConfirmation(t *testing.T) {
	env := newEnv(t)
	env.order.Resend = emailSvc.NewResendLimiter(emailSvc.NewMemoryStore(), 1, time.Hour)
	res := env.place(t, env.guestInput("Fulan", "fulan@example.com"))
	id := res.Mudhohi.MudhohiID
	ctx := context.Background()

	stranger := uuid.New()
	assert.ErrorIs(t, env.order.ResendConfirmation(ctx, id, &stranger), service.ErrNotOrderOwner)

	owner := res.User.ID
	require.NoError(t, env.order.ResendConfirmation(ctx, id, &owner))
	require.Len(t, env.notifier.sent, 2)
	assert.Equal(t, env.notifier.sent[0].DashCode, env.notifier.sent[1].DashCode)
	assert.EqualValues(t, 2, env.count(t, &emailModel.OutboxMessageModel{}))

	// admin (requester nil) tetap kena limit per alamat email
	assert.ErrorIs(t, env.order.ResendConfirmation(ctx, id, nil), service.ErrResendRateLimited)

	assert.ErrorIs(t, env.order.ResendConfirmation(ctx, uuid.New(), nil), service.ErrMudhohiNotFound)

	noMail := env.place(t, env.guestInput("Hamba Allah", ""))
	assert.ErrorIs(t, env.order.ResendConfirmation(ctx, noMail.Mudhohi.MudhohiID, nil), service.ErrNoConfirmation)
}

func TestDistributeKupon(t *testing.T) {
	env := newEnv(t)
	res := env.place(t, env.guestInput("Fulan", "fulan@example.com"))
	id := res.Mudhohi.MudhohiID

	kupons, err := env.order.DistributeKupon(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, kupons, 2)
	for _, k := range kupons {
		assert.Equal(t, kuponModel.KuponDistributed, k.KuponStatus)
	}

	var m model.MudhohiModel
	require.NoError(t, env.db.First(&m, "mudhohi_id = ?", id).Error)
	assert.True(t, m.MudhohiSudahTerimaKupon)

	var p distribusiModel.PenerimaModel
	require.NoError(t, env.db.First(&p, "penerima_mudhohi_id = ?", id).Error)
	assert.True(t, p.PenerimaSudahMenerima)
	assert.NotNil(t, p.PenerimaWaktuTerima)

	names := env.publisher.names()
	assert.Equal(t, []string{realtime.EventUpdateKupon, realtime.EventUpdateMudhohi}, names[len(names)-2:])

	_, err = env.order.DistributeKupon(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrMudhohiNotFound)
}
