package services

import (
	"testing"
	"time"

	"kennelpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	sent []string
}

func (r *recordingNotifier) Send(to, message string) error {
	r.sent = append(r.sent, to+": "+message)
	return nil
}

func TestConfirmationSentOnConfirmEvent(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	require.NoError(t, db.Model(&facility).Updates(map[string]interface{}{
		"booking_confirmations": true,
		"sms_notifications":     true,
	}).Error)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)

	events := NewEventBus()
	notifier := &recordingNotifier{}
	NewNotifyService(db, notifier).SubscribeTo(events)

	start := time.Now().UTC().AddDate(0, 0, 2)
	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusRequested, start, start.AddDate(0, 0, 3))

	svc := NewReservationService(db, events)
	_, err := svc.Transition(facility.ID, res.ID, owner.CreatedByUserID, models.StatusConfirmed, nil)
	require.NoError(t, err)

	require.Len(t, notifier.sent, 1)
	assert.Contains(t, notifier.sent[0], owner.Phone)

	var logs []models.NotificationLog
	require.NoError(t, db.Where("reservation_id = ?", res.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "booking_confirmation", logs[0].Kind)
	assert.Equal(t, "sent", logs[0].Status)
}

func TestConfirmationSuppressedWhenDisabled(t *testing.T) {
	db := newTestDB(t)
	facility := seedFacility(t, db)
	require.NoError(t, db.Model(&facility).Updates(map[string]interface{}{
		"booking_confirmations": true,
		"sms_notifications":     false,
	}).Error)
	owner, pet := seedOwnerAndPet(t, db, facility.ID)

	notifier := &recordingNotifier{}
	notify := NewNotifyService(db, notifier)

	start := time.Now().UTC().AddDate(0, 0, 2)
	res := seedReservation(t, db, facility.ID, owner, pet, models.StatusConfirmed, start, start.AddDate(0, 0, 3))

	require.NoError(t, notify.SendBookingConfirmation(facility.ID, res.ID))
	assert.Empty(t, notifier.sent)
}
