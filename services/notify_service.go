// services/notify_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"kennelpro-backend/models"

	"github.com/google/uuid"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"gorm.io/gorm"
)

// Notifier delivers a message to an owner. Messaging is an external
// collaborator of the booking core; only this interface is depended on.
type Notifier interface {
	Send(to, message string) error
}

// TwilioNotifier is the production SMS adapter.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioNotifier() *TwilioNotifier {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioNotifier{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: os.Getenv("TWILIO_PHONE_NUMBER"),
	}
}

func (n *TwilioNotifier) Send(to, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(n.from)
	params.SetBody(message)

	_, err := n.client.Api.CreateMessage(params)
	return err
}

// LogNotifier is the default adapter when Twilio is not configured.
type LogNotifier struct{}

func (LogNotifier) Send(to, message string) error {
	log.Printf("[NOTIFY] to=%s %s", to, message)
	return nil
}

type NotifyService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewNotifyService(db *gorm.DB, notifier Notifier) *NotifyService {
	return &NotifyService{db: db, notifier: notifier}
}

// SubscribeTo sends a booking confirmation whenever a reservation is confirmed.
func (s *NotifyService) SubscribeTo(events *EventBus) {
	events.Subscribe(func(evt Event) {
		if evt.Action != ActionStatusChange || evt.Status != models.StatusConfirmed {
			return
		}
		if err := s.SendBookingConfirmation(evt.FacilityID, evt.EntityID); err != nil {
			log.Printf("Failed to send booking confirmation for %s: %v", evt.EntityID, err)
		}
	})
}

func (s *NotifyService) SendBookingConfirmation(facilityID, reservationID uuid.UUID) error {
	var facility models.Facility
	if err := s.db.First(&facility, "id = ?", facilityID).Error; err != nil {
		return err
	}
	if !facility.BookingConfirmations || !facility.SMSNotifications {
		return nil
	}

	var res models.Reservation
	if err := s.db.Where("facility_id = ? AND id = ?", facilityID, reservationID).
		First(&res).Error; err != nil {
		return err
	}

	message := fmt.Sprintf("Your %s booking from %s to %s is confirmed. See you soon!",
		res.ServiceType,
		res.StartAt.Format("Jan 2"),
		res.EndAt.Format("Jan 2"))

	return s.deliver(facility.ID, res, "booking_confirmation", message)
}

// SendCheckInReminders messages owners whose confirmed reservations start
// tomorrow. Invoked daily by the scheduler.
func (s *NotifyService) SendCheckInReminders() {
	log.Println("Starting check-in reminder processing...")

	var facilities []models.Facility
	if err := s.db.Find(&facilities).Error; err != nil {
		log.Printf("Failed to fetch facilities: %v", err)
		return
	}

	for _, facility := range facilities {
		if !facility.CheckInReminders || !facility.SMSNotifications {
			continue
		}
		s.processFacilityReminders(facility)
	}

	log.Println("Check-in reminder processing completed")
}

func (s *NotifyService) processFacilityReminders(facility models.Facility) {
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	dayStart := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	var reservations []models.Reservation
	if err := s.db.Where("facility_id = ? AND status = ? AND start_at >= ? AND start_at < ?",
		facility.ID, models.StatusConfirmed, dayStart, dayEnd).
		Find(&reservations).Error; err != nil {
		log.Printf("Facility %s: failed to fetch arrivals: %v", facility.ID, err)
		return
	}

	for _, res := range reservations {
		message := fmt.Sprintf("Reminder: your %s stay starts tomorrow at %s.",
			res.ServiceType, res.StartAt.Format("3:04 PM"))
		if err := s.deliver(facility.ID, res, "checkin_reminder", message); err != nil {
			log.Printf("Facility %s: reminder for %s failed: %v", facility.ID, res.ID, err)
		}
	}
}

func (s *NotifyService) deliver(facilityID uuid.UUID, res models.Reservation, kind, message string) error {
	var owner models.Owner
	if err := s.db.First(&owner, "id = ?", res.OwnerID).Error; err != nil {
		return err
	}
	if owner.Phone == "" {
		return errors.New("owner has no phone on file")
	}

	entry := models.NotificationLog{
		FacilityID:    facilityID,
		OwnerID:       owner.ID,
		ReservationID: res.ID,
		Kind:          kind,
		Message:       message,
		Channel:       "sms",
		SentAt:        time.Now().UTC(),
	}

	if err := s.notifier.Send(owner.Phone, message); err != nil {
		entry.Status = "failed"
		entry.ErrorMessage = err.Error()
		s.db.Create(&entry)
		return err
	}

	entry.Status = "sent"
	return s.db.Create(&entry).Error
}
