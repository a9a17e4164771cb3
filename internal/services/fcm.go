package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strconv"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService handles Firebase Cloud Messaging
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	ctx := context.Background()

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials
// This is useful for cloud deployments (Railway, Fly.io, Render) where you can't upload files easily
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	ctx := context.Background()

	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}

	opt := option.WithCredentialsJSON(credentialsJSON)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	return &FCMService{client: client}, nil
}

// SendSeatsReservedNotification tells a driver that seats on their ride
// were just reserved.
func (s *FCMService) SendSeatsReservedNotification(tokens []string, rideID, destination string, seats, seatsLeft int) error {
	return s.sendMulticast(tokens,
		"Seats reserved!",
		fmt.Sprintf("%d seat(s) reserved on your ride to %s. %d left.", seats, destination, seatsLeft),
		map[string]string{
			"type":            "seats_reserved",
			"ride_id":         rideID,
			"seats":           strconv.Itoa(seats),
			"seats_available": strconv.Itoa(seatsLeft),
		})
}

// SendReservationCancelledNotification tells a driver that a reservation
// on their ride was cancelled and the seats released.
func (s *FCMService) SendReservationCancelledNotification(tokens []string, rideID, destination string, seats, seatsLeft int) error {
	return s.sendMulticast(tokens,
		"Reservation cancelled",
		fmt.Sprintf("%d seat(s) released on your ride to %s. %d available.", seats, destination, seatsLeft),
		map[string]string{
			"type":            "reservation_cancelled",
			"ride_id":         rideID,
			"seats":           strconv.Itoa(seats),
			"seats_available": strconv.Itoa(seatsLeft),
		})
}

// sendMulticast sends the same message to multiple tokens
func (s *FCMService) sendMulticast(tokens []string, title, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	ctx := context.Background()

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := s.client.SendEachForMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	log.Printf("✅ Multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)
	return nil
}
