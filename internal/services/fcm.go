package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	"campusride-backend/internal/notify"

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
	return newFCMService(option.WithCredentialsFile(credentialsFile))
}

// NewFCMServiceFromBase64 creates a new FCM service instance from base64-encoded credentials
// This is useful for cloud deployments (Railway, Fly.io, Render) where you can't upload files easily
func NewFCMServiceFromBase64(credentialsBase64 string) (*FCMService, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newFCMService(option.WithCredentialsJSON(credentialsJSON))
}

func newFCMService(opt option.ClientOption) (*FCMService, error) {
	ctx := context.Background()

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

// SendAlert pushes a decided alert to one device token. The alert key
// rides along as the collapse tag so a later alert for the same shuttle
// replaces the earlier one on the device.
func (s *FCMService) SendAlert(ctx context.Context, token string, alert notify.Alert) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: alert.Title,
			Body:  alert.Body,
		},
		Data: map[string]string{
			"type": alert.Type,
			"key":  alert.Key,
		},
		Android: &messaging.AndroidConfig{
			Priority: androidPriority(alert.Priority),
			Notification: &messaging.AndroidNotification{
				Tag:   alert.Key,
				Sound: alert.Sound,
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-collapse-id": alert.Key},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					ContentAvailable: true,
					Sound:            "default",
				},
			},
		},
	}

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM message: %w", err)
	}

	log.Printf("✅ FCM alert sent: key=%s response=%s", alert.Key, response)
	return nil
}

// SendShuttleAlertToTopic broadcasts a structured alert payload to a
// topic (all riders subscribed to campus alerts). The payload schema
// matches what the notification decision engine accepts on intake.
func (s *FCMService) SendShuttleAlertToTopic(ctx context.Context, topic string, data map[string]string) error {
	message := &messaging.Message{
		Topic: topic,
		Data:  data,
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

	response, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending FCM topic message: %w", err)
	}

	log.Printf("✅ FCM topic alert sent: topic=%s type=%s response=%s", topic, data["type"], response)
	return nil
}

// SendMulticast sends the same message to multiple tokens
func (s *FCMService) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
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

func androidPriority(p notify.Priority) string {
	if p >= notify.PriorityHigh {
		return "high"
	}
	return "normal"
}

// FCMDispatcher adapts the FCM service to the alert dispatch boundary
// for a single device token.
type FCMDispatcher struct {
	svc   *FCMService
	token string
}

// NewFCMDispatcher creates a dispatcher that pushes to one device
func NewFCMDispatcher(svc *FCMService, token string) *FCMDispatcher {
	return &FCMDispatcher{svc: svc, token: token}
}

// Show pushes the alert; delivery failure is logged, never surfaced
func (d *FCMDispatcher) Show(alert notify.Alert) {
	if d.svc == nil || d.token == "" {
		return
	}
	if err := d.svc.SendAlert(context.Background(), d.token, alert); err != nil {
		log.Printf("❌ FCM dispatch failed for key %s: %v", alert.Key, err)
	}
}

// Cancel is a no-op: a delivered push cannot be withdrawn remotely.
// Replacement via the collapse tag is the only dedup FCM offers.
func (d *FCMDispatcher) Cancel(key string) {
	log.Printf("ℹ️  FCM cannot cancel delivered alert %s", key)
}

// CancelAll is a no-op, see Cancel
func (d *FCMDispatcher) CancelAll() {}
