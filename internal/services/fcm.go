package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMService handles Firebase Cloud Messaging. A nil *FCMService is valid
// and means push notifications are disabled.
type FCMService struct {
	client *messaging.Client
}

// NewFCMService creates a new FCM service instance from a credentials file
func NewFCMService(credentialsFile string) (*FCMService, error) {
	return newFCMService(option.WithCredentialsFile(credentialsFile))
}

// NewFCMServiceFromBase64 creates a new FCM service instance from
// base64-encoded credentials, for cloud deployments where uploading a
// credentials file is awkward.
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

// NotifyDutyStarted fans a duty-started notification out to the registered
// devices. Failures are logged, never surfaced to the request path.
func (s *FCMService) NotifyDutyStarted(tokens []string, username, storeName string) {
	s.sendMulticast(tokens,
		"Duty started",
		fmt.Sprintf("%s started duty at %s", username, storeName),
		map[string]string{
			"type":      "duty_started",
			"username":  username,
			"storeName": storeName,
		})
}

// NotifyDutyStopped fans a duty-stopped notification out to the registered
// devices.
func (s *FCMService) NotifyDutyStopped(tokens []string, username string) {
	s.sendMulticast(tokens,
		"Duty stopped",
		fmt.Sprintf("%s stopped duty", username),
		map[string]string{
			"type":     "duty_stopped",
			"username": username,
		})
}

func (s *FCMService) sendMulticast(tokens []string, title, body string, data map[string]string) {
	if s == nil || len(tokens) == 0 {
		return
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
		log.Printf("❌ Error sending multicast message: %v", err)
		return
	}
	log.Printf("✅ Multicast sent: %d success, %d failures", response.SuccessCount, response.FailureCount)
}
