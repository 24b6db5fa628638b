package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"hostel-admin/internal/model"
	"hostel-admin/internal/store"
)

// NotificationSender defines the interface for sending a web push notification.
type NotificationSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of NotificationSender using the webpush library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// Alert is one inventory item that has dropped to or below the low-stock threshold.
type Alert struct {
	HostelID  int64
	Item      model.InventoryItem
	Threshold float64
}

// Message is the JSON payload delivered to the browser.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// WorkerPool manages a pool of workers for sending notifications.
type WorkerPool struct {
	size    int
	jobs    chan Alert
	store   store.Store
	webpush *webpush.Options
	sender  NotificationSender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Alert, size),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("Worker %d started", id)
	for {
		select {
		case alert := <-wp.jobs:
			log.Printf("Worker %d processing low-stock alert for item %d", id, alert.Item.ID)
			wp.sendAlert(ctx, alert)
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert, blocking while every worker is busy.
func (wp *WorkerPool) Dispatch(alert Alert) {
	wp.jobs <- alert
}

// BuildMessage renders the push payload for an alert.
func BuildMessage(hostelName string, alert Alert) Message {
	title := "Low stock"
	if hostelName != "" {
		title = "Low stock in " + hostelName
	}
	return Message{
		Title: title,
		Body:  fmt.Sprintf("%s is down to %g %s", alert.Item.ItemName, alert.Item.Quantity, alert.Item.Unit),
		URL:   fmt.Sprintf("/inventory?hostelId=%d", alert.HostelID),
	}
}

func (wp *WorkerPool) sendAlert(ctx context.Context, alert Alert) {
	subscriptions, err := wp.store.SubscriptionsForHostel(ctx, alert.HostelID)
	if err != nil {
		log.Printf("Error fetching subscriptions for hostel %d: %v", alert.HostelID, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	log.Printf("Sending %d notifications for hostel %d", len(subscriptions), alert.HostelID)

	var hostelName string
	if hostel, err := wp.store.GetHostel(ctx, alert.HostelID); err != nil {
		log.Printf("Error fetching hostel %d: %v", alert.HostelID, err)
	} else {
		hostelName = hostel.Name
	}

	payload, err := json.Marshal(BuildMessage(hostelName, alert))
	if err != nil {
		log.Printf("Error encoding alert payload: %v", err)
		return
	}
	for _, sub := range subscriptions {
		wp.sendNotification(ctx, sub, payload)
	}
}

func (wp *WorkerPool) sendNotification(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("Error sending notification to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusGone {
		log.Printf("Subscription for endpoint %s is expired. Deleting.", sub.Endpoint)
		if err := wp.store.DeleteSubscription(ctx, sub.Endpoint); err != nil {
			log.Printf("Failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
