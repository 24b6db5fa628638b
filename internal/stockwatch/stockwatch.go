package stockwatch

import (
	"context"
	"log"
	"time"

	"hostel-admin/config"
	"hostel-admin/internal/notification"
	"hostel-admin/internal/store"
)

// Dispatcher receives newly-low items. *notification.WorkerPool satisfies it.
type Dispatcher interface {
	Dispatch(alert notification.Alert)
}

// Service periodically scans every active hostel's inventory for low stock.
type Service struct {
	cfg        config.StockWatchConfig
	store      store.Store
	dispatcher Dispatcher

	// notified maps alerted item IDs to their hostel; an item leaves once it recovers or its hostel closes.
	notified map[int64]int64
}

// NewService creates a watcher. A nil dispatcher logs low items without sending alerts.
func NewService(cfg config.StockWatchConfig, s store.Store, d Dispatcher) *Service {
	return &Service{
		cfg:        cfg,
		store:      s,
		dispatcher: d,
		notified:   make(map[int64]int64),
	}
}

// Run starts the scan loop and blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	if !s.cfg.Enabled {
		log.Println("Stock watcher is disabled. Not starting.")
		return
	}
	log.Printf("Starting stock watcher (threshold %g, every %s)...", s.cfg.Threshold, s.cfg.Interval)

	s.ScanOnce(ctx)

	timer := time.NewTimer(s.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Stock watcher shutting down.")
			return
		case <-timer.C:
			s.ScanOnce(ctx)
			timer.Reset(s.cfg.Interval)
		}
	}
}

// ScanOnce performs one pass over all active hostels and returns the alerts it raised.
func (s *Service) ScanOnce(ctx context.Context) []notification.Alert {
	hostels, err := s.store.ListHostels(ctx, true)
	if err != nil {
		log.Printf("Error listing hostels: %v", err)
		return nil
	}

	var alerts []notification.Alert
	stillLow := make(map[int64]struct{})
	scanned := make(map[int64]bool, len(hostels))
	active := make(map[int64]bool, len(hostels))
	for _, h := range hostels {
		active[h.ID] = true
		items, err := s.store.LowStock(ctx, h.ID, s.cfg.Threshold)
		if err != nil {
			log.Printf("Error scanning inventory of hostel %d: %v", h.ID, err)
			continue
		}
		scanned[h.ID] = true
		for _, item := range items {
			stillLow[item.ID] = struct{}{}
			if _, seen := s.notified[item.ID]; seen {
				continue
			}
			alerts = append(alerts, notification.Alert{HostelID: h.ID, Item: item, Threshold: s.cfg.Threshold})
		}
	}

	// Items of hostels that failed to scan keep their state until the next good pass.
	// Hostels that are gone or inactive start fresh if they come back.
	for id, hostelID := range s.notified {
		if _, low := stillLow[id]; (!low && scanned[hostelID]) || !active[hostelID] {
			delete(s.notified, id)
		}
	}

	for _, alert := range alerts {
		s.notified[alert.Item.ID] = alert.HostelID
		log.Printf("Item %q of hostel %d is low (%g %s)", alert.Item.ItemName, alert.HostelID, alert.Item.Quantity, alert.Item.Unit)
		if s.dispatcher != nil {
			s.dispatcher.Dispatch(alert)
		}
	}
	return alerts
}
