package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// VoiceTickWorker periodically grants voice activity points to every
// user on the active roster
type VoiceTickWorker struct {
	accrual AccrualService
}

// NewVoiceTickWorker creates a new voice tick worker
func NewVoiceTickWorker(accrual AccrualService) *VoiceTickWorker {
	return &VoiceTickWorker{accrual: accrual}
}

// Start begins the voice tick worker and returns a stop function
func (w *VoiceTickWorker) Start(ctx context.Context, interval time.Duration) func() {
	stopChan := make(chan struct{})

	go func() {
		log.Infof("Voice tick worker started, granting every %v", interval)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Info("Voice tick worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Voice tick worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				if err := w.accrual.GrantVoiceTick(ctx); err != nil {
					log.Errorf("Error granting voice tick: %v", err)
				}
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}
