package handler

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"tg-cognito/internal/crash"
	"tg-cognito/internal/logger"
)

// processing statistics
var (
	totalMessagesProcessed int64
	totalCallbackQueries   int64
	totalErrors            int64
	startTime              = time.Now()
)

func incrementCounter(counter *int64) {
	atomic.AddInt64(counter, 1)
}

// GetProcessingStats collects counters, relay state and runtime figures
func (h *Handler) GetProcessingStats(ctx context.Context) map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"uptime_seconds":   int64(time.Since(startTime).Seconds()),
		"total_messages":   atomic.LoadInt64(&totalMessagesProcessed),
		"total_callbacks":  atomic.LoadInt64(&totalCallbackQueries),
		"total_errors":     atomic.LoadInt64(&totalErrors),
		"pending_items":    h.relay.PendingCount(),
		"registered_chats": h.registry.Count(ctx),
		"memory_usage_mb":  bToMb(m.Alloc),
		"sys_memory_mb":    bToMb(m.Sys),
		"gc_runs":          m.NumGC,
		"goroutines":       runtime.NumGoroutine(),
	}
}

// LogProcessingStats logs the statistics every interval until ctx is done
func (h *Handler) LogProcessingStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		stats := h.GetProcessingStats(ctx)
		logger.Infof("Processing stats: %+v", stats)

		total := stats["total_messages"].(int64) + stats["total_callbacks"].(int64)
		errs := stats["total_errors"].(int64)
		if total > 0 && float64(errs)/float64(total) > 0.1 {
			logger.Warningf("High error rate: %.2f%% (%d errors out of %d updates)",
				float64(errs)/float64(total)*100, errs, total)
		}
	}
}

// StartStatusMonitoring starts the periodic stats log
func (h *Handler) StartStatusMonitoring(ctx context.Context) {
	crash.SafeGoroutine("status-monitor", func() {
		h.LogProcessingStats(ctx, 5*time.Minute)
	})
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

// GetDetailedStatus renders the statistics for the debug log
func (h *Handler) GetDetailedStatus(ctx context.Context) string {
	stats := h.GetProcessingStats(ctx)
	return fmt.Sprintf(`
=== tg-cognito Processing Status ===
Uptime: %d seconds
Messages Processed: %d
Callback Queries: %d
Errors: %d
Pending Items: %d
Registered Chats: %d
Memory Usage: %d MB
System Memory: %d MB
GC Runs: %d
Goroutines: %d
====================================`,
		stats["uptime_seconds"],
		stats["total_messages"],
		stats["total_callbacks"],
		stats["total_errors"],
		stats["pending_items"],
		stats["registered_chats"],
		stats["memory_usage_mb"],
		stats["sys_memory_mb"],
		stats["gc_runs"],
		stats["goroutines"],
	)
}
