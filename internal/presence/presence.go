// Package presence rotates the bot's status line.
package presence

import (
	log "log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// Updater is the platform surface the cycler drives.
type Updater interface {
	SetStatus(status string) error
	GuildCount() int
}

// WithDefault returns the rotation list for the cycler: the configured
// statuses in order, with the localized default appended last.
func WithDefault(statuses []string, def string) []string {
	out := make([]string, 0, len(statuses)+1)
	out = append(out, statuses...)
	return append(out, def)
}

// Cycler walks a fixed status list on a timer. The placeholder {guild_count}
// in any entry is replaced with the live guild count on each pass.
type Cycler struct {
	updater  Updater
	statuses []string
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	started  atomic.Bool
}

func NewCycler(updater Updater, statuses []string, interval time.Duration) *Cycler {
	if interval <= 0 {
		interval = 20 * time.Second
	}
	return &Cycler{
		updater:  updater,
		statuses: statuses,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins cycling in a background goroutine. It returns immediately;
// call Stop to end the loop.
func (c *Cycler) Start() {
	c.started.Store(true)
	go c.run()
}

// Stop ends the loop and waits for it to finish. Safe to call on a cycler
// that was never started.
func (c *Cycler) Stop() {
	close(c.stop)
	if c.started.Load() {
		<-c.done
	}
}

func (c *Cycler) run() {
	defer close(c.done)
	if len(c.statuses) == 0 {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	i := 0
	c.apply(c.statuses[i])
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			i = (i + 1) % len(c.statuses)
			c.apply(c.statuses[i])
		}
	}
}

func (c *Cycler) apply(status string) {
	status = strings.ReplaceAll(status, "{guild_count}", strconv.Itoa(c.updater.GuildCount()))
	if err := c.updater.SetStatus(status); err != nil {
		log.Warn("status update failed", "status", status, "err", err)
	}
}
