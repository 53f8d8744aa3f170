// internal/notification/notifier.go

package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imadgeboyega/kiekky-matchmaking/internal/logger"
	"github.com/imadgeboyega/kiekky-matchmaking/internal/profile"
)

// Multi fans an event out to every notifier and joins their errors
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, event Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogNotifier only logs events
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, event Event) error {
	n.log.Info("match event",
		"type", string(event.Type),
		"match_id", event.MatchID,
		"sender_id", event.SenderID,
		"receiver_id", event.ReceiverID,
		"score", event.Score,
	)
	return nil
}

// ErrQueueFull is returned by Async when an event is dropped.
var ErrQueueFull = errors.New("notification queue full, event dropped")

// Async delivers events on a background worker so slow providers never
// hold up a request. Events are dropped when the queue is full.
type Async struct {
	next    Notifier
	queue   chan Event
	timeout time.Duration
	log     *logger.Logger
	done    chan struct{}
}

func NewAsync(next Notifier, buffer int, timeout time.Duration, log *logger.Logger) *Async {
	if buffer <= 0 {
		buffer = 100
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Async{
		next:    next,
		queue:   make(chan Event, buffer),
		timeout: timeout,
		log:     log,
		done:    make(chan struct{}),
	}
}

// Start runs the worker until ctx is cancelled, then drains what is queued
func (a *Async) Start(ctx context.Context) {
	go func() {
		defer close(a.done)
		for {
			select {
			case event := <-a.queue:
				a.deliver(event)
			case <-ctx.Done():
				for {
					select {
					case event := <-a.queue:
						a.deliver(event)
					default:
						return
					}
				}
			}
		}
	}()
}

// Done is closed once the worker has stopped
func (a *Async) Done() <-chan struct{} {
	return a.done
}

func (a *Async) Notify(ctx context.Context, event Event) error {
	select {
	case a.queue <- event:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *Async) deliver(event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.next.Notify(ctx, event); err != nil {
		a.log.Error("failed to deliver match notification",
			"type", string(event.Type),
			"match_id", event.MatchID,
			"error", err,
		)
	}
}

// resolvePair loads the recipient and the other party of the event
func resolvePair(ctx context.Context, dir Directory, event Event, recipientID int64) (*profile.Party, *profile.Party, error) {
	otherID := event.SenderID
	if recipientID == event.SenderID {
		otherID = event.ReceiverID
	}

	recipient, err := dir.GetParty(ctx, recipientID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve party %d: %w", recipientID, err)
	}
	other, err := dir.GetParty(ctx, otherID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve party %d: %w", otherID, err)
	}
	return recipient, other, nil
}

func displayName(name string) string {
	if name == "" {
		return "Someone"
	}
	return name
}
