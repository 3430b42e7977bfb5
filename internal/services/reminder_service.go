package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	model "farm-task-service.com/farm-task-service/internal/models"
	repository "farm-task-service.com/farm-task-service/internal/repositories"
)

// ReminderService periodically checks every active farm membership for
// tasks due today and stores one notification per user, farm and day.
// Memberships are fanned out to a fixed pool of workers.
type ReminderService struct {
	queue         chan model.UserFarm
	wg            sync.WaitGroup
	loopWG        sync.WaitGroup
	enqueued      sync.Map
	mu            sync.RWMutex
	stopped       bool
	stopOnce      sync.Once
	ctx           context.Context
	cancel        context.CancelFunc
	tasks         *repository.TaskRepository
	farms         *repository.FarmRepository
	notifications *repository.NotificationRepository
	interval      time.Duration
	stop          chan struct{}
	now           func() time.Time
	log           logrus.FieldLogger
}

func NewReminderService(
	tasks *repository.TaskRepository,
	farms *repository.FarmRepository,
	notifications *repository.NotificationRepository,
	workers int,
	queueSize int,
	interval time.Duration,
	log logrus.FieldLogger,
) *ReminderService {
	ctx, cancel := context.WithCancel(context.Background())
	p := &ReminderService{
		ctx:           ctx,
		cancel:        cancel,
		queue:         make(chan model.UserFarm, queueSize),
		tasks:         tasks,
		farms:         farms,
		notifications: notifications,
		interval:      interval,
		stop:          make(chan struct{}),
		now:           time.Now,
		log:           log,
	}

	if interval > 0 {
		p.loopWG.Add(1)
		go p.sweepLoop()
	}

	for i := 1; i <= workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	return p
}

func (p *ReminderService) worker(workerID int) {
	defer p.wg.Done()

	log := p.log.WithField("worker", workerID)
	log.Debug("reminder worker started")

	for membership := range p.queue {
		p.handleMembership(log, membership)
	}

	log.Debug("reminder worker stopped")
}

func (p *ReminderService) handleMembership(log logrus.FieldLogger, m model.UserFarm) {
	ctx := p.ctx
	defer p.untrackEnqueued(m)

	log = log.WithFields(logrus.Fields{"user_id": m.UserID, "farm_id": m.FarmID})

	taskIDs, err := p.tasks.TaskIDsForFarm(ctx, m.FarmID)
	if err != nil {
		log.WithError(err).Error("failed to list farm tasks")
		return
	}

	due, err := p.tasks.HasTasksDueTodayForUser(ctx, m.UserID, taskIDs)
	if err != nil {
		log.WithError(err).Error("failed to check tasks due today")
		return
	}
	if !due {
		return
	}

	created, err := p.notifications.CreateOnce(ctx, m.UserID, m.FarmID, model.NotificationDailyTasksDue, p.now())
	if err != nil {
		log.WithError(err).Error("failed to store reminder")
		return
	}
	if created {
		log.Info("daily task reminder created")
	}
}

func (p *ReminderService) sweepLoop() {
	defer p.loopWG.Done()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.SweepOnce(p.ctx)
		case <-p.stop:
			return
		}
	}
}

// SweepOnce enqueues every active membership not already waiting. It stops
// early when the queue is full; the next sweep picks up the rest. After
// Shutdown it enqueues nothing.
func (p *ReminderService) SweepOnce(ctx context.Context) int {
	memberships, err := p.farms.ListActiveMemberships(ctx)
	if err != nil {
		p.log.WithError(err).Error("reminder sweep: failed to list memberships")
		return 0
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return 0
	}

	enqueued := 0
	for _, m := range memberships {
		ok, queueFull := p.enqueueIfNotPresent(m)
		if queueFull {
			p.log.WithField("pending", len(memberships)-enqueued).Warn("reminder sweep: queue full")
			break
		}
		if ok {
			enqueued++
		}
	}

	return enqueued
}

func (p *ReminderService) enqueueIfNotPresent(m model.UserFarm) (bool, bool) {
	if !p.trackEnqueued(m) {
		return false, false
	}

	select {
	case p.queue <- m:
		return true, false
	default:
		p.untrackEnqueued(m)
		return false, true
	}
}

func membershipKey(m model.UserFarm) string {
	return m.FarmID + "/" + m.UserID
}

func (p *ReminderService) trackEnqueued(m model.UserFarm) bool {
	_, loaded := p.enqueued.LoadOrStore(membershipKey(m), struct{}{})
	return !loaded
}

func (p *ReminderService) untrackEnqueued(m model.UserFarm) {
	p.enqueued.Delete(membershipKey(m))
}

// Shutdown stops the sweep loop and drains the queue. In-flight work is
// cancelled when ctx expires first. Calling it again is a no-op.
func (p *ReminderService) Shutdown(ctx context.Context) {
	first := false
	p.stopOnce.Do(func() { first = true })
	if !first {
		return
	}

	close(p.stop)
	p.loopWG.Wait()

	p.mu.Lock()
	p.stopped = true
	close(p.queue)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.cancel()
		p.log.Info("reminder pool shut down cleanly")
	case <-ctx.Done():
		p.cancel()
		p.log.Warn("reminder pool shutdown timed out, in-flight reminders cancelled")
	}
}
