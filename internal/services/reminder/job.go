package reminder

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/eisengo/backend/internal/infrastructure/journal"
	"github.com/eisengo/backend/pkg/mailer"
	"github.com/eisengo/backend/repository"
)

// Journal entries older than this are swept before each run.
const journalRetention = 48 * time.Hour

// Config controls the reminder schedule and dispatch.
type Config struct {
	Times      []string
	Subject    string
	RunTimeout time.Duration
}

// Job sweeps all users' incomplete tasks on a fixed wall-clock schedule and
// dispatches one digest email per user.
type Job struct {
	users   repository.UserRepository
	tasks   repository.TaskRepository
	mail    mailer.Mailer
	journal *journal.Store
	subject string
	timeout time.Duration
	logger  *zap.Logger
	cron    *cron.Cron
}

// New builds the job and registers one cron entry per configured HH:MM slot.
func New(
	users repository.UserRepository,
	tasks repository.TaskRepository,
	mail mailer.Mailer,
	jrnl *journal.Store,
	cfg Config,
	logger *zap.Logger,
) (*Job, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Subject == "" {
		cfg.Subject = "Your Daily Task Reminder"
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 2 * time.Minute
	}

	j := &Job{
		users:   users,
		tasks:   tasks,
		mail:    mail,
		journal: jrnl,
		subject: cfg.Subject,
		timeout: cfg.RunTimeout,
		logger:  logger,
		cron:    cron.New(),
	}

	for _, at := range cfg.Times {
		spec, err := cronSpec(at)
		if err != nil {
			return nil, err
		}
		slotTime := at
		if _, err := j.cron.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
			defer cancel()
			if err := j.Run(ctx, slotTime); err != nil {
				j.logger.Error("reminder run failed", zap.String("slot", slotTime), zap.Error(err))
			}
		}); err != nil {
			return nil, err
		}
	}

	return j, nil
}

// Start launches the cron scheduler.
func (j *Job) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("reminder job started")
}

// Stop gracefully stops the scheduler, waiting for a running sweep.
func (j *Job) Stop(ctx context.Context) {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		j.logger.Warn("reminder job stop timed out")
	}
}

// Run performs one sweep. Listing users is the only fatal failure; per-user
// problems are logged and the sweep continues. slotTime identifies the
// schedule slot for journal dedupe.
func (j *Job) Run(ctx context.Context, slotTime string) error {
	start := time.Now()
	slot := fmt.Sprintf("%s %s", start.Format("2006-01-02"), slotTime)

	if j.journal != nil {
		if err := j.journal.Cleanup(start.Add(-journalRetention)); err != nil {
			j.logger.Warn("journal cleanup failed", zap.Error(err))
		}
	}

	users, err := j.users.List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	sent := 0
	for _, user := range users {
		if j.journal != nil {
			done, err := j.journal.WasSent(user.ID, slot)
			if err != nil {
				j.logger.Warn("journal lookup failed", zap.String("user_id", user.ID), zap.Error(err))
			} else if done {
				continue
			}
		}

		incomplete := false
		tasks, err := j.tasks.List(ctx, repository.TaskFilter{OwnerID: user.ID, Completed: &incomplete})
		if err != nil {
			j.logger.Warn("task fetch failed", zap.String("user_id", user.ID), zap.Error(err))
			continue
		}
		if len(tasks) == 0 {
			continue
		}

		body, err := renderDigest(user.Username, tasks)
		if err != nil {
			j.logger.Warn("digest render failed", zap.String("user_id", user.ID), zap.Error(err))
			continue
		}

		if err := j.mail.Send(user.Email, j.subject, body); err != nil {
			j.logger.Warn("reminder dispatch failed",
				zap.String("user_id", user.ID), zap.String("email", user.Email), zap.Error(err))
			continue
		}
		sent++

		if j.journal != nil {
			if err := j.journal.MarkSent(user.ID, slot); err != nil {
				j.logger.Warn("journal write failed", zap.String("user_id", user.ID), zap.Error(err))
			}
		}
	}

	j.logger.Info("reminder sweep finished",
		zap.String("slot", slot),
		zap.Int("users", len(users)),
		zap.Int("sent", sent),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// cronSpec converts a "HH:MM" wall-clock time into a cron expression.
func cronSpec(at string) (string, error) {
	parts := strings.Split(at, ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid reminder time %q, want HH:MM", at)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid reminder hour in %q", at)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid reminder minute in %q", at)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}
