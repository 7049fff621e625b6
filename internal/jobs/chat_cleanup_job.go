package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ChatCleanupJobName identifies the idle chat session sweep
const ChatCleanupJobName = "chat_session_cleanup"

// StaleSessionCloser closes chat sessions without activity for maxIdle
type StaleSessionCloser interface {
	CloseStale(ctx context.Context, maxIdle time.Duration) (int64, error)
}

// ChatCleanupJob marks abandoned chat sessions as closed so they stop
// showing up as active in the CRM.
type ChatCleanupJob struct {
	sessions StaleSessionCloser
	maxIdle  time.Duration
	logger   *zap.Logger
}

func NewChatCleanupJob(sessions StaleSessionCloser, maxIdle time.Duration, logger *zap.Logger) *ChatCleanupJob {
	return &ChatCleanupJob{
		sessions: sessions,
		maxIdle:  maxIdle,
		logger:   logger,
	}
}

func (j *ChatCleanupJob) Name() string {
	return ChatCleanupJobName
}

func (j *ChatCleanupJob) Run(ctx context.Context) error {
	closed, err := j.sessions.CloseStale(ctx, j.maxIdle)
	if err != nil {
		return err
	}
	j.logger.Debug("chat session cleanup finished", zap.Int64("closed", closed))
	return nil
}
