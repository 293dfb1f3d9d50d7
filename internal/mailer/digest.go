package mailer

import (
	"context"
	"time"

	"github.com/bazarbekovic131/wahr-chatbot/internal/db"
	"github.com/bazarbekovic131/wahr-chatbot/pkg/logger"

	"go.uber.org/zap"
)

// DigestJob periodically forwards completed, unsent survey responses with
// their résumés to the HR mailbox. It runs on its own timer, unsynchronized
// with webhook handling.
type DigestJob struct {
	surveys   db.SurveyRepository
	resumes   db.ResumeRepository
	sender    EmailSender
	hrAddress string
	interval  time.Duration
}

// NewDigestJob creates a new digest job
func NewDigestJob(
	surveys db.SurveyRepository,
	resumes db.ResumeRepository,
	sender EmailSender,
	hrAddress string,
	interval time.Duration,
) *DigestJob {
	return &DigestJob{
		surveys:   surveys,
		resumes:   resumes,
		sender:    sender,
		hrAddress: hrAddress,
		interval:  interval,
	}
}

// Run loops until the context is canceled, scanning once per interval
func (j *DigestJob) Run(ctx context.Context) {
	logger.Info("Resume digest job started",
		zap.Duration("interval", j.interval),
		zap.String("hr_address", j.hrAddress),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Resume digest job stopped")
			return
		case <-ticker.C:
			j.RunOnce()
		}
	}
}

// RunOnce scans for unsent responses and emails each résumé. A response is
// marked sent only after successful delivery; failures stay queued for the
// next scan.
func (j *DigestJob) RunOnce() {
	responses, err := j.surveys.ListUnsent()
	if err != nil {
		logger.Error("Failed to list unsent survey responses", zap.Error(err))
		return
	}
	if len(responses) == 0 {
		return
	}

	logger.Info("Forwarding resumes to HR", zap.Int("count", len(responses)))

	for _, response := range responses {
		resume, err := j.resumes.GetByID(response.ResumeID)
		if err != nil {
			logger.Error("Failed to load resume",
				zap.String("phone", response.Phone),
				zap.String("resume_id", response.ResumeID),
				zap.Error(err),
			)
			continue
		}
		if resume == nil {
			logger.Warn("Survey response references missing resume",
				zap.String("phone", response.Phone),
				zap.String("resume_id", response.ResumeID),
			)
			continue
		}

		if err := j.sender.SendResume(j.hrAddress, response, resume); err != nil {
			logger.Error("Failed to email resume",
				zap.String("phone", response.Phone),
				zap.Error(err),
			)
			continue
		}

		if err := j.surveys.MarkSent(response.Phone); err != nil {
			logger.Error("Failed to mark survey response sent",
				zap.String("phone", response.Phone),
				zap.Error(err),
			)
			continue
		}

		logger.Info("Resume forwarded",
			zap.String("phone", response.Phone),
			zap.String("filename", resume.Filename),
		)
	}
}
