package pipeline

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"outreach_backend/internal/campaign/domain"
)

// runOutreach executes the generated emails. Real deliveries are recorded
// in the engagement log; dry-run deliveries are reported as simulated and
// never touch the log or the sent counter.
func (e *Engine) runOutreach(ctx context.Context, state *domain.CampaignState) Node {
	var limiter *rate.Limiter
	if e.sendsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(e.sendsPerMinute)), 1)
	}

	report := &domain.OutreachReport{
		CampaignID:  state.CampaignID,
		SendRecords: make([]domain.SendRecord, 0, len(state.Content)),
	}
	var sent, failed int

	for _, email := range state.Content {
		if email.ToEmail == "" || email.Subject == "" || email.Body == "" {
			failed++
			continue
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				state.AddError("outreach", err)
				break
			}
		}

		now := time.Now().UTC()
		record := domain.SendRecord{
			ToEmail:   email.ToEmail,
			Subject:   email.Subject,
			Timestamp: now,
			Company:   email.Company,
			LeadName:  email.LeadName,
		}

		err := e.sender.Send(ctx, email.ToEmail, email.Subject, email.Body)
		switch {
		case err != nil:
			e.log.MailError("send", email.ToEmail, err)
			record.Status = domain.SendStatusFailed
			failed++
		case e.sender.DryRun():
			record.Status = domain.SendStatusSimulated
			failed++
		default:
			record.Status = domain.SendStatusSent
			sent++
			if err := e.recorder.RecordSend(ctx, state.CampaignID, email.ToEmail, email.Subject, email.Body, now); err != nil {
				e.log.StoreError("record send", err)
			}
		}
		report.SendRecords = append(report.SendRecords, record)
	}

	report.ExecutionSummary = domain.ExecutionSummary{
		Total:  len(state.Content),
		Sent:   sent,
		Failed: failed,
	}
	if len(state.Content) > 0 {
		report.ExecutionSummary.SuccessRate = float64(sent) / float64(len(state.Content)) * 100
	}
	report.ExecutedAt = time.Now().UTC()

	state.OutreachReport = report
	state.CurrentStep = domain.StepOutreachComplete

	if err := e.artifacts.SaveReport(state.CampaignID, report); err != nil {
		state.AddError("outreach", err)
		e.log.StageError(state.CampaignID, "outreach", err)
		state.OutreachReport = nil
	}

	return NodeTerminated
}
