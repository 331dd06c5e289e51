package engagement

import (
	"context"
	"strings"
	"time"
)

// CampaignStats are derived per-campaign engagement metrics. Counts for
// opens, clicks and replies are unique per lead email; rates are percentages
// of total sends and defined as 0 when nothing was sent.
type CampaignStats struct {
	CampaignID         string   `json:"campaign_id"`
	TotalSends         int      `json:"total_sends"`
	TotalOpens         int      `json:"total_opens"`
	TotalClicks        int      `json:"total_clicks"`
	TotalReplies       int      `json:"total_replies"`
	OpenRate           float64  `json:"open_rate"`
	ClickRate          float64  `json:"click_rate"`
	ReplyRate          float64  `json:"reply_rate"`
	AvgReplyPositivity *float64 `json:"avg_reply_positivity"`
}

// ReplyMetadata is the per-reply view exposed to campaign analysis.
type ReplyMetadata struct {
	LeadEmail       string    `json:"lead_email"`
	ReplyTime       time.Time `json:"reply_time"`
	PositivityScore *float64  `json:"positivity_score"`
	ReplyExcerpt    string    `json:"reply_excerpt"`
}

const replyExcerptLimit = 200

// CampaignStats computes engagement metrics for one campaign, scoped to this
// tracker's sender identity. A reply sync runs first so fresh inbound replies
// are reflected; sync failures are logged and do not block computation.
func (t *Tracker) CampaignStats(ctx context.Context, campaignID string) (CampaignStats, error) {
	if _, err := t.SyncReplies(ctx); err != nil {
		t.log.Warn("reply sync failed, computing stats from stored events", "error", err.Error())
	}

	events, err := t.store.Events()
	if err != nil {
		return CampaignStats{}, err
	}

	stats := CampaignStats{CampaignID: campaignID}
	opens := map[string]bool{}
	clicks := map[string]bool{}
	replies := map[string]bool{}
	var scoreSum float64
	var scored int

	for _, e := range events {
		if e.CampaignID != campaignID || e.Sender != t.sender {
			continue
		}
		key := strings.ToLower(e.Email)
		switch e.Type {
		case EventSend:
			stats.TotalSends++
		case EventOpen:
			opens[key] = true
		case EventClick:
			clicks[key] = true
		case EventReply:
			replies[key] = true
			if e.PositivityScore != nil {
				scoreSum += *e.PositivityScore
				scored++
			}
		}
	}

	stats.TotalOpens = len(opens)
	stats.TotalClicks = len(clicks)
	stats.TotalReplies = len(replies)

	if stats.TotalSends > 0 {
		stats.OpenRate = float64(stats.TotalOpens) / float64(stats.TotalSends) * 100
		stats.ClickRate = float64(stats.TotalClicks) / float64(stats.TotalSends) * 100
		stats.ReplyRate = float64(stats.TotalReplies) / float64(stats.TotalSends) * 100
	}
	if scored > 0 {
		avg := scoreSum / float64(scored)
		stats.AvgReplyPositivity = &avg
	}

	return stats, nil
}

// ReplyMetadata returns per-reply details for a campaign, with the reply
// body truncated to a 200-character excerpt.
func (t *Tracker) ReplyMetadata(ctx context.Context, campaignID string) ([]ReplyMetadata, error) {
	events, err := t.store.Events()
	if err != nil {
		return nil, err
	}

	var out []ReplyMetadata
	for _, e := range events {
		if e.CampaignID != campaignID || e.Type != EventReply {
			continue
		}
		out = append(out, ReplyMetadata{
			LeadEmail:       e.Email,
			ReplyTime:       e.Timestamp,
			PositivityScore: e.PositivityScore,
			ReplyExcerpt:    truncateRunes(e.ReplyText, replyExcerptLimit),
		})
	}
	return out, nil
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
