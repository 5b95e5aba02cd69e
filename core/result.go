package core

// SimulationResult is one generation's seed, ledger, and derived analytics.
// Created empty at generation start, populated by the simulator, analytics
// computed once at generation end, then read-only.
type SimulationResult struct {
	Generation   int           `json:"generation"`
	Seed         CampaignSeed  `json:"seed"`
	Interactions []Interaction `json:"interactions"`

	// Derived analytics, filled by ComputeAnalytics.
	Reach           int     `json:"reach"`
	Likes           int     `json:"likes"`
	Comments        int     `json:"comments"`
	Shares          int     `json:"shares"`
	Mocks           int     `json:"mocks"`
	DiscourseVolume int     `json:"discourse_volume"`
	SentimentScore  float64 `json:"sentiment_score"`
	ViralityScore   float64 `json:"virality_score"`

	// FailedDecisions counts decisions that degraded to ignore, so no
	// recovered error disappears from the final report.
	FailedDecisions int `json:"failed_decisions"`
}

// ComputeAnalytics aggregates the ledger into reach, per-action counts, and
// sentiment/virality scores. Safe to call on a partial ledger.
func (r *SimulationResult) ComputeAnalytics() {
	r.Reach, r.Likes, r.Comments, r.Shares, r.Mocks = 0, 0, 0, 0, 0
	for _, ix := range r.Interactions {
		switch ix.Action {
		case ActionIgnore:
			continue
		case ActionLike:
			r.Likes++
		case ActionComment:
			r.Comments++
		case ActionShare, ActionQuoteShare:
			r.Shares++
		case ActionMock:
			r.Mocks++
		}
		r.Reach++
	}
	r.DiscourseVolume = r.Comments + r.Mocks

	if r.Reach == 0 {
		r.SentimentScore = 0
		r.ViralityScore = 0
		return
	}
	r.SentimentScore = clamp(float64(r.Likes+r.Shares-r.Mocks)/float64(r.Reach), -1, 1)
	r.ViralityScore = float64(r.Shares) / float64(r.Reach)
}

// MockRate returns mocks as a fraction of reach, 0 when nothing was reached.
func (r *SimulationResult) MockRate() float64 {
	if r.Reach == 0 {
		return 0
	}
	return float64(r.Mocks) / float64(r.Reach)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
