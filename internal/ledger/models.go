package ledger

import "time"

// Path records which pipeline branch handled a selection.
type Path string

const (
	PathPassthrough Path = "passthrough"
	PathChain       Path = "chain"
	PathSkipReview  Path = "skip_review"
	PathReview      Path = "review"
	PathClosed      Path = "closed"
)

// Selection is one finished pipeline invocation.
type Selection struct {
	InvocationID     string
	Mode             string
	InputCount       int
	OutputCount      int
	PassthroughCount int
	Path             Path
	Cancelled        bool
	ErrorMessage     string
	StartedAt        time.Time
	FinishedAt       time.Time
}

// Duration reports how long the invocation ran.
func (s Selection) Duration() time.Duration {
	if s.StartedAt.IsZero() || s.FinishedAt.Before(s.StartedAt) {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Outcome is the short status word shown in history listings.
func (s Selection) Outcome() string {
	switch {
	case s.Cancelled && s.ErrorMessage != "":
		return "failed"
	case s.Cancelled:
		return "cancelled"
	default:
		return "delivered"
	}
}

// AlbumAsset is a photo written to an album directory.
type AlbumAsset struct {
	ID           string
	InvocationID string
	Album        string
	Path         string
	Width        int
	Height       int
	FromCamera   bool
	CreatedAt    time.Time
}
