package store

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"
)

const timestampLayout = "20060102_150405"

// RunKey identifies one summarizer run. Every artifact of the run
// shares the subreddit, window size and timestamp, so sibling keys can
// be derived from any one of them.
type RunKey struct {
	Subreddit string
	Hours     int
	Timestamp time.Time
}

func NewRunKey(subreddit string, hours int, ts time.Time) RunKey {
	return RunKey{Subreddit: subreddit, Hours: hours, Timestamp: ts}
}

func (k RunKey) stem() string {
	return fmt.Sprintf("%s_%dh_%s", k.Subreddit, k.Hours, k.Timestamp.Format(timestampLayout))
}

// Summary is the key of the rendered summary text artifact.
func (k RunKey) Summary() string {
	return fmt.Sprintf("%s/summary_%s.txt", k.Subreddit, k.stem())
}

// RawData is the key of the fetched content snapshot artifact.
func (k RunKey) RawData() string {
	return fmt.Sprintf("%s/raw_data_%s.json", k.Subreddit, k.stem())
}

// Params is the key of the run parameters artifact.
func (k RunKey) Params() string {
	return fmt.Sprintf("%s/params_%s.json", k.Subreddit, k.stem())
}

// Followup is the key of a follow-up question transcript.
func (k RunKey) Followup() string {
	return fmt.Sprintf("%s/followup_%s.txt", k.Subreddit, k.stem())
}

// SummaryPrefix lists all summary artifacts of a subreddit.
func SummaryPrefix(subreddit string) string {
	return subreddit + "/summary_"
}

// ParseSummaryKey recovers the run identity from a summary artifact
// key. Subreddit names may contain underscores, so the key is parsed
// from the right.
func ParseSummaryKey(key string) (RunKey, error) {
	base := path.Base(key)
	if !strings.HasPrefix(base, "summary_") || !strings.HasSuffix(base, ".txt") {
		return RunKey{}, fmt.Errorf("not a summary key: %s", key)
	}

	core := strings.TrimSuffix(strings.TrimPrefix(base, "summary_"), ".txt")
	parts := strings.Split(core, "_")
	if len(parts) < 4 {
		return RunKey{}, fmt.Errorf("malformed summary key: %s", key)
	}

	ts, err := time.Parse(timestampLayout, parts[len(parts)-2]+"_"+parts[len(parts)-1])
	if err != nil {
		return RunKey{}, fmt.Errorf("malformed timestamp in key %s: %w", key, err)
	}

	hoursPart := parts[len(parts)-3]
	if !strings.HasSuffix(hoursPart, "h") {
		return RunKey{}, fmt.Errorf("malformed window in key %s", key)
	}
	hours, err := strconv.Atoi(strings.TrimSuffix(hoursPart, "h"))
	if err != nil {
		return RunKey{}, fmt.Errorf("malformed window in key %s: %w", key, err)
	}

	return RunKey{
		Subreddit: strings.Join(parts[:len(parts)-3], "_"),
		Hours:     hours,
		Timestamp: ts,
	}, nil
}
