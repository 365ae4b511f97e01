package repository

import (
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"reddigest/internal/model"
)

type DigestRepository struct {
	db *sql.DB
}

func NewDigestRepository(db *sql.DB) *DigestRepository {
	return &DigestRepository{db: db}
}

func (r *DigestRepository) SaveDigest(digest *model.DigestRecord) error {
	footnotes, err := json.Marshal(digest.Footnotes)
	if err != nil {
		return err
	}

	return r.db.QueryRow(`
		INSERT INTO digest(subreddit, hours, provider, model, topics, item_count, truncated, summary_text, footnotes)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, digest.Subreddit, digest.Hours, digest.Provider, digest.Model, pq.Array(digest.Topics),
		digest.ItemCount, digest.Truncated, digest.SummaryText, footnotes).Scan(&digest.ID)
}

// GetDigests returns digests newest first. An empty subreddit matches
// all of them.
func (r *DigestRepository) GetDigests(subreddit string, limit, offset int) ([]model.DigestRecord, error) {
	rows, err := r.db.Query(`
		SELECT id, subreddit, hours, provider, model, topics, item_count, truncated, summary_text, footnotes, created_at
		FROM digest
		WHERE $1 = '' OR subreddit = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, subreddit, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var digests []model.DigestRecord
	for rows.Next() {
		var d model.DigestRecord
		var footnotesJSON []byte
		err := rows.Scan(&d.ID, &d.Subreddit, &d.Hours, &d.Provider, &d.Model, pq.Array(&d.Topics),
			&d.ItemCount, &d.Truncated, &d.SummaryText, &footnotesJSON, &d.CreatedAt)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(footnotesJSON, &d.Footnotes); err != nil {
			return nil, err
		}
		digests = append(digests, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return digests, nil
}

func (r *DigestRepository) GetLatestDigest(subreddit string) (*model.DigestRecord, error) {
	var d model.DigestRecord
	var footnotesJSON []byte
	err := r.db.QueryRow(`
		SELECT id, subreddit, hours, provider, model, topics, item_count, truncated, summary_text, footnotes, created_at
		FROM digest
		WHERE $1 = '' OR subreddit = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, subreddit).Scan(&d.ID, &d.Subreddit, &d.Hours, &d.Provider, &d.Model, pq.Array(&d.Topics),
		&d.ItemCount, &d.Truncated, &d.SummaryText, &footnotesJSON, &d.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(footnotesJSON, &d.Footnotes); err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *DigestRepository) GetDigestByID(id int64) (*model.DigestRecord, error) {
	var d model.DigestRecord
	var footnotesJSON []byte
	err := r.db.QueryRow(`
		SELECT id, subreddit, hours, provider, model, topics, item_count, truncated, summary_text, footnotes, created_at
		FROM digest
		WHERE id = $1
	`, id).Scan(&d.ID, &d.Subreddit, &d.Hours, &d.Provider, &d.Model, pq.Array(&d.Topics),
		&d.ItemCount, &d.Truncated, &d.SummaryText, &footnotesJSON, &d.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(footnotesJSON, &d.Footnotes); err != nil {
		return nil, err
	}

	return &d, nil
}

func (r *DigestRepository) GetDigestTotal(subreddit string) (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM digest
		WHERE $1 = '' OR subreddit = $1
	`, subreddit).Scan(&total)
	return total, err
}

func (r *DigestRepository) GetSubreddits() ([]model.SubredditStat, error) {
	rows, err := r.db.Query(`
		SELECT subreddit, COUNT(*), MAX(created_at)
		FROM digest
		GROUP BY subreddit
		ORDER BY subreddit
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []model.SubredditStat
	for rows.Next() {
		var s model.SubredditStat
		if err := rows.Scan(&s.Name, &s.DigestCount, &s.LastDigest); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
