package reddit

import (
	"time"

	"reddigest/internal/model"
)

type listing struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	After    string  `json:"after"`
	Children []child `json:"children"`
}

type child struct {
	Kind string    `json:"kind"`
	Data childData `json:"data"`
}

type childData struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Title      string  `json:"title"`
	SelfText   string  `json:"selftext"`
	Body       string  `json:"body"`
	Author     string  `json:"author"`
	CreatedUTC float64 `json:"created_utc"`
	Permalink  string  `json:"permalink"`
	ParentID   string  `json:"parent_id"`
	Score      int     `json:"score"`
}

const (
	kindComment = "t1"
	kindPost    = "t3"
)

func (d childData) toItem(kind string) model.ContentItem {
	id := d.Name
	if id == "" {
		id = d.ID
	}

	item := model.ContentItem{
		ID:        id,
		Author:    d.Author,
		CreatedAt: time.Unix(int64(d.CreatedUTC), 0).UTC(),
		Permalink: publicBaseURL + d.Permalink,
		Score:     d.Score,
	}

	switch kind {
	case kindComment:
		item.Kind = model.KindComment
		item.Body = d.Body
		item.ParentID = d.ParentID
	default:
		item.Kind = model.KindPost
		item.Title = d.Title
		item.Body = d.SelfText
	}

	return item
}
