package archive

import (
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/microblog/internal/server/models"
)

// PostRecord is the archived form of one post.
type PostRecord struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Language  *string   `json:"language,omitempty"`
	UserID    int64     `json:"user_id"`
}

// Document is the single JSON object written per export.
type Document struct {
	Table      models.Table `json:"table"`
	ExportedAt time.Time    `json:"exported_at"`
	Posts      []PostRecord `json:"posts"`
}

func NewDocument(table models.Table) *Document {
	return &Document{Table: table, ExportedAt: now().UTC(), Posts: []PostRecord{}}
}

func (d *Document) AddPost(p models.Post) {
	d.Posts = append(d.Posts, PostRecord{
		ID:        p.ID,
		Body:      p.Body,
		Timestamp: p.Timestamp,
		Language:  p.Language,
		UserID:    p.UserID,
	})
}

func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}
