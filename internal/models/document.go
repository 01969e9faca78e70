package models

import "time"

// Document is the metadata record for an uploaded file. The content itself
// lives in object storage under ObjectKey in the idea's bucket.
type Document struct {
	ID          string    `json:"id"`
	IdeaID      string    `json:"idea_id"`
	Name        string    `json:"name"`
	ObjectKey   string    `json:"object_key"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
