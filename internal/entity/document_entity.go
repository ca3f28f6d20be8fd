package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id        uuid.UUID
	Title     string
	Content   string
	SourceURL string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type DocumentEmbedding struct {
	Id         uuid.UUID
	Chunk      string
	Embedding  []float32
	DocumentId uuid.UUID
	ChunkIndex int
	CreatedAt  time.Time
}
