package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-docchat-be/internal/entity"
)

func TestRetrievalCacheSaveAndGet(t *testing.T) {
	c := NewRetrievalCache(time.Minute)
	docs := []entity.RetrievedDocument{
		{Content: "chunk", Metadata: map[string]string{entity.MetadataSourceURL: "https://example.com"}},
	}

	c.Save("what is a widget?", docs)

	got, found := c.Get("what is a widget?")
	require.True(t, found)
	assert.Equal(t, docs, got)

	_, found = c.Get("different question")
	assert.False(t, found)
}

func TestRetrievalCacheFlush(t *testing.T) {
	c := NewRetrievalCache(time.Minute)
	c.Save("q", []entity.RetrievedDocument{{Content: "chunk"}})

	c.Flush()

	_, found := c.Get("q")
	assert.False(t, found)
}

func TestRetrievalCacheDelete(t *testing.T) {
	c := NewRetrievalCache(time.Minute)
	c.Save("q1", []entity.RetrievedDocument{{Content: "a"}})
	c.Save("q2", []entity.RetrievedDocument{{Content: "b"}})

	c.Delete("q1")

	_, found := c.Get("q1")
	assert.False(t, found)
	_, found = c.Get("q2")
	assert.True(t, found)
}
