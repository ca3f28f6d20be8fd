package memory

import (
	"time"

	"ai-docchat-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// RetrievalCache keeps recent similarity-search results in memory, keyed by
// the standalone question. Follow-up questions in one conversation often
// condense to the same standalone form, so a short TTL saves an embedding
// call and a vector scan.
type RetrievalCache struct {
	cache *cache.Cache
}

func NewRetrievalCache(ttl time.Duration) *RetrievalCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	c := cache.New(ttl, 10*time.Minute)
	return &RetrievalCache{
		cache: c,
	}
}

func (r *RetrievalCache) Save(question string, docs []entity.RetrievedDocument) {
	r.cache.Set(question, docs, cache.DefaultExpiration)
}

func (r *RetrievalCache) Get(question string) ([]entity.RetrievedDocument, bool) {
	if x, found := r.cache.Get(question); found {
		return x.([]entity.RetrievedDocument), true
	}
	return nil, false
}

func (r *RetrievalCache) Delete(question string) {
	r.cache.Delete(question)
}

func (r *RetrievalCache) Flush() {
	r.cache.Flush()
}
