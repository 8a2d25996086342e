package ingest

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/atikulmunna/agentlog/internal/model"
)

// HashLen is the number of hex characters kept from the digest.
const HashLen = 16

// IdentityHash fingerprints an entry by author and content.
func IdentityHash(agent, content string) string {
	sum := sha256.Sum256([]byte(agent + "\x00" + content))
	return hex.EncodeToString(sum[:])[:HashLen]
}

// recentCache is a most-recent-first list of accepted fingerprints capped
// at capacity. Callers synchronize access.
type recentCache struct {
	capacity int
	records  []model.RecentRecord
}

func newRecentCache(capacity int) *recentCache {
	return &recentCache{
		capacity: capacity,
		records:  make([]model.RecentRecord, 0, capacity+1),
	}
}

// find returns the record with the given hash.
func (c *recentCache) find(hash string) (model.RecentRecord, bool) {
	for _, r := range c.records {
		if r.Hash == hash {
			return r, true
		}
	}
	return model.RecentRecord{}, false
}

// push puts r at the front and evicts the oldest record past capacity.
func (c *recentCache) push(r model.RecentRecord) {
	c.records = append(c.records, model.RecentRecord{})
	copy(c.records[1:], c.records)
	c.records[0] = r
	if len(c.records) > c.capacity {
		c.records = c.records[:c.capacity]
	}
}

func (c *recentCache) snapshot() []model.RecentRecord {
	out := make([]model.RecentRecord, len(c.records))
	copy(out, c.records)
	return out
}
