package notifications

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	presenceOnlineSetKey = "ws:online_users"
	presenceLastSeenNS   = "ws:last_seen:"
	presenceTTL          = 90 * time.Second
	presenceReapEvery    = 60 * time.Second
)

// Presence mirrors connected users into Redis so any server instance can
// answer "is this user online". Without Redis it falls back to local counts.
type Presence struct {
	rdb *redis.Client

	mu     sync.RWMutex
	counts map[uint]int

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewPresence returns a presence tracker, starting a stale-entry reaper when
// Redis is available.
func NewPresence(rdb *redis.Client) *Presence {
	p := &Presence{
		rdb:    rdb,
		counts: make(map[uint]int),
		stopCh: make(chan struct{}),
	}
	if rdb != nil {
		go p.reaperLoop()
	}
	return p
}

func (p *Presence) Register(ctx context.Context, userID uint) {
	p.mu.Lock()
	p.counts[userID]++
	p.mu.Unlock()

	if p.rdb != nil {
		member := strconv.FormatUint(uint64(userID), 10)
		p.rdb.SAdd(ctx, presenceOnlineSetKey, member)
		p.rdb.Set(ctx, presenceLastSeenNS+member, time.Now().Unix(), presenceTTL)
	}
}

func (p *Presence) Unregister(ctx context.Context, userID uint) {
	p.mu.Lock()
	if p.counts[userID] > 0 {
		p.counts[userID]--
	}
	gone := p.counts[userID] == 0
	if gone {
		delete(p.counts, userID)
	}
	p.mu.Unlock()

	if gone && p.rdb != nil {
		member := strconv.FormatUint(uint64(userID), 10)
		p.rdb.SRem(ctx, presenceOnlineSetKey, member)
		p.rdb.Del(ctx, presenceLastSeenNS+member)
	}
}

// Touch refreshes the last-seen TTL for an active connection.
func (p *Presence) Touch(ctx context.Context, userID uint) {
	if p.rdb == nil {
		return
	}
	member := strconv.FormatUint(uint64(userID), 10)
	p.rdb.Set(ctx, presenceLastSeenNS+member, time.Now().Unix(), presenceTTL)
}

func (p *Presence) IsOnline(ctx context.Context, userID uint) bool {
	if p.rdb != nil {
		member := strconv.FormatUint(uint64(userID), 10)
		if ok, err := p.rdb.SIsMember(ctx, presenceOnlineSetKey, member).Result(); err == nil {
			return ok
		}
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.counts[userID] > 0
}

func (p *Presence) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
}

// reaperLoop removes users whose last-seen key expired (e.g. the instance
// holding their connection died before cleaning up).
func (p *Presence) reaperLoop() {
	ticker := time.NewTicker(presenceReapEvery)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			members, err := p.rdb.SMembers(ctx, presenceOnlineSetKey).Result()
			if err == nil {
				for _, member := range members {
					exists, err := p.rdb.Exists(ctx, presenceLastSeenNS+member).Result()
					if err == nil && exists == 0 {
						p.rdb.SRem(ctx, presenceOnlineSetKey, member)
					}
				}
			}
			cancel()
		}
	}
}
