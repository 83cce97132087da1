package db

import (
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Storing cache keys in concurrent data structures so that all cached reads
// for one user can be dropped whenever that user's ledger changes.
var (
	Cache              *ristretto.Cache
	DashboardCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
	ReportCacheKeys = struct {
		sync.RWMutex
		m map[string]struct{}
	}{m: make(map[string]struct{})}
)

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

// UserCacheKey builds a key scoped to one user so invalidation can match on
// the prefix.
func UserCacheKey(userID int64, parts ...string) string {
	return userKeyPrefix(userID) + strings.Join(parts, ":")
}

func userKeyPrefix(userID int64) string {
	return "u" + strconv.FormatInt(userID, 10) + ":"
}

// Dashboard cache functions
func SetDashboardCache(cacheKey string, value interface{}) {
	DashboardCacheKeys.Lock()
	DashboardCacheKeys.m[cacheKey] = struct{}{}
	DashboardCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearUserDashboardCaches(userID int64) {
	prefix := userKeyPrefix(userID)
	DashboardCacheKeys.Lock()
	for key := range DashboardCacheKeys.m {
		if strings.HasPrefix(key, prefix) {
			Cache.Del(key)
			delete(DashboardCacheKeys.m, key)
		}
	}
	DashboardCacheKeys.Unlock()
}

// Report cache functions
func SetReportCache(cacheKey string, value interface{}) {
	ReportCacheKeys.Lock()
	ReportCacheKeys.m[cacheKey] = struct{}{}
	ReportCacheKeys.Unlock()
	Cache.Set(cacheKey, value, 1)
}

func ClearUserReportCaches(userID int64) {
	prefix := userKeyPrefix(userID)
	ReportCacheKeys.Lock()
	for key := range ReportCacheKeys.m {
		if strings.HasPrefix(key, prefix) {
			Cache.Del(key)
			delete(ReportCacheKeys.m, key)
		}
	}
	ReportCacheKeys.Unlock()
}

// ClearUserCaches drops every cached read for a user. Called after any write
// that changes balances, budgets, or transaction history.
func ClearUserCaches(userID int64) {
	ClearUserDashboardCaches(userID)
	ClearUserReportCaches(userID)
}
