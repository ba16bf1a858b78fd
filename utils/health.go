package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Probe is one named dependency check.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthStatus is the latest snapshot of dependency health, keyed by probe
// name.
type HealthStatus struct {
	Services  map[string]bool `json:"services"`
	CheckedAt time.Time       `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	healthMu      sync.RWMutex
)

// GetHealthStatus returns the latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	healthMu.RLock()
	defer healthMu.RUnlock()
	return currentHealth
}

// MongoProbe checks a MongoDB connection.
func MongoProbe(name string, client *mongo.Client) Probe {
	return Probe{Name: name, Check: func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}}
}

// RedisProbe checks a Redis connection.
func RedisProbe(name string, client *redis.Client) Probe {
	return Probe{Name: name, Check: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

// GormProbe checks the SQL connection behind a gorm handle.
func GormProbe(name string, db *gorm.DB) Probe {
	return Probe{Name: name, Check: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

// runProbes executes every probe with a bounded timeout.
func runProbes(probes []Probe) HealthStatus {
	services := make(map[string]bool, len(probes))
	for _, p := range probes {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		services[p.Name] = p.Check(ctx) == nil
		cancel()
	}
	return HealthStatus{Services: services, CheckedAt: time.Now()}
}

// StartHealthMonitor checks the given probes periodically and keeps an
// in-memory snapshot for the health endpoint. Callers must include a probe
// for the active listing backend so a deployment never reports healthy while
// its store is down.
func StartHealthMonitor(probes ...Probe) {
	update := func() {
		status := runProbes(probes)
		healthMu.Lock()
		currentHealth = status
		healthMu.Unlock()
	}

	go func() {
		update()
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			update()
		}
	}()
}
