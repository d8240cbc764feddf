// Package health probes the process dependencies.
package health

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	StatusUp   = "up"
	StatusDown = "down"

	DatabaseTimeout = 3 * time.Second
	ExternalTimeout = 5 * time.Second
)

// Probe checks one dependency. A failing critical probe makes the whole
// report unhealthy; a failing optional one only shows as down.
type Probe struct {
	Name     string
	Timeout  time.Duration
	Critical bool
	Check    func(ctx context.Context) error
}

type CheckResult struct {
	Status       string `json:"status"`
	ResponseTime string `json:"responseTime"`
	Error        string `json:"error,omitempty"`
}

type Report struct {
	Healthy bool                   `json:"healthy"`
	Uptime  string                 `json:"uptime"`
	Checks  map[string]CheckResult `json:"checks"`
}

type Checker struct {
	probes  []Probe
	started time.Time
}

func NewChecker(probes ...Probe) *Checker {
	return &Checker{probes: probes, started: time.Now()}
}

// Check runs every probe concurrently, each under its own timeout.
func (c *Checker) Check(ctx context.Context) Report {
	results := make([]CheckResult, len(c.probes))

	var wg sync.WaitGroup
	for i, p := range c.probes {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = run(ctx, p)
		}()
	}
	wg.Wait()

	report := Report{
		Healthy: true,
		Uptime:  time.Since(c.started).Round(time.Second).String(),
		Checks:  make(map[string]CheckResult, len(c.probes)),
	}
	for i, p := range c.probes {
		report.Checks[p.Name] = results[i]
		if p.Critical && results[i].Status != StatusUp {
			report.Healthy = false
		}
	}
	return report
}

func run(ctx context.Context, p Probe) CheckResult {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DatabaseTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := p.Check(ctx)
	res := CheckResult{Status: StatusUp, ResponseTime: time.Since(start).Round(time.Millisecond).String()}
	if err != nil {
		res.Status = StatusDown
		res.Error = err.Error()
	}
	return res
}

func Postgres(db *sqlx.DB) Probe {
	return Probe{Name: "postgres", Timeout: DatabaseTimeout, Critical: true, Check: db.PingContext}
}

func Mongo(client *mongo.Client) Probe {
	return Probe{
		Name:     "mongodb",
		Timeout:  DatabaseTimeout,
		Critical: true,
		Check: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}
}

func Redis(client *redis.Client) Probe {
	return Probe{
		Name:     "redis",
		Timeout:  DatabaseTimeout,
		Critical: true,
		Check: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
	}
}

// Ticketmaster is optional: the API being down only delays ingestion.
func Ticketmaster(ping func(ctx context.Context) error) Probe {
	return Probe{Name: "ticketmaster", Timeout: ExternalTimeout, Check: ping}
}

func RabbitMQ(ping func(ctx context.Context) error) Probe {
	return Probe{Name: "rabbitmq", Timeout: DatabaseTimeout, Check: ping}
}
