package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keys for request traffic counters, written by the HealthMarker
// middleware and read here.
const (
	KeyReqTotal  = "vibejobs:health:req_total"
	KeyReqErrors = "vibejobs:health:req_errors"
	KeyResTime   = "vibejobs:health:res_time_total"
	KeyResCount  = "vibejobs:health:res_count"
	KeyStartTime = "vibejobs:health:start_time"
	KeyLastReq   = "vibejobs:health:last_request"
	KeyErrorLog  = "vibejobs:health:error_log"

	// ErrorLogSize is how many error entries are kept.
	ErrorLogSize = 50
)

// TrafficKeys are cleared by a reset.
var TrafficKeys = []string{KeyReqTotal, KeyReqErrors, KeyResTime, KeyResCount, KeyStartTime, KeyLastReq, KeyErrorLog}

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// Pinger is the database dependency. listings.Store satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Environment is what the health report says about configuration.
type Environment struct {
	HasDatabaseURL bool   `json:"hasDatabaseUrl"`
	Env            string `json:"env"`
}

// Result is the health report served at /api/health.
type Result struct {
	Status      string      `json:"status"`
	Timestamp   time.Time   `json:"timestamp"`
	Database    DBStatus    `json:"database"`
	Redis       RedisStatus `json:"redis"`
	Environment Environment `json:"environment"`
	Traffic     TrafficInfo `json:"traffic"`
	Runtime     RuntimeInfo `json:"runtime"`
}

type DBStatus struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
	PingMs    *int64 `json:"pingMs"`
}

type RedisStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	PingMs     *int64 `json:"pingMs"`
}

type RuntimeInfo struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	HeapUsedMB    int    `json:"heapUsedMb"`
	Goroutines    int    `json:"goroutines"`
	Platform      string `json:"platform"`
	GoVersion     string `json:"goVersion"`
}

type TrafficInfo struct {
	TotalRequests   int            `json:"totalRequests"`
	SuccessCount    int            `json:"successCount"`
	FailedCount     int            `json:"failedCount"`
	SuccessRate     string         `json:"successRate"`
	AvgResponseTime string         `json:"avgResponseTime"`
	LastRequest     map[string]any `json:"lastRequest"`
}

// CollectHealth reports database connectivity, Redis traffic stats and
// runtime info. Healthy needs a configured and reachable database; Redis is
// optional and only feeds the traffic section.
func CollectHealth(ctx context.Context, rdb *redis.Client, db Pinger, env Environment) Result {
	now := time.Now()
	result := Result{
		Timestamp:   now.UTC(),
		Environment: env,
		Traffic:     TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"},
	}

	if db != nil {
		start := time.Now()
		if err := db.Ping(ctx); err == nil {
			ms := time.Since(start).Milliseconds()
			result.Database = DBStatus{Connected: true, PingMs: &ms}
		} else {
			result.Database = DBStatus{Error: err.Error()}
		}
	} else {
		result.Database = DBStatus{Error: "database not configured"}
	}

	startTimeMs := now.UnixMilli()
	if rdb != nil {
		result.Redis.Configured = true
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			result.Redis.Connected = true
			result.Redis.PingMs = &ms
			result.Traffic, startTimeMs = readTraffic(ctx, rdb, startTimeMs)
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (now.UnixMilli() - startTimeMs) / 1000
	if uptime < 0 {
		uptime = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		HeapUsedMB:    int(m.HeapInuse / 1024 / 1024),
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	result.Status = StatusUnhealthy
	if env.HasDatabaseURL && result.Database.Connected {
		result.Status = StatusHealthy
	}
	return result
}

func readTraffic(ctx context.Context, rdb *redis.Client, nowMs int64) (TrafficInfo, int64) {
	stats := TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"}
	vals, err := rdb.MGet(ctx, KeyReqTotal, KeyReqErrors, KeyResTime, KeyResCount, KeyStartTime, KeyLastReq).Result()
	if err != nil {
		return stats, nowMs
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	startTimeMs := nowMs
	if t, err := strconv.ParseInt(str(4), 10, 64); err == nil {
		startTimeMs = t
	} else {
		rdb.Set(ctx, KeyStartTime, nowMs, 0)
	}

	stats.TotalRequests, _ = strconv.Atoi(str(0))
	stats.FailedCount, _ = strconv.Atoi(str(1))
	stats.SuccessCount = stats.TotalRequests - stats.FailedCount
	if stats.TotalRequests > 0 {
		stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	count, _ := strconv.Atoi(str(3))
	if count > 0 {
		stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(count), 'f', 2, 64)
	}
	if last := str(5); last != "" {
		var lastReq map[string]any
		if json.Unmarshal([]byte(last), &lastReq) == nil {
			stats.LastRequest = lastReq
		}
	}
	return stats, startTimeMs
}

// ResetTraffic clears the traffic counters and restarts the uptime clock.
func ResetTraffic(ctx context.Context, rdb *redis.Client, now time.Time) error {
	if err := rdb.Del(ctx, TrafficKeys...).Err(); err != nil {
		return err
	}
	return rdb.Set(ctx, KeyStartTime, strconv.FormatInt(now.UnixMilli(), 10), 0).Err()
}

// ErrorEntry is one recorded server error.
type ErrorEntry struct {
	Time    time.Time `json:"time"`
	Method  string    `json:"method"`
	Path    string    `json:"path"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
	TraceID string    `json:"traceId,omitempty"`
}

// RecordError pushes e onto the capped error log.
func RecordError(ctx context.Context, rdb *redis.Client, e ErrorEntry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, KeyErrorLog, b)
	pipe.LTrim(ctx, KeyErrorLog, 0, ErrorLogSize-1)
	_, err = pipe.Exec(ctx)
	return err
}

// RecentErrors returns the error log, newest first. Undecodable entries are skipped.
func RecentErrors(ctx context.Context, rdb *redis.Client) ([]ErrorEntry, error) {
	raw, err := rdb.LRange(ctx, KeyErrorLog, 0, ErrorLogSize-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]ErrorEntry, 0, len(raw))
	for _, s := range raw {
		var e ErrorEntry
		if json.Unmarshal([]byte(s), &e) == nil {
			out = append(out, e)
		}
	}
	return out, nil
}
