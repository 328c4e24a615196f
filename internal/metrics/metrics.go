package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campmap_requests_total",
		Help: "Total number of /api requests",
	})
	LocateRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campmap_locate_requests_total",
		Help: "Total number of /api/locate requests",
	})
	LocateDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "campmap_locate_duration_ms",
		Help:    "Locate request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	LocateHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campmap_locate_hits_total",
		Help: "Total locate queries landing inside a camp boundary",
	})
	LocateMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campmap_locate_misses_total",
		Help: "Total locate queries landing outside all boundaries",
	})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campmap_redis_hits_total",
		Help: "Total redis cache hits",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campmap_redis_misses_total",
		Help: "Total redis cache misses",
	})
	CurateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "campmap_curate_total",
		Help: "Total image curation verdicts by result",
	}, []string{"verdict"})
	ScrapeFetchTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campmap_scrape_fetch_total",
		Help: "Total scraper HTTP fetches",
	})
	ScrapeFetchFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "campmap_scrape_fetch_fail_total",
		Help: "Total scraper HTTP fetch failures after retries",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(LocateRequestsTotal)
	prometheus.MustRegister(LocateDurationMs)
	prometheus.MustRegister(LocateHitsTotal)
	prometheus.MustRegister(LocateMissesTotal)
	prometheus.MustRegister(RedisHitsTotal)
	prometheus.MustRegister(RedisMissesTotal)
	prometheus.MustRegister(CurateTotal)
	prometheus.MustRegister(ScrapeFetchTotal)
	prometheus.MustRegister(ScrapeFetchFailTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 /metrics 路径，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
