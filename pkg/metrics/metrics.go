package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marksmania"

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP 请求总数",
	}, []string{"method", "route", "status"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	scoresWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scores_written_total",
		Help:      "成功写入的单次考试成绩数",
	}, []string{"exam_type"})

	scoresRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scores_rejected_total",
		Help:      "被拒绝的成绩写入次数",
	}, []string{"reason"})
)

// 成绩拒绝原因
const (
	RejectInvalidScore = "invalid_score"
	RejectDuplicate    = "duplicate"
)

// ObserveHTTP 记录一次 HTTP 请求
// route 使用路由模板（如 /api/students/:id），避免高基数
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ScoreWritten 记录写入成功的成绩
func ScoreWritten(examType string, n int) {
	scoresWritten.WithLabelValues(examType).Add(float64(n))
}

// ScoreRejected 记录被拒绝的成绩写入
func ScoreRejected(reason string) {
	scoresRejected.WithLabelValues(reason).Inc()
}
