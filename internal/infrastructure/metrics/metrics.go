package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry アプリ専用のレジストリ（/metrics で公開）
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		AnalysisDuration, AnalysisTotal,
		RateLimitedTotal, ClientReady,
	)
}

// AnalysisDuration レポート生成にかかった時間（秒）
var AnalysisDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "gwansang_analysis_duration_seconds",
		Help:    "Time spent generating one physiognomy report.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
	},
	[]string{"outcome"},
)

// AnalysisTotal 結果種別ごとの分析回数
var AnalysisTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gwansang_analysis_total",
		Help: "Number of analyses by outcome.",
	},
	[]string{"outcome"}, // success | client_unavailable | provider_error | processing_error
)

// RateLimitedTotal レート制限で拒否した分析リクエスト数
var RateLimitedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "gwansang_rate_limited_total",
		Help: "Number of analysis requests rejected by the rate limiter.",
	},
)

// ClientReady 1ならGenAIクライアントが利用可能
var ClientReady = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "gwansang_client_ready",
		Help: "1 when the generative AI client is configured and ready.",
	},
)

func ObserveAnalysis(outcome string, seconds float64) {
	AnalysisDuration.WithLabelValues(outcome).Observe(seconds)
	AnalysisTotal.WithLabelValues(outcome).Inc()
}

func SetClientReady(ready bool) {
	if ready {
		ClientReady.Set(1)
		return
	}
	ClientReady.Set(0)
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
