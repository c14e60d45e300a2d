package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 测试指标初始化
func TestInitMetrics(t *testing.T) {
	InitMetrics()

	assert.NotNil(t, HTTPRequestsTotal, "HTTPRequestsTotal未初始化")
	assert.NotNil(t, HTTPRequestDuration, "HTTPRequestDuration未初始化")
	assert.NotNil(t, OrdersCreatedTotal, "OrdersCreatedTotal未初始化")
	assert.NotNil(t, OrdersCancelledTotal, "OrdersCancelledTotal未初始化")
	assert.NotNil(t, LoginsTotal, "LoginsTotal未初始化")
	assert.NotNil(t, OtpRequestsTotal, "OtpRequestsTotal未初始化")
	assert.NotNil(t, MailsSentTotal, "MailsSentTotal未初始化")

	// 重复初始化不应panic（promauto重复注册会panic）
	InitMetrics()
}

// TestCounter 测试Counter指标
func TestCounter(t *testing.T) {
	InitMetrics()

	before := getCounterValue(t, OrdersCreatedTotal)

	IncCounter(OrdersCreatedTotal)
	IncCounter(OrdersCreatedTotal)
	IncCounter(OrdersCreatedTotal)

	after := getCounterValue(t, OrdersCreatedTotal)
	assert.Equal(t, before+3, after, "Counter应递增3")
}

// TestCounterVec 测试带标签的Counter指标
func TestCounterVec(t *testing.T) {
	InitMetrics()

	IncCounterVec(LoginsTotal, map[string]string{
		"method": "password",
		"result": "success",
	})
	IncCounterVec(LoginsTotal, map[string]string{
		"method": "password",
		"result": "success",
	})
	IncCounterVec(LoginsTotal, map[string]string{
		"method": "google",
		"result": "success",
	})

	passwordLogins := getCounterVecValue(t, LoginsTotal, map[string]string{
		"method": "password",
		"result": "success",
	})
	assert.GreaterOrEqual(t, passwordLogins, float64(2), "password登录计数至少为2")
}

// TestGaugeVec 测试熔断器状态Gauge
func TestGaugeVec(t *testing.T) {
	InitMetrics()

	SetGaugeVec(CircuitBreakerState, map[string]string{"name": "mail"}, 1)

	g, err := CircuitBreakerState.GetMetricWith(prometheus.Labels{"name": "mail"})
	require.NoError(t, err)

	var m dto.Metric
	require.NoError(t, g.(prometheus.Gauge).Write(&m))
	assert.Equal(t, float64(1), m.GetGauge().GetValue())
}

// TestNilSafety 测试未初始化时辅助函数不panic
func TestNilSafety(t *testing.T) {
	assert.NotPanics(t, func() {
		IncCounter(nil)
		IncCounterVec(nil, nil)
		ObserveHistogram(nil, 1.0)
		SetGaugeVec(nil, nil, 0)
	})
}

// getCounterValue 读取Counter当前值
func getCounterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, counter.Write(&m))
	return m.GetCounter().GetValue()
}

// getCounterVecValue 读取带标签Counter的当前值
func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	c, err := counterVec.GetMetricWith(prometheus.Labels(labels))
	require.NoError(t, err)
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}
