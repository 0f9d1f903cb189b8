package socketmode

// Metrics 监控接口
type Metrics interface {
	// 连接指标
	IncrementConnectAttempts()
	IncrementConnectFailures()
	IncrementReconnects()
	IncrementStaleDetections()

	// 帧指标
	IncrementFrames(kind string)
	IncrementAcks()
	IncrementDroppedFrames()

	// 错误指标
	IncrementDecodeErrors()
	IncrementConsumerErrors()
}

// NoopMetrics 空实现（默认）
type NoopMetrics struct{}

func (m *NoopMetrics) IncrementConnectAttempts()   {}
func (m *NoopMetrics) IncrementConnectFailures()   {}
func (m *NoopMetrics) IncrementReconnects()        {}
func (m *NoopMetrics) IncrementStaleDetections()   {}
func (m *NoopMetrics) IncrementFrames(kind string) {}
func (m *NoopMetrics) IncrementAcks()              {}
func (m *NoopMetrics) IncrementDroppedFrames()     {}
func (m *NoopMetrics) IncrementDecodeErrors()      {}
func (m *NoopMetrics) IncrementConsumerErrors()    {}
