package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saaga0h/lumen-platform/internal/daylight"
	"github.com/saaga0h/lumen-platform/pkg/config"
	"github.com/saaga0h/lumen-platform/pkg/mqtt"
	"github.com/saaga0h/lumen-platform/pkg/redis"
)

// mockMQTT records published messages for inspection
type mockMQTT struct {
	published []publishedMsg
}

type publishedMsg struct {
	topic   string
	payload []byte
}

func (m *mockMQTT) Connect(ctx context.Context) error { return nil }
func (m *mockMQTT) Disconnect()                       {}
func (m *mockMQTT) Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error {
	return nil
}
func (m *mockMQTT) Publish(topic string, qos byte, retained bool, payload []byte) error {
	m.published = append(m.published, publishedMsg{topic: topic, payload: payload})
	return nil
}
func (m *mockMQTT) IsConnected() bool { return true }

// mockMessage implements mqtt.Message for handler tests
type mockMessage struct {
	topic   string
	payload []byte
}

func (m *mockMessage) Topic() string   { return m.topic }
func (m *mockMessage) Payload() []byte { return m.payload }
func (m *mockMessage) Ack()            {}

// mockRedis is a no-op store
type mockRedis struct{}

func (m *mockRedis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (m *mockRedis) Get(ctx context.Context, key string) (string, error) { return "", nil }
func (m *mockRedis) ZAdd(ctx context.Context, key string, score float64, member interface{}) error {
	return nil
}
func (m *mockRedis) ZRangeByScoreWithScores(ctx context.Context, key string, min, max float64) ([]redis.ZMember, error) {
	return nil, nil
}
func (m *mockRedis) ZRemRangeByScore(ctx context.Context, key string, min, max string) error {
	return nil
}
func (m *mockRedis) Expire(ctx context.Context, key string, ttl time.Duration) error { return nil }
func (m *mockRedis) Ping(ctx context.Context) error                                  { return nil }
func (m *mockRedis) Close() error                                                    { return nil }

func testAgent(t *testing.T, cfg *config.Config) (*Agent, *mockMQTT) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	mq := &mockMQTT{}
	agent, err := NewAgent(mq, &mockRedis{}, nil, cfg, logger)
	require.NoError(t, err)
	return agent, mq
}

func TestNewAgent_RejectsUnknownCurve(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Curve = "parabola"

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	_, err := NewAgent(&mockMQTT{}, &mockRedis{}, nil, cfg, logger)
	assert.Error(t, err)
}

func TestHandleWeatherMessage_TracksLocation(t *testing.T) {
	agent, _ := testAgent(t, config.NewConfig())

	payload, _ := json.Marshal(map[string]interface{}{
		"cloud_cover":   0.75,
		"precipitation": "snow",
		"timestamp":     time.Now().Format(time.RFC3339),
	})
	agent.handleWeatherMessage(&mockMessage{
		topic:   "automation/context/weather/livingroom",
		payload: payload,
	})

	w := agent.weather.Current("livingroom", time.Now())
	require.NotNil(t, w)
	assert.Equal(t, 0.75, w.CloudCover)
	assert.Equal(t, daylight.PrecipitationSnow, w.Precipitation)
}

func TestHandleWeatherMessage_IgnoresMalformed(t *testing.T) {
	agent, _ := testAgent(t, config.NewConfig())

	// Wrong topic depth
	agent.handleWeatherMessage(&mockMessage{
		topic:   "automation/context/weather",
		payload: []byte(`{"cloud_cover": 0.5}`),
	})
	// Unparseable payload
	agent.handleWeatherMessage(&mockMessage{
		topic:   "automation/context/weather/kitchen",
		payload: []byte("not json"),
	})

	assert.Empty(t, agent.weather.Locations())
}

func TestPublishTarget_MessageShape(t *testing.T) {
	agent, mq := testAgent(t, config.NewConfig())

	result := daylight.Result{CCT: 3400, Intensity: 620, LightOutput: 45000}
	require.NoError(t, agent.publishTarget("study", result, &daylight.Weather{CloudCover: 0.3}))
	require.Len(t, mq.published, 2)

	assert.Equal(t, "automation/command/light/study", mq.published[0].topic)
	var command map[string]interface{}
	require.NoError(t, json.Unmarshal(mq.published[0].payload, &command))
	assert.Equal(t, "set", command["action"])
	assert.Equal(t, float64(3400), command["color_temp"])
	assert.Equal(t, 62.0, command["brightness"])
	assert.NotEmpty(t, command["id"])

	assert.Equal(t, "automation/context/circadian/study", mq.published[1].topic)
	var contextMsg map[string]interface{}
	require.NoError(t, json.Unmarshal(mq.published[1].payload, &contextMsg))
	assert.Equal(t, "circadian", contextMsg["type"])
	assert.Equal(t, "study", contextMsg["location"])
	assert.Equal(t, float64(620), contextMsg["intensity"])
	assert.Equal(t, 0.3, contextMsg["cloud_cover"])
	assert.Equal(t, float64(45000), contextMsg["light_output"])
}

func TestPublishTarget_LuxCalibrationScaling(t *testing.T) {
	cfg := config.NewConfig()
	cfg.LuxCalibration = "2700:8000,5600:10000"
	agent, mq := testAgent(t, cfg)

	// At 2700K the fixture tops out at 8000 of 10000 lux, so the
	// brightness command is boosted by 10000/8000.
	result := daylight.Result{CCT: 2700, Intensity: 400}
	require.NoError(t, agent.publishTarget("study", result, nil))

	var command map[string]interface{}
	require.NoError(t, json.Unmarshal(mq.published[0].payload, &command))
	assert.InDelta(t, 50.0, command["brightness"], 1e-9)
}

func TestPublishTarget_ScalingCappedAtFull(t *testing.T) {
	cfg := config.NewConfig()
	cfg.LuxCalibration = "2700:1000,5600:10000"
	agent, mq := testAgent(t, cfg)

	// A 10x boost would exceed full output; brightness caps at 100%
	result := daylight.Result{CCT: 2700, Intensity: 400}
	require.NoError(t, agent.publishTarget("study", result, nil))

	var command map[string]interface{}
	require.NoError(t, json.Unmarshal(mq.published[0].payload, &command))
	assert.InDelta(t, 100.0, command["brightness"], 1e-9)
}
