package logger

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventDetectionStarted   EventType = "detection_started"
	EventDetectionCompleted EventType = "detection_completed"
	EventBusinessScanned    EventType = "business_scanned"
	EventBusinessSkipped    EventType = "business_skipped"
	EventEnrichmentFailed   EventType = "enrichment_failed"
	EventAlertCreated       EventType = "alert_created"
	EventAlertSuppressed    EventType = "alert_suppressed"
	EventAlertUpdated       EventType = "alert_updated"
	EventVectorUpserted     EventType = "vector_upserted"
	EventVectorDeleted      EventType = "vector_deleted"
	EventVectorSyncFailed   EventType = "vector_sync_failed"
	EventKafkaSent          EventType = "kafka_sent"
	EventKafkaReceived      EventType = "kafka_received"
	EventToolInvoked        EventType = "tool_invoked"
)

// Компоненты, от имени которых пишутся события
const (
	ComponentDetection = "detection"
	ComponentAlerts    = "alerts"
	ComponentLLM       = "llm"
	ComponentVector    = "vector"
	ComponentKafka     = "kafka"
	ComponentAPI       = "api"
)

type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Service   string                 `json:"service"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Component string                 `json:"component"`
}

// EventLogger хранит последние maxSize событий пайплайна в памяти
type EventLogger struct {
	mu      sync.RWMutex
	events  []Event
	maxSize int
}

var globalLogger = NewEventLogger(1000)

func NewEventLogger(maxSize int) *EventLogger {
	if maxSize <= 0 {
		maxSize = 1
	}
	return &EventLogger{
		events:  make([]Event, 0, maxSize),
		maxSize: maxSize,
	}
}

func LogEvent(eventType EventType, service string, component string, data map[string]interface{}) {
	globalLogger.LogEvent(eventType, service, component, data)
}

func (el *EventLogger) LogEvent(eventType EventType, service string, component string, data map[string]interface{}) {
	event := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Service:   service,
		Component: component,
		Timestamp: time.Now(),
		Data:      data,
	}

	el.mu.Lock()
	defer el.mu.Unlock()

	if len(el.events) == el.maxSize {
		copy(el.events, el.events[1:])
		el.events = el.events[:len(el.events)-1]
	}
	el.events = append(el.events, event)
}

func GetEvents(limit int) []Event {
	return globalLogger.GetEvents(limit)
}

// GetEvents возвращает последние limit событий, limit <= 0 означает все
func (el *EventLogger) GetEvents(limit int) []Event {
	el.mu.RLock()
	defer el.mu.RUnlock()

	if limit <= 0 || limit > len(el.events) {
		limit = len(el.events)
	}

	result := make([]Event, limit)
	copy(result, el.events[len(el.events)-limit:])
	return result
}

func GetEventsByType(eventType EventType, limit int) []Event {
	return globalLogger.GetEventsByType(eventType, limit)
}

// GetEventsByType возвращает последние события заданного типа в хронологическом порядке
func (el *EventLogger) GetEventsByType(eventType EventType, limit int) []Event {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []Event
	for i := len(el.events) - 1; i >= 0; i-- {
		if el.events[i].Type != eventType {
			continue
		}
		result = append(result, el.events[i])
		if limit > 0 && len(result) == limit {
			break
		}
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

func GetStats() map[string]interface{} {
	return globalLogger.GetStats()
}

func (el *EventLogger) GetStats() map[string]interface{} {
	el.mu.RLock()
	defer el.mu.RUnlock()

	componentStats := make(map[string]int)
	serviceStats := make(map[string]int)
	typeStats := make(map[string]int)

	for _, event := range el.events {
		componentStats[event.Component]++
		serviceStats[event.Service]++
		typeStats[string(event.Type)]++
	}

	return map[string]interface{}{
		"total_events": len(el.events),
		"components":   componentStats,
		"services":     serviceStats,
		"event_types":  typeStats,
	}
}

func (e Event) MarshalJSON() ([]byte, error) {
	type Alias Event
	return json.Marshal(&struct {
		Timestamp string `json:"timestamp"`
		*Alias
	}{
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Alias:     (*Alias)(&e),
	})
}
