package security

// Severity represents the severity level of a security event
// This is derived from EventType, NOT user-provided
type Severity string

const (
	SeverityINFO   Severity = "INFO"
	SeverityMEDIUM Severity = "MEDIUM"
	SeverityWARN   Severity = "WARN"
	SeverityHIGH   Severity = "HIGH"
)

// EventSeverityMap defines the hard-coded severity for each event type
var EventSeverityMap = map[EventType]Severity{
	EventValidationFailed:   SeverityINFO,
	EventRateLimitTriggered: SeverityMEDIUM,
	EventSpamDetected:       SeverityWARN,
	EventDeliveryFailed:     SeverityHIGH,
}

// GetSeverity returns the severity for an event type, MEDIUM when unknown
func GetSeverity(eventType EventType) Severity {
	if s, ok := EventSeverityMap[eventType]; ok {
		return s
	}
	return SeverityMEDIUM
}
