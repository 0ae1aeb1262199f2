package constant

const (
	// NATS subjects published on domain writes.
	SubjectPropertyChanged = "PROPERTY.changed"
	SubjectMessageSent     = "MESSAGE.sent"
)
