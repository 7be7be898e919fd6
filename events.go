package members

import (
	"context"
	"time"
)

// ProfileEventType enumerates the notification points around profile
// mutations.
type ProfileEventType string

const (
	// ProfilePreSave fires before an account edit is persisted.
	ProfilePreSave ProfileEventType = "members.profile.pre_save"
	// ProfilePostSave fires after an account edit and its meta fields are
	// persisted.
	ProfilePostSave ProfileEventType = "members.profile.post_save"
	// ProfileRegister fires once registration has completed.
	ProfileRegister ProfileEventType = "members.profile.register"
)

// ProfileEvent carries the account being mutated and the named meta fields
// touched during the operation. Subscribers to the pre-save event may add
// meta values; the workflow persists whatever the event accumulated.
type ProfileEvent struct {
	EventType  ProfileEventType
	Account    *Account
	OccurredAt time.Time

	metaFields map[string]string
}

// NewProfileEvent creates an event for the given account.
func NewProfileEvent(eventType ProfileEventType, account *Account) *ProfileEvent {
	return &ProfileEvent{
		EventType:  eventType,
		Account:    account,
		OccurredAt: time.Now(),
		metaFields: map[string]string{},
	}
}

// AddMetaValue declares a named meta field and its value on the event.
func (e *ProfileEvent) AddMetaValue(name, value string) *ProfileEvent {
	if e.metaFields == nil {
		e.metaFields = map[string]string{}
	}
	e.metaFields[name] = value
	return e
}

// MetaFields returns the accumulated meta field values.
func (e *ProfileEvent) MetaFields() map[string]string {
	return e.metaFields
}

// MetaFieldNames returns the declared meta field names.
func (e *ProfileEvent) MetaFieldNames() []string {
	names := make([]string, 0, len(e.metaFields))
	for name := range e.metaFields {
		names = append(names, name)
	}
	return names
}

// Dispatcher consumes profile events. The workflow invokes it synchronously
// at defined points; it is an explicit collaborator, not a process-wide bus.
type Dispatcher interface {
	Dispatch(ctx context.Context, event *ProfileEvent) error
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(ctx context.Context, event *ProfileEvent) error

// Dispatch implements Dispatcher.
func (f DispatcherFunc) Dispatch(ctx context.Context, event *ProfileEvent) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(context.Context, *ProfileEvent) error {
	return nil
}

func normalizeDispatcher(d Dispatcher) Dispatcher {
	if d == nil {
		return noopDispatcher{}
	}
	return d
}
