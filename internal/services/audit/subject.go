package audit

import "github.com/vshulcz/daytally/pkg/observer"

// Observer receives audit events.
type Observer = observer.Observer[Event]

// ObserverFunc adapts a plain function to the Observer interface.
type ObserverFunc = observer.Func[Event]

// Publisher broadcasts audit events.
type Publisher = observer.Publisher[Event]

// Subject fans audit events out to registered observers.
type Subject = observer.Subject[Event]

// NewSubject creates a subject optionally pre-populated with observers.
func NewSubject(observers ...Observer) *Subject {
	return observer.NewSubject(observers...)
}
