package ledger

// Event is a domain event emitted by the ledger. Delivery is fire-and-forget
// and at-least-once; whether anything listens is the sink's concern.
type Event interface {
	Name() string
}

// EventSink receives ledger events. Publish must not block the caller.
type EventSink interface {
	Publish(event Event)
}

type EnrollmentCreated struct {
	StudentID uint `json:"student_id"`
	CourseID  uint `json:"course_id"`
}

func (EnrollmentCreated) Name() string { return "enrollment.created" }

type SectionCompleted struct {
	StudentID uint `json:"student_id"`
	CourseID  uint `json:"course_id"`
	SectionID uint `json:"section_id"`
	Progress  int  `json:"progress"`
}

func (SectionCompleted) Name() string { return "section.completed" }

type CourseCompleted struct {
	StudentID uint `json:"student_id"`
	CourseID  uint `json:"course_id"`
}

func (CourseCompleted) Name() string { return "course.completed" }

type CertificateIssued struct {
	StudentID uint   `json:"student_id"`
	CourseID  uint   `json:"course_id"`
	Serial    string `json:"certificate_serial"`
}

func (CertificateIssued) Name() string { return "certificate.issued" }

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Publish(Event) {}
