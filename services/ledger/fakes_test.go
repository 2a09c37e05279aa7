package ledger_test

import (
	"fmt"
	"math"
	"sync"
	"time"

	course "learnhub/models/course"
	"learnhub/services/ledger"
)

// fakeStore is an in-memory ledger.EnrollmentStore. All of the conditional
// updates run under one mutex so the concurrency tests exercise the same
// first-writer-wins semantics the SQL adapters get from the database.
type fakeStore struct {
	mu          sync.Mutex
	nextID      uint
	enrollments map[uint]*course.Enrollment
	byPair      map[[2]uint]uint
	sections    map[uint]map[uint]time.Time
	certs       map[string]*course.Certificate
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		enrollments: make(map[uint]*course.Enrollment),
		byPair:      make(map[[2]uint]uint),
		sections:    make(map[uint]map[uint]time.Time),
		certs:       make(map[string]*course.Certificate),
	}
}

func (s *fakeStore) Create(e *course.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uint{e.StudentID, e.CourseID}
	if _, exists := s.byPair[key]; exists {
		return ledger.ErrAlreadyEnrolled
	}
	s.nextID++
	e.ID = s.nextID
	cp := *e
	s.enrollments[e.ID] = &cp
	s.byPair[key] = e.ID
	s.sections[e.ID] = make(map[uint]time.Time)
	return nil
}

func (s *fakeStore) Find(studentID, courseID uint) (*course.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byPair[[2]uint{studentID, courseID}]
	if !ok {
		return nil, ledger.ErrEnrollmentNotFound
	}
	cp := *s.enrollments[id]
	return &cp, nil
}

func (s *fakeStore) FindByID(enrollmentID uint) (*course.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[enrollmentID]
	if !ok {
		return nil, ledger.ErrEnrollmentNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *fakeStore) AddCompletedSection(enrollmentID, sectionID uint, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sections[enrollmentID]
	if !ok {
		return false, ledger.ErrEnrollmentNotFound
	}
	if _, done := set[sectionID]; done {
		return false, nil
	}
	set[sectionID] = at
	return true, nil
}

func (s *fakeStore) CountCompletedSections(enrollmentID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.sections[enrollmentID])), nil
}

// RecomputeProgress derives the percentage from the section set under the
// same lock that guards set-adds, mirroring the single-statement recompute
// the SQL adapter runs.
func (s *fakeStore) RecomputeProgress(enrollmentID uint, sectionTotal int, accessedAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[enrollmentID]
	if !ok {
		return 0, ledger.ErrEnrollmentNotFound
	}
	progress := 0
	if sectionTotal > 0 {
		progress = int(math.Round(float64(len(s.sections[enrollmentID])) * 100 / float64(sectionTotal)))
		if progress > 100 {
			progress = 100
		}
	}
	e.Progress = progress
	e.LastAccessedAt = accessedAt
	return progress, nil
}

// saveProgress force-sets a stored percentage, for building fixtures that
// bypass section completion.
func (s *fakeStore) saveProgress(enrollmentID uint, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[enrollmentID]
	if !ok {
		return ledger.ErrEnrollmentNotFound
	}
	e.Progress = progress
	return nil
}

func (s *fakeStore) Touch(enrollmentID uint, accessedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[enrollmentID]
	if !ok {
		return ledger.ErrEnrollmentNotFound
	}
	e.LastAccessedAt = accessedAt
	return nil
}

func (s *fakeStore) MarkCompleted(enrollmentID uint, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[enrollmentID]
	if !ok {
		return false, ledger.ErrEnrollmentNotFound
	}
	if e.CompletedAt != nil {
		return false, nil
	}
	e.CompletedAt = &at
	return true, nil
}

func (s *fakeStore) ClaimCertificate(enrollmentID uint, serial string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[enrollmentID]
	if !ok {
		return false, ledger.ErrEnrollmentNotFound
	}
	if e.CertificateIssued {
		return false, nil
	}
	e.CertificateIssued = true
	e.CertificateSerial = &serial
	return true, nil
}

func (s *fakeStore) CreateCertificate(cert *course.Certificate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.certs[cert.Serial]; exists {
		return fmt.Errorf("duplicate certificate serial %s", cert.Serial)
	}
	cp := *cert
	s.certs[cert.Serial] = &cp
	return nil
}

func (s *fakeStore) FindCertificateBySerial(serial string) (*course.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cert, ok := s.certs[serial]
	if !ok {
		return nil, ledger.ErrCertificateNotFound
	}
	cp := *cert
	return &cp, nil
}

func (s *fakeStore) Delete(enrollmentID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.enrollments[enrollmentID]
	if !ok {
		return ledger.ErrEnrollmentNotFound
	}
	delete(s.byPair, [2]uint{e.StudentID, e.CourseID})
	delete(s.enrollments, enrollmentID)
	delete(s.sections, enrollmentID)
	return nil
}

func (s *fakeStore) certificateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.certs)
}

func (s *fakeStore) enrollmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.enrollments)
}

// fakeCatalog is an in-memory ledger.CourseCatalog.
type fakeCatalog struct {
	mu           sync.Mutex
	policies     map[uint]*ledger.EnrollmentPolicy
	summaries    map[uint]*ledger.CourseSummary
	enrollCounts map[uint]int64
	revenue      map[uint]float64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		policies:     make(map[uint]*ledger.EnrollmentPolicy),
		summaries:    make(map[uint]*ledger.CourseSummary),
		enrollCounts: make(map[uint]int64),
		revenue:      make(map[uint]float64),
	}
}

func (c *fakeCatalog) addCourse(policy *ledger.EnrollmentPolicy, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policies[policy.CourseID] = policy
	c.summaries[policy.CourseID] = &ledger.CourseSummary{
		CourseID:     policy.CourseID,
		Title:        title,
		InstructorID: policy.InstructorID,
	}
}

func (c *fakeCatalog) setSections(courseID uint, sectionIDs []uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	policy := c.policies[courseID]
	policy.SectionIDs = sectionIDs
	policy.SectionCount = len(sectionIDs)
}

func (c *fakeCatalog) EnrollmentPolicy(courseID uint) (*ledger.EnrollmentPolicy, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	policy, ok := c.policies[courseID]
	if !ok {
		return nil, ledger.ErrCourseNotFound
	}
	cp := *policy
	return &cp, nil
}

func (c *fakeCatalog) CourseSummary(courseID uint) (*ledger.CourseSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	summary, ok := c.summaries[courseID]
	if !ok {
		return nil, ledger.ErrCourseNotFound
	}
	cp := *summary
	return &cp, nil
}

func (c *fakeCatalog) ActiveEnrollmentCount(courseID uint) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enrollCounts[courseID], nil
}

func (c *fakeCatalog) IncrementEnrollmentCount(courseID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enrollCounts[courseID]++
	return nil
}

func (c *fakeCatalog) AccrueRevenue(courseID uint, amount float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revenue[courseID] += amount
	return nil
}

// fakeAccounts is an in-memory ledger.AccountDirectory.
type fakeAccounts struct {
	mu        sync.Mutex
	names     map[uint]string
	earnings  map[uint]float64
	enrolled  map[[2]uint]bool
	completed map[[2]uint]string
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		names:     make(map[uint]string),
		earnings:  make(map[uint]float64),
		enrolled:  make(map[[2]uint]bool),
		completed: make(map[[2]uint]string),
	}
}

func (a *fakeAccounts) addUser(userID uint, name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.names[userID] = name
}

func (a *fakeAccounts) removeUser(userID uint) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.names, userID)
}

func (a *fakeAccounts) DisplayName(userID uint) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	name, ok := a.names[userID]
	if !ok {
		return "", ledger.ErrAccountNotFound
	}
	return name, nil
}

func (a *fakeAccounts) AccrueInstructorEarnings(instructorID uint, amount float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.earnings[instructorID] += amount
	return nil
}

func (a *fakeAccounts) AddEnrolledCourse(studentID, courseID uint) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enrolled[[2]uint{studentID, courseID}] = true
	return nil
}

func (a *fakeAccounts) AddCompletedCourse(studentID, courseID uint, grade string, completedAt time.Time) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.completed[[2]uint{studentID, courseID}] = grade
	return nil
}

func (a *fakeAccounts) RemoveEnrolledCourse(studentID, courseID uint) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.enrolled, [2]uint{studentID, courseID})
	return nil
}

func (a *fakeAccounts) isEnrolled(studentID, courseID uint) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enrolled[[2]uint{studentID, courseID}]
}

func (a *fakeAccounts) earningsOf(instructorID uint) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.earnings[instructorID]
}

// captureSink records every published event.
type captureSink struct {
	mu     sync.Mutex
	events []ledger.Event
}

func (s *captureSink) Publish(event ledger.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *captureSink) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, evt := range s.events {
		if evt.Name() == name {
			n++
		}
	}
	return n
}
