package notify

import (
	"log"

	"learnhub/database"
	"learnhub/models"
	courseModels "learnhub/models/course"
	"learnhub/services/ledger"
	"learnhub/utils"
)

// EmailSink turns selected ledger events into emails. Lookups and delivery
// run off the request path; a missing record just skips the mail.
type EmailSink struct{}

func NewEmailSink() *EmailSink {
	return &EmailSink{}
}

func (s *EmailSink) Publish(event ledger.Event) {
	switch evt := event.(type) {
	case ledger.EnrollmentCreated:
		go s.sendEnrollmentMail(evt)
	case ledger.CertificateIssued:
		go s.sendCertificateMail(evt)
	}
}

func (s *EmailSink) sendEnrollmentMail(evt ledger.EnrollmentCreated) {
	student, courseTitle, ok := s.lookup(evt.StudentID, evt.CourseID)
	if !ok {
		return
	}
	if err := utils.SendEnrollmentConfirmation(student.Email, student.Name, courseTitle); err != nil {
		log.Printf("[NOTIFY] Enrollment email to %s failed: %v", student.Email, err)
	}
}

func (s *EmailSink) sendCertificateMail(evt ledger.CertificateIssued) {
	student, courseTitle, ok := s.lookup(evt.StudentID, evt.CourseID)
	if !ok {
		return
	}
	if err := utils.SendCertificateEmail(student.Email, student.Name, courseTitle, evt.Serial); err != nil {
		log.Printf("[NOTIFY] Certificate email to %s failed: %v", student.Email, err)
	}
}

func (s *EmailSink) lookup(studentID, courseID uint) (*models.User, string, bool) {
	db := database.Database.Db

	var student models.User
	if err := db.Where("id = ?", studentID).First(&student).Error; err != nil {
		log.Printf("[NOTIFY] Student %d not found for email: %v", studentID, err)
		return nil, "", false
	}

	var c courseModels.Course
	if err := db.Where("id = ?", courseID).First(&c).Error; err != nil {
		log.Printf("[NOTIFY] Course %d not found for email: %v", courseID, err)
		return nil, "", false
	}

	return &student, c.Title, true
}
