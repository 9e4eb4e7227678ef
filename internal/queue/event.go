// Package queue defines the notification payloads exchanged with the
// message broker and the publisher/consumer around them. The broker is a
// pure fan-out bridge to the companion mobile app's push service; no state
// machine lives here.
package queue

// Notification kinds currently published.
const (
	KindCaseAssigned  = "CASE_ASSIGNED"
	KindCaseCompleted = "CASE_COMPLETED"
)

// NotificationEvent is published when a case changes hands or completes.
// It carries enough for a push message without another database read.
type NotificationEvent struct {
	Kind        string `json:"kind"`
	CaseID      uint64 `json:"case_id"`
	CaseNumber  string `json:"case_number"`
	ClientName  string `json:"client_name"`
	SubjectName string `json:"subject_name"`
	TargetUser  uint64 `json:"target_user"`
	OccurredAt  string `json:"occurred_at"`
}
