// internal/domain/models/visitor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Visitor is the aggregate root for a prospect or newcomer tracked by a
// protocol team. Visit history, milestones, the integration checklist, and
// feedback are embedded on the document so that an attendance write and the
// recomputation it triggers stay inside one read-modify-write of a single
// document.
//
// NOTE:
//   - AttendanceRate and MonitoringProgress are derived fields. They are
//     recomputed on every attendance or milestone change and never edited
//     directly.
//   - AssignedProtocolMember and ProtocolTeamID are weak references; the
//     team_memberships collection decides who belongs to a team.
type Visitor struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	Gender     string             `bson:"gender,omitempty" json:"gender,omitempty"`
	AgeGroup   string             `bson:"age_group,omitempty" json:"age_group,omitempty"`

	// Type is "visiting" or "joining". Status mirrors the visitor's declared
	// intent and may diverge from MonitoringStatus.
	Type   string `bson:"type" json:"type"`
	Status string `bson:"status" json:"status"`

	// Monitoring window. End is fixed at start + 90 days when a joining
	// visitor is registered and never recalculated.
	MonitoringStatus    string     `bson:"monitoring_status" json:"monitoring_status"`
	MonitoringStartDate *time.Time `bson:"monitoring_start_date,omitempty" json:"monitoring_start_date,omitempty"`
	MonitoringEndDate   *time.Time `bson:"monitoring_end_date,omitempty" json:"monitoring_end_date,omitempty"`

	VisitHistory         []VisitRecord        `bson:"visit_history" json:"visit_history"`
	Milestones           []Milestone          `bson:"milestones,omitempty" json:"milestones,omitempty"`
	IntegrationChecklist IntegrationChecklist `bson:"integration_checklist" json:"integration_checklist"`

	// Derived, recomputed on every attendance/milestone write.
	AttendanceRate     int `bson:"attendance_rate" json:"attendance_rate"`
	MonitoringProgress int `bson:"monitoring_progress" json:"monitoring_progress"`

	Suggestions []Suggestion `bson:"suggestions,omitempty" json:"suggestions,omitempty"`
	Experiences []Experience `bson:"experiences,omitempty" json:"experiences,omitempty"`

	AssignedProtocolMember *primitive.ObjectID `bson:"assigned_protocol_member,omitempty" json:"assigned_protocol_member,omitempty"`
	ProtocolTeamID         *primitive.ObjectID `bson:"protocol_team_id,omitempty" json:"protocol_team_id,omitempty"`

	ConvertedAt *time.Time `bson:"converted_at,omitempty" json:"converted_at,omitempty"`
	IsActive    bool       `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// VisitRecord is one dated attendance outcome. The history is append-only
// and never reordered; duplicate same-day records are allowed.
type VisitRecord struct {
	Date             time.Time           `bson:"date" json:"date"`
	EventType        string              `bson:"event_type" json:"event_type"`
	AttendanceStatus string              `bson:"attendance_status" json:"attendance_status"` // present | absent
	Notes            string              `bson:"notes,omitempty" json:"notes,omitempty"`
	RecordedBy       *primitive.ObjectID `bson:"recorded_by,omitempty" json:"recorded_by,omitempty"`
}

// Milestone is one of the 12 weekly integration checkpoints (weeks 1..12).
type Milestone struct {
	Week                int        `bson:"week" json:"week"`
	Completed           bool       `bson:"completed" json:"completed"`
	Notes               string     `bson:"notes,omitempty" json:"notes,omitempty"`
	ProtocolMemberNotes string     `bson:"protocol_member_notes,omitempty" json:"protocol_member_notes,omitempty"`
	CompletedDate       *time.Time `bson:"completed_date,omitempty" json:"completed_date,omitempty"`
}

// IntegrationChecklist holds the six one-time onboarding tasks that run
// independently of the weekly milestone schedule.
type IntegrationChecklist struct {
	WelcomePackage        bool `bson:"welcome_package" json:"welcome_package"`
	HomeVisit             bool `bson:"home_visit" json:"home_visit"`
	SmallGroupIntro       bool `bson:"small_group_intro" json:"small_group_intro"`
	MinistryOpportunities bool `bson:"ministry_opportunities" json:"ministry_opportunities"`
	MentorAssigned        bool `bson:"mentor_assigned" json:"mentor_assigned"`
	RegularCheckIns       bool `bson:"regular_check_ins" json:"regular_check_ins"`
}

// Suggestion is append-only visitor feedback.
type Suggestion struct {
	Text        string    `bson:"text" json:"text"`
	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
}

// Experience is append-only visitor feedback with a 1-5 rating.
type Experience struct {
	Text        string    `bson:"text" json:"text"`
	Rating      int       `bson:"rating" json:"rating"`
	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`
}
