package models

import (
	"time"
)

// ResumeMeta describes the uploaded resume file.
type ResumeMeta struct {
	Filename string `json:"filename"`
	Type     string `json:"type"` // "pdf" or "docx"
	Size     int64  `json:"size"`
}

// CandidateProfile is created once at upload time.
type CandidateProfile struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"index" json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	ResumeMeta ResumeMeta `gorm:"embedded;embeddedPrefix:resume_" json:"resumeMeta"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CandidateResult is the final outcome of a completed session, one per candidate.
type CandidateResult struct {
	CandidateID string     `gorm:"primaryKey" json:"candidateId"`
	FinalScore  float64    `gorm:"not null" json:"finalScore"`
	Summary     string     `gorm:"type:text" json:"summary"`
	FinishedAt  time.Time  `json:"finishedAt"`
	Revision    int64      `gorm:"not null;default:1" json:"-"`
	Exported    bool       `gorm:"not null;default:false;index" json:"-"`
	ExportedAt  *time.Time `json:"-"`
}

// CandidateRow joins a profile with its result for the interviewer table.
type CandidateRow struct {
	Profile CandidateProfile `json:"profile"`
	Result  *CandidateResult `json:"result,omitempty"`
}

// ProfileUpdate holds manual corrections; nil fields are left untouched.
type ProfileUpdate struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// Apply copies the set fields onto the profile.
func (u ProfileUpdate) Apply(p *CandidateProfile) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = *u.Phone
	}
}
