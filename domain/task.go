package domain

import "time"

// Eisenhower classification literals. Stored as-is in the tasks table.
type Urgency string

type Importance string

type TimeFrame string

const (
	UrgencyUrgent    Urgency = "urgent"
	UrgencyNotUrgent Urgency = "not_urgent"

	ImportanceImportant    Importance = "important"
	ImportanceNotImportant Importance = "not_important"

	TimeFrameLongTerm  TimeFrame = "long_term"
	TimeFrameShortTerm TimeFrame = "short_term"
)

func (u Urgency) Valid() bool {
	return u == UrgencyUrgent || u == UrgencyNotUrgent
}

func (i Importance) Valid() bool {
	return i == ImportanceImportant || i == ImportanceNotImportant
}

func (t TimeFrame) Valid() bool {
	return t == TimeFrameLongTerm || t == TimeFrameShortTerm
}

// AttachmentKind selects which file slot on a task an upload fills.
type AttachmentKind string

const (
	AttachmentImage    AttachmentKind = "image"
	AttachmentDocument AttachmentKind = "document"
	AttachmentVoice    AttachmentKind = "voice"
)

func (k AttachmentKind) Valid() bool {
	return k == AttachmentImage || k == AttachmentDocument || k == AttachmentVoice
}

// Task represents a user-owned activity item classified on the Eisenhower axes.
type Task struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Urgency       Urgency    `json:"urgency"`
	Importance    Importance `json:"importance"`
	TimeFrame     TimeFrame  `json:"time_frame"`
	Completed     bool       `json:"completed"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	ImagePath     *string    `json:"image_path,omitempty"`
	DocumentPath  *string    `json:"document_path,omitempty"`
	VoiceNotePath *string    `json:"voice_note_path,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// AttachmentPath returns the stored path for the given kind, or nil.
func (t *Task) AttachmentPath(kind AttachmentKind) *string {
	if t == nil {
		return nil
	}
	switch kind {
	case AttachmentImage:
		return t.ImagePath
	case AttachmentDocument:
		return t.DocumentPath
	case AttachmentVoice:
		return t.VoiceNotePath
	}
	return nil
}

// SetAttachmentPath records the stored path for the given kind.
func (t *Task) SetAttachmentPath(kind AttachmentKind, path *string) {
	if t == nil {
		return
	}
	switch kind {
	case AttachmentImage:
		t.ImagePath = path
	case AttachmentDocument:
		t.DocumentPath = path
	case AttachmentVoice:
		t.VoiceNotePath = path
	}
}

// AttachmentPaths lists every recorded attachment path on the task.
func (t *Task) AttachmentPaths() []string {
	if t == nil {
		return nil
	}
	var paths []string
	for _, p := range []*string{t.ImagePath, t.DocumentPath, t.VoiceNotePath} {
		if p != nil && *p != "" {
			paths = append(paths, *p)
		}
	}
	return paths
}

// TaskUpdate carries a partial update: only non-nil fields are applied.
type TaskUpdate struct {
	Title       *string
	Description *string
	Urgency     *Urgency
	Importance  *Importance
	TimeFrame   *TimeFrame
	Completed   *bool
	Deadline    *time.Time
}

// Empty reports whether the update changes nothing.
func (u TaskUpdate) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Urgency == nil &&
		u.Importance == nil && u.TimeFrame == nil && u.Completed == nil && u.Deadline == nil
}

// Apply copies the present fields onto the task.
func (u TaskUpdate) Apply(t *Task) {
	if t == nil {
		return
	}
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Urgency != nil {
		t.Urgency = *u.Urgency
	}
	if u.Importance != nil {
		t.Importance = *u.Importance
	}
	if u.TimeFrame != nil {
		t.TimeFrame = *u.TimeFrame
	}
	if u.Completed != nil {
		t.Completed = *u.Completed
	}
	if u.Deadline != nil {
		t.Deadline = u.Deadline
	}
}
