// Package task defines the Task domain entity and its validation rules.
package task

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/plattdot/timeclock/internal/domain"
)

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
)

// Category classifies a tracked activity.
type Category string

const (
	CategoryWork          Category = "work"
	CategoryStudy         Category = "study"
	CategoryEntertainment Category = "entertainment"
	CategoryMisc          Category = "misc"
)

// Categories lists all valid categories in declaration order.
var Categories = []Category{CategoryWork, CategoryStudy, CategoryEntertainment, CategoryMisc}

// Valid reports whether c is one of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryWork, CategoryStudy, CategoryEntertainment, CategoryMisc:
		return true
	}
	return false
}

// MaxTitleLen is the maximum task title length in characters.
const MaxTitleLen = 200

// MaxManualDuration is the longest manual entry in minutes (24 hours).
const MaxManualDuration = 1440

// Task represents a single tracked activity. EndTime and Duration are set
// only once the task is completed; duration is whole minutes.
type Task struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Category  Category   `json:"category"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Duration  *int       `json:"duration,omitempty"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CreateRequest holds the fields needed to start a timer.
type CreateRequest struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
}

// ManualRequest holds the fields for a manually recorded task.
// Duration is in minutes.
type ManualRequest struct {
	Title    string   `json:"title"`
	Category Category `json:"category"`
	Duration int      `json:"duration"`
}

// Page is one page of the task list plus pagination bookkeeping.
type Page struct {
	Tasks   []Task `json:"tasks"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	HasMore bool   `json:"hasMore"`
}

// ListOptions controls pagination and filtering of the task list.
// Category empty means no filter.
type ListOptions struct {
	Page     int
	Limit    int
	Category Category
}

// DefaultLimit and MaxLimit bound the page size for listing.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Normalize clamps pagination values into their valid ranges.
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
}

// ValidateCreateRequest checks a start request. All violated field messages
// are collected into a single domain.ErrValidation wrap.
func ValidateCreateRequest(req *CreateRequest) error {
	msgs := fieldViolations(req.Title, req.Category)
	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, ", "))
	}
	return nil
}

// ValidateManualRequest checks a manual entry request, including the
// (0, 1440] minute bound on duration.
func ValidateManualRequest(req *ManualRequest) error {
	msgs := fieldViolations(req.Title, req.Category)
	if req.Duration <= 0 {
		msgs = append(msgs, "duration must be a positive number of minutes")
	} else if req.Duration > MaxManualDuration {
		msgs = append(msgs, fmt.Sprintf("duration must not exceed %d minutes (24 hours)", MaxManualDuration))
	}
	if len(msgs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, ", "))
	}
	return nil
}

func fieldViolations(title string, category Category) []string {
	var msgs []string
	if strings.TrimSpace(title) == "" {
		msgs = append(msgs, "title must not be empty")
	} else if utf8.RuneCountInString(title) > MaxTitleLen {
		msgs = append(msgs, fmt.Sprintf("title must not exceed %d characters", MaxTitleLen))
	}
	if !category.Valid() {
		msgs = append(msgs, "category must be one of work, study, entertainment, misc")
	}
	return msgs
}
