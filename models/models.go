package models

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusReview     TaskStatus = "review"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses lists the task board columns in display order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusReview, StatusDone}

type Assignee string

const (
	AssigneeBoss Assignee = "大哥"
	AssigneeBro  Assignee = "BRO"
)

type ContentStage string

const (
	StageIdea       ContentStage = "idea"
	StageScripting  ContentStage = "scripting"
	StageProduction ContentStage = "production"
	StageReview     ContentStage = "review"
	StagePublished  ContentStage = "published"
)

// ContentStages lists the pipeline columns in display order.
var ContentStages = []ContentStage{StageIdea, StageScripting, StageProduction, StageReview, StagePublished}

type EventType string

const (
	EventCron      EventType = "cron"
	EventScheduled EventType = "scheduled"
	EventReminder  EventType = "reminder"
)

var EventTypes = []EventType{EventCron, EventScheduled, EventReminder}

type MemberStatus string

const (
	MemberActive MemberStatus = "active"
	MemberIdle   MemberStatus = "idle"
)

type AgentStatus string

const (
	AgentWorking AgentStatus = "working"
	AgentIdle    AgentStatus = "idle"
	AgentBreak   AgentStatus = "break"
)

var AgentStatuses = []AgentStatus{AgentWorking, AgentIdle, AgentBreak}

// Timestamps are Unix milliseconds, the format the stored documents already use.

type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	Assignee    Assignee   `json:"assignee"`
	CreatedAt   int64      `json:"createdAt"`
}

type ContentItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Script      string       `json:"script,omitempty"`
	Images      ImageList    `json:"images"`
	Stage       ContentStage `json:"stage"`
	Assignee    Assignee     `json:"assignee"`
	CreatedAt   int64        `json:"createdAt"`
	UpdatedAt   int64        `json:"updatedAt"`
}

type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Time        string    `json:"time,omitempty"`
	Type        EventType `json:"type"`
	Assignee    Assignee  `json:"assignee"`
	Completed   bool      `json:"completed"`
	CreatedAt   int64     `json:"createdAt"`
}

type MemoryDoc struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	CreatedAt int64    `json:"createdAt"`
	UpdatedAt int64    `json:"updatedAt"`
}

type TeamMember struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Role        string       `json:"role"`
	Description string       `json:"description"`
	Avatar      string       `json:"avatar"`
	Status      MemberStatus `json:"status"`
	Skills      []string     `json:"skills"`
}

type OfficeAgent struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Avatar      string      `json:"avatar"`
	Role        string      `json:"role"`
	Status      AgentStatus `json:"status"`
	CurrentTask string      `json:"currentTask"`
	ComputerOn  bool        `json:"computerOn"`
}

// ChatMessage is one line of a conversation with a team member.
type ChatMessage struct {
	ID        string `json:"id"`
	MemberID  string `json:"memberId"`
	Role      string `json:"role"` // user | assistant
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}
