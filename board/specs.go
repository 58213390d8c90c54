package board

import "github.com/CrowderSoup/workbench/models"

const (
	TasksBoard    = "tasks"
	ContentBoard  = "content"
	CalendarBoard = "calendar"
	MemoryBoard   = "memory"
	TeamBoard     = "team"
	OfficeBoard   = "office"
)

func strs[S ~string](vals []S) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = string(v)
	}
	return out
}

var TaskSpec = Spec[models.Task]{
	Name:        TasksBoard,
	CacheKey:    "task-board-tasks",
	ID:          func(t *models.Task) *string { return &t.ID },
	Title:       func(t models.Task) string { return t.Title },
	Created:     func(t *models.Task) *int64 { return &t.CreatedAt },
	GroupField:  "status",
	Group:       func(t models.Task) string { return string(t.Status) },
	GroupValues: strs(models.TaskStatuses),
}

var ContentSpec = Spec[models.ContentItem]{
	Name:        ContentBoard,
	CacheKey:    "content-pipeline-items",
	ID:          func(c *models.ContentItem) *string { return &c.ID },
	Title:       func(c models.ContentItem) string { return c.Title },
	Created:     func(c *models.ContentItem) *int64 { return &c.CreatedAt },
	Updated:     func(c *models.ContentItem) *int64 { return &c.UpdatedAt },
	GroupField:  "stage",
	Group:       func(c models.ContentItem) string { return string(c.Stage) },
	GroupValues: strs(models.ContentStages),
}

var CalendarSpec = Spec[models.CalendarEvent]{
	Name:        CalendarBoard,
	CacheKey:    "calendar-events",
	ID:          func(e *models.CalendarEvent) *string { return &e.ID },
	Title:       func(e models.CalendarEvent) string { return e.Title },
	Created:     func(e *models.CalendarEvent) *int64 { return &e.CreatedAt },
	GroupField:  "type",
	Group:       func(e models.CalendarEvent) string { return string(e.Type) },
	GroupValues: strs(models.EventTypes),
}

var MemorySpec = Spec[models.MemoryDoc]{
	Name:     MemoryBoard,
	CacheKey: "memory-docs",
	ID:       func(d *models.MemoryDoc) *string { return &d.ID },
	Title:    func(d models.MemoryDoc) string { return d.Title },
	Created:  func(d *models.MemoryDoc) *int64 { return &d.CreatedAt },
	Updated:  func(d *models.MemoryDoc) *int64 { return &d.UpdatedAt },
}

var TeamSpec = Spec[models.TeamMember]{
	Name:       TeamBoard,
	CacheKey:   "team-members",
	ID:         func(m *models.TeamMember) *string { return &m.ID },
	Title:      func(m models.TeamMember) string { return m.Name },
	GroupField: "role",
	Group:      func(m models.TeamMember) string { return m.Role },
	Defaults:   DefaultTeam,
}

var OfficeSpec = Spec[models.OfficeAgent]{
	Name:        OfficeBoard,
	CacheKey:    "office-agents",
	ID:          func(a *models.OfficeAgent) *string { return &a.ID },
	Title:       func(a models.OfficeAgent) string { return a.Name },
	GroupField:  "status",
	Group:       func(a models.OfficeAgent) string { return string(a.Status) },
	GroupValues: strs(models.AgentStatuses),
	Defaults:    DefaultOffice,
}

// DefaultTeam is the roster a fresh workspace starts with.
func DefaultTeam() []models.TeamMember {
	return []models.TeamMember{
		{ID: "1", Name: "BRO", Role: "主助手", Description: "统筹任务、日常对话和整体协调", Avatar: "🤖", Status: models.MemberActive, Skills: []string{"任务管理", "对话", "协调"}},
		{ID: "2", Name: "CodeMaster", Role: "开发者", Description: "负责编码、调试和代码审查", Avatar: "👨‍💻", Status: models.MemberIdle, Skills: []string{"编程", "调试", "代码审查"}},
		{ID: "3", Name: "Wordsmith", Role: "写作者", Description: "负责脚本、文案和内容创作", Avatar: "✍️", Status: models.MemberIdle, Skills: []string{"写作", "脚本", "文案"}},
		{ID: "4", Name: "PixelArtist", Role: "设计师", Description: "负责配图、封面和视觉设计", Avatar: "🎨", Status: models.MemberIdle, Skills: []string{"设计", "配图", "排版"}},
		{ID: "5", Name: "OpsGuard", Role: "运维", Description: "负责部署、监控和定时任务", Avatar: "🛡️", Status: models.MemberIdle, Skills: []string{"部署", "监控", "定时任务"}},
	}
}

// DefaultOffice mirrors DefaultTeam as desks in the office view.
func DefaultOffice() []models.OfficeAgent {
	team := DefaultTeam()
	out := make([]models.OfficeAgent, 0, len(team))
	for _, m := range team {
		a := models.OfficeAgent{
			ID:     m.ID,
			Name:   m.Name,
			Avatar: m.Avatar,
			Role:   m.Role,
			Status: models.AgentIdle,
		}
		if m.Status == models.MemberActive {
			a.Status = models.AgentWorking
			a.CurrentTask = "待命"
			a.ComputerOn = true
		}
		out = append(out, a)
	}
	return out
}
