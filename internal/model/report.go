package model

// CompletionPercent returns round(100 * completed / total), or 0 when
// total is not positive. Halves round up.
func CompletionPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	if completed < 0 {
		completed = 0
	}
	return (200*completed + total) / (2 * total)
}

// Summary aggregates the server counters over a list of projects
type Summary struct {
	Projects       int
	TotalTasks     int
	CompletedTasks int
}

// Percent returns the overall completion percentage
func (s Summary) Percent() int {
	return CompletionPercent(s.CompletedTasks, s.TotalTasks)
}

// Summarize reduces a project list into dashboard totals
func Summarize(projects []Project) Summary {
	var s Summary
	for _, p := range projects {
		s.Projects++
		s.TotalTasks += p.Total
		s.CompletedTasks += p.Completed
	}
	return s
}

// TaskCounts derives total and completed counts from an attached task
// list. These may disagree with the project's server counters.
func TaskCounts(tasks []Task) (total, completed int) {
	for _, t := range tasks {
		total++
		if t.Completed {
			completed++
		}
	}
	return total, completed
}

// ProjectStat is one row of the per-project statistics report
type ProjectStat struct {
	ProjectID      string `json:"project_id"`
	Name           string `json:"name"`
	TotalTasks     int    `json:"total_tasks"`
	CompletedTasks int    `json:"completed_tasks"`
	PendingTasks   int    `json:"pending_tasks"`
}

// Percent returns the completion percentage of the row
func (s ProjectStat) Percent() int {
	return CompletionPercent(s.CompletedTasks, s.TotalTasks)
}

// TimelineEntry is one task in the timeline report
type TimelineEntry struct {
	TaskID      string   `json:"task_id"`
	TaskName    string   `json:"task_name"`
	ProjectName string   `json:"project_name"`
	Status      Status   `json:"status"`
	Completed   bool     `json:"completed"`
	Priority    Priority `json:"priority,omitempty"`
	DueDate     *string  `json:"due_date,omitempty"`
}

// Progress returns 100 for completed tasks, 50 for tasks in progress and
// 0 otherwise.
func (e TimelineEntry) Progress() int {
	switch {
	case e.Completed:
		return 100
	case e.Status == StatusInProgress:
		return 50
	default:
		return 0
	}
}

// Report bundles both report endpoints
type Report struct {
	Stats    []ProjectStat
	Timeline []TimelineEntry
}

// ProjectNames returns the distinct project names of the timeline in
// first-seen order.
func (r *Report) ProjectNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range r.Timeline {
		if !seen[e.ProjectName] {
			seen[e.ProjectName] = true
			names = append(names, e.ProjectName)
		}
	}
	return names
}
