package dashboard

import (
	"slices"

	"github.com/dori/tablero/internal/model"
)

// Reduce returns the state that results from applying a to s. It never
// mutates s: every slice it changes is copied first.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case Batch:
		for _, inner := range a {
			s = Reduce(s, inner)
		}
		return s

	case Started:
		s.Loading = true

	case Failed:
		s.Loading = false
		if a.Err != nil {
			s.Err = a.Err.Error()
		}

	case HealthChecked:
		s.Health = a.Result
		if !a.Result.OK() {
			s.Loading = false
		}

	case ProjectsLoaded:
		s.Projects = slices.Clone(a.Projects)
		s.Loading = false
		s.Err = ""

	case SelectStarted:
		s.SelectSeq = a.Seq
		s.Loading = true

	case ProjectSelected:
		if a.Seq != s.SelectSeq {
			return s
		}
		d := Detail{Project: a.Detail.Project, Tasks: slices.Clone(a.Detail.Tasks)}
		s.Selected = &d
		s.View = ViewDetail
		s.Loading = false
		s.Err = ""

	case SelectFailed:
		if a.Seq != s.SelectSeq {
			return s
		}
		s.Loading = false
		if a.Err != nil {
			s.Err = a.Err.Error()
		}

	case BackToDashboard:
		s.Selected = nil
		s.View = ViewDashboard

	case ProjectCreated:
		s.Projects = append(slices.Clip(s.Projects), a.Project)
		s.View = ViewDashboard
		s.Loading = false
		s.Err = ""

	case ProjectUpdated:
		s.Projects = slices.Clone(s.Projects)
		for i, p := range s.Projects {
			if p.Key.Matches(string(a.ID)) {
				s.Projects[i] = withCounters(a.Project, p)
			}
		}
		if s.Selected != nil && s.Selected.Project.Key.Matches(string(a.ID)) {
			d := *s.Selected
			d.Project = withCounters(a.Project, d.Project)
			s.Selected = &d
		}
		s.Loading = false
		s.Err = ""

	case ProjectDeleted:
		s.Projects = slices.DeleteFunc(slices.Clone(s.Projects), func(p model.Project) bool {
			return p.Key.Matches(string(a.ID))
		})
		s.Selected = nil
		s.View = ViewDashboard
		s.Loading = false
		s.Err = ""

	case TaskCreated:
		s.Loading = false
		if d, ok := s.detailFor(a.ProjectID); ok {
			d.Tasks = append(slices.Clip(d.Tasks), a.Task)
			s.Selected = d
			s.Err = ""
		}

	case TaskUpdated:
		s.Loading = false
		if d, ok := s.detailFor(a.ProjectID); ok {
			d.Tasks = slices.Clone(d.Tasks)
			for i, t := range d.Tasks {
				if t.Key == a.Key {
					updated := a.Task
					if !updated.Key.IsPersisted() {
						updated.Key = t.Key
					}
					d.Tasks[i] = updated
				}
			}
			s.Selected = d
			s.Err = ""
		}

	case TaskDeleted:
		s.Loading = false
		if d, ok := s.detailFor(a.ProjectID); ok {
			d.Tasks = slices.DeleteFunc(slices.Clone(d.Tasks), func(t model.Task) bool {
				return t.Key == a.Key
			})
			s.Selected = d
			s.Err = ""
		}

	case UsersLoaded:
		s.Users = slices.Clone(a.Users)
		s.Loading = false
		s.Err = ""

	case UserCreated:
		s.Users = append(slices.Clip(s.Users), a.User)
		s.Loading = false
		s.Err = ""

	case UserUpdated:
		s.Users = slices.Clone(s.Users)
		for i, u := range s.Users {
			if u.Key == a.Key {
				updated := a.User
				if !updated.Key.IsPersisted() {
					updated.Key = u.Key
				}
				s.Users[i] = updated
			}
		}
		s.Loading = false
		s.Err = ""

	case UserDeleted:
		s.Users = slices.DeleteFunc(slices.Clone(s.Users), func(u model.User) bool {
			return u.Key == a.Key
		})
		s.Loading = false
		s.Err = ""

	case ReportLoaded:
		r := model.Report{
			Stats:    slices.Clone(a.Report.Stats),
			Timeline: slices.Clone(a.Report.Timeline),
		}
		s.Report = &r
		s.Loading = false
		s.Err = ""

	case Navigated:
		if a.View == ViewDetail && s.Selected == nil {
			return s
		}
		if a.View != ViewDetail {
			s.Selected = nil
		}
		s.View = a.View

	case ErrorDismissed:
		s.Err = ""
	}

	return s
}

// detailFor returns a copy of the open detail if it belongs to project id
func (s State) detailFor(id model.ID) (*Detail, bool) {
	if s.Selected == nil || !s.Selected.Project.Key.Matches(string(id)) {
		return nil, false
	}
	d := *s.Selected
	return &d, true
}

// withCounters keeps the list counters of old; update responses do not
// carry them.
func withCounters(updated, old model.Project) model.Project {
	updated.Total = old.Total
	updated.Completed = old.Completed
	updated.Pending = old.Pending
	if !updated.Key.IsPersisted() {
		updated.Key = old.Key
	}
	return updated
}
