package board

import (
	"testing"

	"github.com/taskdeck/taskdeck/internal/store"
)

func epicRef(id string) *string { return &id }

var (
	projA = "proj-a"
	projB = "proj-b"

	testEpics = []store.Epic{
		{ID: "e1", Name: "Epic one", ProjectID: &projA},
		{ID: "e2", Name: "Epic two", ProjectID: &projB},
		{ID: "e3", Name: "Loose epic"},
	}

	testTasks = []store.Task{
		{ID: "t1", ColumnID: store.ColumnBacklog, EpicID: epicRef("e1")},
		{ID: "t2", ColumnID: store.ColumnBacklog, EpicID: epicRef("e2")},
		{ID: "t3", ColumnID: store.ColumnBacklog},                       // no epic
		{ID: "t4", ColumnID: store.ColumnReview, EpicID: epicRef("e1")}, // other column
		{ID: "t5", ColumnID: store.ColumnBacklog, EpicID: epicRef("e3")},
	}
)

func ids(tasks []store.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestVisible_NoFilter(t *testing.T) {
	got := Visible(testTasks, testEpics, Filter{}, store.ColumnBacklog)
	want := []string{"t1", "t2", "t3", "t5"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, ids(got))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("expected %v in input order, got %v", want, ids(got))
		}
	}
}

func TestVisible_ColumnMatch(t *testing.T) {
	got := Visible(testTasks, testEpics, Filter{}, store.ColumnReview)
	if len(got) != 1 || got[0].ID != "t4" {
		t.Fatalf("expected [t4], got %v", ids(got))
	}
}

func TestVisible_EpicFilter(t *testing.T) {
	e := "e1"
	got := Visible(testTasks, testEpics, Filter{EpicID: &e}, store.ColumnBacklog)
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("expected [t1], got %v", ids(got))
	}
}

func TestVisible_ProjectFilterTransitive(t *testing.T) {
	got := Visible(testTasks, testEpics, Filter{ProjectID: &projA}, store.ColumnBacklog)
	if len(got) != 1 || got[0].ID != "t1" {
		t.Fatalf("expected [t1] via epic e1, got %v", ids(got))
	}
}

func TestVisible_ProjectFilterExcludesEpiclessTasks(t *testing.T) {
	// Tasks only reach a project through an epic: with any project
	// selected, a task with no epic is never visible.
	got := Visible(testTasks, testEpics, Filter{ProjectID: &projA}, store.ColumnBacklog)
	for _, task := range got {
		if task.EpicID == nil {
			t.Fatalf("epic-less task %s visible under project filter", task.ID)
		}
	}
	// And an epic without a project doesn't satisfy any project filter.
	for _, task := range got {
		if *task.EpicID == "e3" {
			t.Fatalf("task under project-less epic visible: %s", task.ID)
		}
	}
}

func TestVisible_ProjectAndEpicFilter(t *testing.T) {
	e := "e2"
	got := Visible(testTasks, testEpics, Filter{ProjectID: &projB, EpicID: &e}, store.ColumnBacklog)
	if len(got) != 1 || got[0].ID != "t2" {
		t.Fatalf("expected [t2], got %v", ids(got))
	}
}

func TestVisible_DanglingEpicReference(t *testing.T) {
	tasks := []store.Task{{ID: "tx", ColumnID: store.ColumnBacklog, EpicID: epicRef("deleted")}}
	got := Visible(tasks, testEpics, Filter{ProjectID: &projA}, store.ColumnBacklog)
	if len(got) != 0 {
		t.Fatalf("task with dangling epic reference visible under project filter: %v", ids(got))
	}
}

func TestSelectProject_ResetsEpic(t *testing.T) {
	e := "e1"
	f := Filter{ProjectID: &projA, EpicID: &e}

	f.SelectProject(&projB)
	if f.EpicID != nil {
		t.Fatal("selecting a project must reset the epic selection")
	}
	if f.ProjectID == nil || *f.ProjectID != projB {
		t.Fatalf("expected project %q, got %v", projB, f.ProjectID)
	}

	// Clearing the project also clears the epic.
	f.SelectEpic(&e)
	f.SelectProject(nil)
	if f.EpicID != nil {
		t.Fatal("clearing the project must reset the epic selection")
	}
}

func TestVisibleColumns_HideCompleted(t *testing.T) {
	all := VisibleColumns(false)
	if len(all) != 4 {
		t.Fatalf("expected 4 columns, got %d", len(all))
	}

	hidden := VisibleColumns(true)
	if len(hidden) != 3 {
		t.Fatalf("expected 3 columns with done hidden, got %d", len(hidden))
	}
	for _, c := range hidden {
		if c.ID == store.ColumnDone {
			t.Fatal("done column rendered while hide-completed is on")
		}
	}
}

func TestEpicsForProject(t *testing.T) {
	got := EpicsForProject(testEpics, &projA)
	if len(got) != 1 || got[0].ID != "e1" {
		t.Fatalf("expected [e1], got %d epics", len(got))
	}
	if all := EpicsForProject(testEpics, nil); len(all) != len(testEpics) {
		t.Fatalf("expected all epics with no project selected, got %d", len(all))
	}
}
