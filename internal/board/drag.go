package board

import "github.com/taskdeck/taskdeck/internal/store"

// activationDistance is the pointer travel required before a press
// becomes a drag rather than a click on the task card.
const activationDistance = 8

// DropTarget is what the pointer was over when a gesture ended.
// The zero value means no valid target.
type DropTarget struct {
	Column store.ColumnID // set when releasing over a column surface
	TaskID string         // set when releasing over another task's card
}

// Drag interprets pointer gestures over the board and resolves them
// into column moves. It tracks exactly one gesture at a time.
type Drag struct {
	taskID         string
	startX, startY int
	active         bool
}

// Press starts tracking a gesture on the given task card.
func (d *Drag) Press(taskID string, x, y int) {
	d.taskID = taskID
	d.startX, d.startY = x, y
	d.active = false
}

// Track feeds pointer motion into the gesture. The drag activates once
// the pointer has travelled activationDistance from the press point.
func (d *Drag) Track(x, y int) {
	if d.taskID == "" || d.active {
		return
	}
	dx, dy := x-d.startX, y-d.startY
	if dx*dx+dy*dy >= activationDistance*activationDistance {
		d.active = true
	}
}

// Dragging reports whether an activated drag is in progress.
func (d *Drag) Dragging() bool { return d.active }

// TaskID returns the task the current gesture started on, or "".
func (d *Drag) TaskID() string { return d.taskID }

// Cancel discards the current gesture.
func (d *Drag) Cancel() {
	d.taskID = ""
	d.active = false
}

// Release ends the gesture and resolves the move to perform, if any.
// Releasing over a column moves the task there; releasing over a task
// joins that task's column — the board does not reorder within columns.
// A press that never travelled the activation distance stays a click.
func (d *Drag) Release(target DropTarget, tasks []store.Task) (taskID string, to store.ColumnID, ok bool) {
	taskID = d.taskID
	active := d.active
	d.Cancel()

	if taskID == "" || !active {
		return "", "", false
	}
	if target.Column != "" {
		return taskID, target.Column, true
	}
	if target.TaskID != "" {
		for _, t := range tasks {
			if t.ID == target.TaskID {
				return taskID, t.ColumnID, true
			}
		}
	}
	return "", "", false
}
