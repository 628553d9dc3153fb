package notify

import (
	"fmt"

	"github.com/taskdeck/taskdeck/internal/store"
)

var priorityEmoji = map[store.Priority]string{
	store.PriorityLow:    "🟢",
	store.PriorityMedium: "🟡",
	store.PriorityHigh:   "🔴",
}

var columnEmoji = map[store.ColumnID]string{
	store.ColumnBacklog:    "📋",
	store.ColumnInProgress: "🔨",
	store.ColumnReview:     "👀",
	store.ColumnDone:       "✅",
}

func emojiFor(p store.Priority) string {
	if e, ok := priorityEmoji[p]; ok {
		return e
	}
	return "⚪"
}

func columnEmojiFor(c store.ColumnID) string {
	if e, ok := columnEmoji[c]; ok {
		return e
	}
	return "📝"
}

// TelegramMessage renders an event as a Markdown message for the
// Telegram sink.
func TelegramMessage(ev Event) string {
	t := ev.Task
	pe := emojiFor(t.Priority)
	ce := columnEmojiFor(t.ColumnID)

	switch ev.Kind {
	case EventCreated:
		desc := ""
		if t.Description != "" {
			desc = "\n" + t.Description
		}
		return fmt.Sprintf("📌 *New Task Created*\n\n*%s*%s\n\n%s Priority: %s\n%s Column: %s",
			t.Title, desc, pe, t.Priority, ce, t.ColumnID)
	case EventMoved:
		return fmt.Sprintf("%s *Task Moved*\n\n*%s*\n\n%s → %s",
			ce, t.Title, ev.Change.From, ev.Change.To)
	case EventUpdated:
		return fmt.Sprintf("✏️ *Task Updated*\n\n*%s*\n%s %s | %s %s",
			t.Title, pe, t.Priority, ce, t.ColumnID)
	case EventDeleted:
		return fmt.Sprintf("🗑️ *Task Deleted*\n\n~%s~", t.Title)
	default:
		return fmt.Sprintf("📝 Task event: %s\n%s", ev.Kind, t.Title)
	}
}

var priorityLabel = map[store.Priority]string{
	store.PriorityLow:    "Low",
	store.PriorityMedium: "Medium",
	store.PriorityHigh:   "High",
}

// AgentMessage renders an event as plain prose for the chat-bot agent
// sink. The agent reads these as instructions, so moves back to the
// backlog call out that the task is up for grabs again.
func AgentMessage(ev Event) string {
	t := ev.Task
	label := priorityLabel[t.Priority]
	if label == "" {
		label = string(t.Priority)
	}

	switch ev.Kind {
	case EventCreated:
		desc := ""
		if t.Description != "" {
			desc = " - " + t.Description
		}
		return fmt.Sprintf("New board task created: %q%s. Priority: %s. Column: %s. Please pick up this task if appropriate based on priority and your current workload.",
			t.Title, desc, label, t.ColumnID)
	case EventMoved:
		if ev.Change.To == store.ColumnBacklog {
			return fmt.Sprintf("Task %q moved to %s. This task is now available to pick up.", t.Title, ev.Change.To)
		}
		return fmt.Sprintf("Task %q moved from %s to %s.", t.Title, ev.Change.From, ev.Change.To)
	case EventUpdated:
		return fmt.Sprintf("Task %q was updated. Priority: %s. Column: %s.", t.Title, label, t.ColumnID)
	case EventDeleted:
		return fmt.Sprintf("Task %q was deleted from the board.", t.Title)
	default:
		return fmt.Sprintf("Board event: %s for task %q", ev.Kind, t.Title)
	}
}
