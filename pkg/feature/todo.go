package feature

import (
	"fmt"
	"strings"
)

// TodoItem is one entry in the inline TODO list.
type TodoItem struct {
	ID        string
	Text      string
	Done      bool
	CreatedAt int64
}

// TodoStore persists TODO entries. The badger-backed cache store provides
// the production implementation.
type TodoStore interface {
	ListTodos() ([]TodoItem, error)
	AddTodo(text string) (TodoItem, error)
	CompleteTodo(id string) error
	RemoveTodo(id string) error
}

// TodoResolver manages the inline TODO list: list, add, complete, remove.
type TodoResolver struct {
	store TodoStore
}

func NewTodoResolver(store TodoStore) *TodoResolver {
	return &TodoResolver{store: store}
}

func (t *TodoResolver) Name() string { return "todo" }

func (t *TodoResolver) HandleQuery(query string) *Outcome {
	op, arg, found := splitCommand(query)
	if !found || op != "todo" {
		return nil
	}
	if t.store == nil {
		return fail(query, "todo storage unavailable")
	}
	sub, rest, _ := splitCommand(arg)
	switch sub {
	case "", "list":
		return t.list(query)
	case "add":
		if rest == "" {
			return fail(query, "usage: todo add <text>")
		}
		item, err := t.store.AddTodo(rest)
		if err != nil {
			return fail(query, "could not save todo: "+err.Error())
		}
		return ok(query, "added: "+item.Text)
	case "done":
		return t.mutate(query, rest, t.store.CompleteTodo, "done")
	case "rm", "remove", "del":
		return t.mutate(query, rest, t.store.RemoveTodo, "removed")
	default:
		// bare "todo buy milk" adds
		item, err := t.store.AddTodo(arg)
		if err != nil {
			return fail(query, "could not save todo: "+err.Error())
		}
		return ok(query, "added: "+item.Text)
	}
}

func (t *TodoResolver) list(query string) *Outcome {
	items, err := t.store.ListTodos()
	if err != nil {
		return fail(query, "could not read todos: "+err.Error())
	}
	if len(items) == 0 {
		return ok(query, "no todos")
	}
	lines := make([]string, 0, len(items))
	for i, it := range items {
		mark := " "
		if it.Done {
			mark = "x"
		}
		lines = append(lines, fmt.Sprintf("%d. [%s] %s", i+1, mark, it.Text))
	}
	return ok(query, strings.Join(lines, "\n"))
}

func (t *TodoResolver) mutate(query, rest string, fn func(string) error, verb string) *Outcome {
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return fail(query, "usage: todo "+verb+" <number>")
	}
	items, err := t.store.ListTodos()
	if err != nil {
		return fail(query, "could not read todos: "+err.Error())
	}
	idx := -1
	for i := range items {
		if fmt.Sprintf("%d", i+1) == rest || items[i].ID == rest {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fail(query, "no such todo: "+rest)
	}
	if err := fn(items[idx].ID); err != nil {
		return fail(query, "could not update todo: "+err.Error())
	}
	return ok(query, verb+": "+items[idx].Text)
}

func (t *TodoResolver) Complete(partial string) []Suggestion {
	return filterSuggestions(todoFormats, partial)
}

func (t *TodoResolver) Help() *Help {
	return &Help{
		Title:       "TODO list",
		Description: "Quick inline task list",
		Formats:     todoFormats,
	}
}

var todoFormats = []Suggestion{
	{Format: "todo", Description: "List todos", Example: "todo"},
	{Format: "todo add <text>", Description: "Add a todo", Example: "todo add buy milk"},
	{Format: "todo done <n>", Description: "Mark a todo done", Example: "todo done 1"},
	{Format: "todo rm <n>", Description: "Remove a todo", Example: "todo rm 1"},
}
