package store

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/tasks/v1"

	appLog "daydesk/internal/log"
	"daydesk/internal/model"
)

const taskStatusCompleted = "completed"
const taskStatusNeedsAction = "needsAction"

// GoogleTasks implements TaskStore on top of the Tasks v1 API.
type GoogleTasks struct {
	srv *tasks.Service
	loc *time.Location
}

func NewGoogleTasks(ctx context.Context, auth GoogleAuth, loc *time.Location) (*GoogleTasks, error) {
	client, err := auth.Client(ctx, tasks.TasksScope)
	if err != nil {
		return nil, err
	}
	srv, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("google tasks service: %w", err)
	}
	return &GoogleTasks{srv: srv, loc: loc}, nil
}

func (g *GoogleTasks) ListTaskLists(ctx context.Context) ([]model.TaskList, error) {
	resp, err := g.srv.Tasklists.List().MaxResults(100).Context(ctx).Do()
	if err != nil {
		return nil, mapGoogleErr("list task lists", err)
	}
	lists := make([]model.TaskList, 0, len(resp.Items))
	for _, item := range resp.Items {
		lists = append(lists, model.TaskList{ID: item.Id, Title: item.Title})
	}
	return lists, nil
}

func (g *GoogleTasks) ListTasks(ctx context.Context, taskListID string) ([]model.Task, error) {
	out := make([]model.Task, 0)
	pageToken := ""
	for {
		call := g.srv.Tasks.List(taskListID).ShowCompleted(true).MaxResults(100).Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, mapGoogleErr("list tasks", err)
		}
		for _, item := range resp.Items {
			task, err := taskFromGoogle(item, taskListID, g.loc)
			if err != nil {
				appLog.Warn("google tasks: skipping task", "id", item.Id, "reason", err)
				continue
			}
			out = append(out, task)
		}
		pageToken = resp.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return out, nil
}

func (g *GoogleTasks) SaveTask(ctx context.Context, taskListID string, task model.Task) (model.Task, error) {
	gt := taskToGoogle(task, g.loc)
	if task.ID == "" {
		created, err := g.srv.Tasks.Insert(taskListID, gt).Context(ctx).Do()
		if err != nil {
			return model.Task{}, mapGoogleErr("insert task", err)
		}
		return taskFromGoogle(created, taskListID, g.loc)
	}

	updated, err := g.srv.Tasks.Update(taskListID, task.ID, gt).Context(ctx).Do()
	if err != nil {
		return model.Task{}, mapGoogleErr("update task", err)
	}
	return taskFromGoogle(updated, taskListID, g.loc)
}

func taskFromGoogle(item *tasks.Task, taskListID string, loc *time.Location) (model.Task, error) {
	task := model.Task{
		ID:         item.Id,
		TaskListID: taskListID,
		Title:      item.Title,
		Notes:      item.Notes,
		Completed:  item.Status == taskStatusCompleted,
	}
	if item.Due != "" {
		due, err := time.Parse(time.RFC3339, item.Due)
		if err != nil {
			return model.Task{}, fmt.Errorf("due: %w", err)
		}
		// The API serializes due as midnight UTC carrying date information
		// only. Converting that instant into loc would shift the task to
		// the previous day west of UTC, so take the UTC calendar date and
		// anchor it at noon local instead.
		d := due.UTC()
		local := time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
		task.Due = &local
	}
	return task, nil
}

func taskToGoogle(task model.Task, loc *time.Location) *tasks.Task {
	out := &tasks.Task{
		Id:     task.ID,
		Title:  task.Title,
		Notes:  task.Notes,
		Status: taskStatusNeedsAction,
	}
	if task.Completed {
		out.Status = taskStatusCompleted
	}
	if task.Due != nil {
		// Mirror of taskFromGoogle: the wire value is the local calendar
		// date expressed as midnight UTC.
		d := task.Due.In(loc)
		out.Due = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).Format(time.RFC3339)
	}
	return out
}
