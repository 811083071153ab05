package api

import (
	"context"
	"net/http"

	"github.com/dori/tablero/internal/model"
)

// ProjectStats returns per-project task totals
func (c *Client) ProjectStats(ctx context.Context) ([]model.ProjectStat, error) {
	var stats []model.ProjectStat
	if err := c.do(ctx, http.MethodGet, "/reports/project-stats", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// TaskTimeline returns every task with its project name and progress state
func (c *Client) TaskTimeline(ctx context.Context) ([]model.TimelineEntry, error) {
	var entries []model.TimelineEntry
	if err := c.do(ctx, http.MethodGet, "/reports/task-timeline", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
