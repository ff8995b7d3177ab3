package report

import "github.com/morozRed/crumbtrail/internal/crumb"

// Statistics summarizes a breadcrumb collection.
type Statistics struct {
	Total                int            `json:"total" yaml:"total"`
	FilesWithBreadcrumbs int            `json:"files_with_breadcrumbs" yaml:"files_with_breadcrumbs"`
	Phases               map[string]int `json:"phases" yaml:"phases"`
	Statuses             map[string]int `json:"statuses" yaml:"statuses"`
}

// Stats counts breadcrumbs by phase and status and counts distinct files.
// Breadcrumbs without a phase (or status) are left out of that counter only.
func Stats(breadcrumbs []crumb.Breadcrumb) Statistics {
	stats := Statistics{
		Total:    len(breadcrumbs),
		Phases:   make(map[string]int),
		Statuses: make(map[string]int),
	}

	files := make(map[string]bool)
	for _, b := range breadcrumbs {
		files[b.FilePath] = true
		if b.Phase != nil {
			stats.Phases[*b.Phase]++
		}
		if b.Status != nil {
			stats.Statuses[*b.Status]++
		}
	}
	stats.FilesWithBreadcrumbs = len(files)

	return stats
}
