package http

import "github.com/example/campusreports/backend/internal/models"

// categoryRef is the short form of a category embedded in report listings.
type categoryRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type reportView struct {
	models.Report
	Category *categoryRef `json:"category,omitempty"`
}

type reportDetailView struct {
	reportView
	Updates []models.Update `json:"updates"`
}

type categoryDetailView struct {
	models.Category
	Reports []reportView `json:"reports"`
}

func toReportView(r models.Report) reportView {
	view := reportView{Report: r}
	if r.Category != nil {
		view.Category = &categoryRef{ID: r.Category.ID, Name: r.Category.Name}
	}
	return view
}

func toReportViews(reports []models.Report) []reportView {
	views := make([]reportView, 0, len(reports))
	for _, r := range reports {
		views = append(views, toReportView(r))
	}
	return views
}
