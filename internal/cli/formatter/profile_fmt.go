package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/alexanderramin/crossjob/internal/schema"
	"github.com/alexanderramin/crossjob/internal/wizard"
)

const (
	stepBarWidth  = 10
	totalBarWidth = 24
)

// StepRows returns one row per registry step: number, title and progress.
// Inapplicable steps keep their row but show a dash.
func StepRows(reg *wizard.Registry, c wizard.Completion) [][]string {
	rows := make([][]string, 0, reg.Len())
	for i, def := range reg.Steps() {
		num := fmt.Sprintf("%d", i+1)
		score, ok := c.ScoreAt(i)
		if !ok {
			rows = append(rows, []string{Dim(num), Dim(def.Title), Dim("not applicable")})
			continue
		}
		mark := RenderProgress(score.Percent, stepBarWidth)
		if score.IsComplete {
			mark += " " + StyleGreen.Render("✓")
		}
		rows = append(rows, []string{num, def.Title, mark})
	}
	return rows
}

// FormatCompletion renders an applicant's profile completion.
func FormatCompletion(a *domain.Applicant, reg *wizard.Registry, c wizard.Completion, badges []domain.Badge) string {
	var b strings.Builder
	b.WriteString(Bold(a.Name) + " " + Dim(a.ID) + "\n\n")
	b.WriteString(RenderTable([]string{"#", "STEP", "PROGRESS"}, StepRows(reg, c)))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total  %s\n", RenderProgress(c.TotalPercent, totalBarWidth)))

	if len(badges) > 0 {
		parts := make([]string, 0, len(badges))
		for _, badge := range badges {
			parts = append(parts, BadgeIndicator(badge))
		}
		b.WriteString("\n" + strings.Join(parts, "  ") + "\n")
	}
	if a.SubmittedAt != nil {
		b.WriteString("\n" + StyleGreen.Render("Submitted "+a.SubmittedAt.Local().Format(time.DateTime)) + "\n")
	}
	return RenderBox("Profile", b.String())
}

// FormatApplicants renders the applicant list.
func FormatApplicants(list []*domain.Applicant) string {
	if len(list) == 0 {
		return Dim("No applicants yet. Create one with: crossjob applicant new --name NAME") + "\n"
	}
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		state := Dim("in progress")
		if a.IsSubmitted() {
			state = StyleGreen.Render("submitted")
		}
		rows = append(rows, []string{
			a.ID,
			a.Name,
			RenderProgress(a.TotalPercent, stepBarWidth),
			state,
			a.UpdatedAt.Local().Format(time.DateOnly),
		})
	}
	return RenderTable([]string{"ID", "NAME", "PROFILE", "STATE", "UPDATED"}, rows)
}

// FormatSchemaCodes renders the classification table overview.
func FormatSchemaCodes(codes []schema.Code) string {
	rows := make([][]string, 0, len(codes))
	for _, c := range codes {
		required := len(domain.RequiredKeys(c.Fields))
		rows = append(rows, []string{
			Bold(c.Code),
			c.Title,
			fmt.Sprintf("%d", len(c.Fields)),
			fmt.Sprintf("%d", required),
		})
	}
	return RenderTable([]string{"CODE", "TITLE", "FIELDS", "REQUIRED"}, rows)
}

// FormatSchemaCode renders the field descriptors of one classification.
func FormatSchemaCode(c schema.Code) string {
	var b strings.Builder
	b.WriteString(Header(c.Code+" "+c.Title) + "\n")
	if len(c.Fields) == 0 {
		b.WriteString(Dim("No additional fields.") + "\n")
		return b.String()
	}
	rows := make([][]string, 0, len(c.Fields))
	for _, f := range c.Fields {
		req := Dim("optional")
		if f.Required {
			req = StyleYellow.Render("required")
		}
		rows = append(rows, []string{f.Key, f.DisplayLabel(), string(f.Kind), req, strings.Join(f.Options, ", ")})
	}
	b.WriteString(RenderTable([]string{"KEY", "LABEL", "KIND", "", "OPTIONS"}, rows))
	return b.String()
}
