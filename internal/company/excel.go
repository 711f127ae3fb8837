package company

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// rosterHeader is the column layout expected on the first sheet of an
// imported roster workbook.
var rosterHeader = []string{
	"ID", "Nom", "Localisation", "Expérience", "CA", "Effectif", "Certifications", "Zone d'intervention",
}

// FromExcel reads a company roster from the first sheet of an .xlsx workbook.
// The first row is treated as a header. Rows without an id get a generated
// one; rows without a name are skipped.
func FromExcel(path string) (*Companies, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open roster workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("roster workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read roster rows: %w", err)
	}

	companies := &Companies{}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		c := companyFromRow(row)
		if c == nil {
			continue
		}
		companies.Items = append(companies.Items, c)
	}

	return companies, nil
}

func companyFromRow(row []string) *Company {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	name := cell(1)
	if name == "" {
		return nil
	}

	id := cell(0)
	if id == "" {
		id = uuid.NewString()
	}

	c := &Company{
		ID:               id,
		Name:             name,
		Location:         cell(2),
		Experience:       cell(3),
		Revenue:          cell(4),
		Employees:        ParseCount(cell(5)),
		InterventionZone: cell(7),
	}

	if certs := cell(6); certs != "" {
		for _, cert := range strings.FieldsFunc(certs, func(r rune) bool { return r == ',' || r == ';' }) {
			if cert = strings.TrimSpace(cert); cert != "" {
				c.Certifications = append(c.Certifications, cert)
			}
		}
	}

	return c
}

// ToExcel writes the ranking to an .xlsx shortlist, one row per scored
// company with its per-criterion breakdown flattened into a details column.
func (r *Ranking) ToExcel(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Classement"
	f.SetSheetName("Sheet1", sheet)

	header := []string{"Rang", "ID", "Entreprise", "Score", "Méthode", "Détails par critère", "Justification"}
	for col, title := range header {
		cellName, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cellName, title); err != nil {
			return err
		}
	}

	for i, scored := range r.Items {
		values := []any{
			i + 1,
			scored.Company.ID,
			scored.Company.Name,
			scored.Score,
			string(scored.Source),
			formatBreakdown(scored.Breakdown),
			scored.Reasons,
		}
		for col, value := range values {
			cellName, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cellName, value); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save shortlist workbook: %w", err)
	}

	return nil
}

func formatBreakdown(breakdown map[string]CriterionScore) string {
	if len(breakdown) == 0 {
		return ""
	}

	names := make([]string, 0, len(breakdown))
	for name := range breakdown {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		entry := breakdown[name]
		part := fmt.Sprintf("%s: %d", name, entry.Value)
		if entry.Confidence == ConfidenceLow {
			part += " (estimé)"
		}
		parts = append(parts, part)
	}

	return strings.Join(parts, " | ")
}
