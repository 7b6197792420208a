package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/shrimpsizemoose/trekker/logger"
	"github.com/xuri/excelize/v2"

	"github.com/shrimpsizemoose/quizdrop/internal/app"
	"github.com/shrimpsizemoose/quizdrop/internal/models"
	"github.com/shrimpsizemoose/quizdrop/internal/scoring"
)

var Columns = []string{"name", "email", "course", "score", "maxScore", "percent", "extra"}

// XLSXExporter dumps the submission collection into a workbook for people
// who would rather not read the admin JSON.
type XLSXExporter struct {
	service   *app.Service
	path      string
	sheet     string
	scheduler *gocron.Scheduler
}

func NewXLSXExporter(service *app.Service) *XLSXExporter {
	sheet := service.Config.Export.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &XLSXExporter{
		service: service,
		path:    service.Config.Export.Path,
		sheet:   sheet,
	}
}

func (e *XLSXExporter) Export(ctx context.Context) (int, error) {
	records := e.service.Submissions(ctx)

	f, err := e.Build(records)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if err := f.SaveAs(e.path); err != nil {
		return 0, fmt.Errorf("failed to save %s: %w", e.path, err)
	}
	return len(records), nil
}

func (e *XLSXExporter) Build(records []models.Submission) (*excelize.File, error) {
	f := excelize.NewFile()
	if e.sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", e.sheet); err != nil {
			return nil, fmt.Errorf("failed to name sheet %s: %w", e.sheet, err)
		}
	}

	for i, column := range Columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(e.sheet, cell, column); err != nil {
			return nil, fmt.Errorf("failed to write header %s: %w", cell, err)
		}
	}

	for row, record := range records {
		for col, value := range Row(record) {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(e.sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}
	return f, nil
}

// Row flattens a record in Columns order. Nested values become compact JSON.
func Row(record models.Submission) []interface{} {
	var percent interface{}
	if p, ok := scoring.Percent(record.Score(), record.MaxScore()); ok {
		percent = p
	}

	var extra interface{}
	if rest := record.Extra(); len(rest) > 0 {
		extra = cellValue(rest)
	}

	return []interface{}{
		cellValue(record.Name()),
		cellValue(record.Email()),
		cellValue(record.Course()),
		cellValue(record.Score()),
		cellValue(record.MaxScore()),
		percent,
		extra,
	}
}

// cellValue keeps numbers numeric unless a float64 would lose digits.
func cellValue(v interface{}) interface{} {
	if n, ok := v.(json.Number); ok {
		if f, err := n.Float64(); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == n.String() {
			return f
		}
		return n.String()
	}
	switch v.(type) {
	case nil, string, float64, bool:
		return v
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// Schedule re-exports on a cron spec until Stop is called.
func (e *XLSXExporter) Schedule(spec string) error {
	e.scheduler = gocron.NewScheduler(time.UTC)

	_, err := e.scheduler.Cron(spec).Do(func() {
		n, err := e.Export(context.Background())
		if err != nil {
			logger.Error.Printf("Export failed: %v", err)
			return
		}
		logger.Info.Printf("Exported %d submissions to %s", n, e.path)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export: %w", err)
	}

	e.scheduler.StartAsync()
	return nil
}

func (e *XLSXExporter) Stop() {
	if e.scheduler != nil {
		e.scheduler.Stop()
	}
}
