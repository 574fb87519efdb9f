package surveillance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medicare/clinic-api/internal/domain/alert"
	"github.com/medicare/clinic-api/internal/domain/threshold"
)

// Thresholds is the slice of the threshold service the detector needs.
type Thresholds interface {
	EnsureExists(ctx context.Context, disease, actorID string) (*threshold.DiseaseThreshold, error)
	GetActiveByDisease(ctx context.Context, disease string) (*threshold.DiseaseThreshold, error)
	ListActive(ctx context.Context) ([]*threshold.DiseaseThreshold, error)
}

// Alerts is the slice of the alert service the detector needs.
type Alerts interface {
	CreateIfNoOpenDuplicate(ctx context.Context, input alert.CreateInput) (*alert.Alert, bool, error)
}

// CaseCounter counts clinic visits per disease over a time window. The
// medical record repository satisfies it.
type CaseCounter interface {
	CountByDiseaseBetween(ctx context.Context, disease string, from, to time.Time) (int, error)
}

// Detector runs the outbreak and trend checks. It only ever adds alerts;
// falling back below a threshold never resolves anything, that judgement
// stays with clinic staff.
type Detector struct {
	cfg        Config
	thresholds Thresholds
	alerts     Alerts
	cases      CaseCounter

	now func() time.Time
}

func NewDetector(cfg Config, thresholds Thresholds, alerts Alerts, cases CaseCounter) *Detector {
	return &Detector{
		cfg:        cfg,
		thresholds: thresholds,
		alerts:     alerts,
		cases:      cases,
		now:        time.Now,
	}
}

// EnsureThreshold provisions a default threshold for the disease when none
// exists yet, attributed to actorID.
func (d *Detector) EnsureThreshold(ctx context.Context, disease, actorID string) (*threshold.DiseaseThreshold, error) {
	return d.thresholds.EnsureExists(ctx, disease, actorID)
}

// CheckOutbreak compares the rolling-window case count against the disease's
// active threshold. A missing or inactive threshold disables the check
// silently. Returns the alert raised, or nil when none fired.
func (d *Detector) CheckOutbreak(ctx context.Context, disease string, recordID, studentID *uuid.UUID) (*alert.Alert, error) {
	t, err := d.thresholds.GetActiveByDisease(ctx, disease)
	if errors.Is(err, threshold.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	to := d.now()
	from := to.AddDate(0, 0, -d.cfg.WindowDays)
	count, err := d.cases.CountByDiseaseBetween(ctx, t.DiseaseName, from, to)
	if err != nil {
		return nil, err
	}
	if count < t.CasesPerWeek {
		return nil, nil
	}

	raised, inserted, err := d.alerts.CreateIfNoOpenDuplicate(ctx, alert.CreateInput{
		AlertType: alert.TypeOutbreakSuspected,
		Severity:  outbreakSeverity(count, t.CasesPerWeek),
		Title:     fmt.Sprintf("Suspected outbreak: %s", t.DiseaseName),
		Message: fmt.Sprintf("%d cases of %s in the last %d days (threshold: %d)",
			count, t.DiseaseName, d.cfg.WindowDays, t.CasesPerWeek),
		RelatedDisease:   &t.DiseaseName,
		RelatedRecordID:  recordID,
		RelatedStudentID: studentID,
	})
	if err != nil {
		return nil, err
	}
	if !inserted {
		log.Debug().Str("disease", t.DiseaseName).Int("cases", count).
			Msg("outbreak condition holds, open alert already exists")
		return nil, nil
	}
	log.Warn().Str("disease", t.DiseaseName).Int("cases", count).Int("threshold", t.CasesPerWeek).
		Str("severity", raised.Severity).Msg("outbreak alert raised")
	return raised, nil
}

// CheckTrend compares the current window's case count against the previous
// window's. A spike has to clear both the percentage increase and the
// absolute case floor before it alerts; a disease going from zero cases to
// at least the floor alerts without a percentage.
func (d *Detector) CheckTrend(ctx context.Context, disease string, recordID, studentID *uuid.UUID) (*alert.Alert, error) {
	t, err := d.thresholds.GetActiveByDisease(ctx, disease)
	if errors.Is(err, threshold.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	to := d.now()
	mid := to.AddDate(0, 0, -d.cfg.WindowDays)
	from := mid.AddDate(0, 0, -d.cfg.WindowDays)

	current, err := d.cases.CountByDiseaseBetween(ctx, t.DiseaseName, mid, to)
	if err != nil {
		return nil, err
	}
	previous, err := d.cases.CountByDiseaseBetween(ctx, t.DiseaseName, from, mid)
	if err != nil {
		return nil, err
	}

	if current == 0 || current < d.cfg.TrendMinCases {
		return nil, nil
	}

	var severity, message string
	switch {
	case previous == 0:
		severity = alert.SeverityHigh
		message = fmt.Sprintf("%d new cases of %s this week, none the week before",
			current, t.DiseaseName)
	default:
		pct := float64(current-previous) / float64(previous) * 100
		if pct <= d.cfg.TrendMinIncreasePct {
			return nil, nil
		}
		severity = alert.SeverityMedium
		message = fmt.Sprintf("Cases of %s rose from %d to %d week over week (+%.0f%%)",
			t.DiseaseName, previous, current, pct)
	}

	raised, inserted, err := d.alerts.CreateIfNoOpenDuplicate(ctx, alert.CreateInput{
		AlertType:        alert.TypeOutbreakSuspected,
		Severity:         severity,
		Title:            fmt.Sprintf("Rising trend: %s", t.DiseaseName),
		Message:          message,
		RelatedDisease:   &t.DiseaseName,
		RelatedRecordID:  recordID,
		RelatedStudentID: studentID,
	})
	if err != nil {
		return nil, err
	}
	if !inserted {
		return nil, nil
	}
	log.Warn().Str("disease", t.DiseaseName).Int("current", current).Int("previous", previous).
		Msg("trend alert raised")
	return raised, nil
}

// OnRecordCreated runs the full check sequence for a freshly stored visit.
// It satisfies the record service's Notifier; failures here are reported but
// must never undo the record write. A threshold provisioned here is
// attributed to the staff member who recorded the visit.
func (d *Detector) OnRecordCreated(ctx context.Context, disease, recordedBy string, recordID, studentID uuid.UUID) error {
	actorID := recordedBy
	if actorID == "" {
		actorID = "system"
	}
	if _, err := d.EnsureThreshold(ctx, disease, actorID); err != nil {
		return fmt.Errorf("ensure threshold for %s: %w", disease, err)
	}

	var errs []error
	if _, err := d.CheckOutbreak(ctx, disease, &recordID, &studentID); err != nil {
		errs = append(errs, fmt.Errorf("outbreak check for %s: %w", disease, err))
	}
	if _, err := d.CheckTrend(ctx, disease, &recordID, &studentID); err != nil {
		errs = append(errs, fmt.Errorf("trend check for %s: %w", disease, err))
	}
	return errors.Join(errs...)
}

// DiseaseOutcome is the result of checking one disease during a full run.
type DiseaseOutcome struct {
	Disease     string `json:"disease"`
	Threshold   int    `json:"threshold"`
	AlertRaised bool   `json:"alert_raised"`
	Error       string `json:"error,omitempty"`
}

// RunSummary reports a full surveillance sweep.
type RunSummary struct {
	StartedAt       time.Time        `json:"started_at"`
	DiseasesChecked int              `json:"diseases_checked"`
	AlertsRaised    int              `json:"alerts_raised"`
	Outcomes        []DiseaseOutcome `json:"outcomes"`
}

// RunAllChecks sweeps every active threshold. One failing disease does not
// stop the rest of the sweep.
func (d *Detector) RunAllChecks(ctx context.Context) (*RunSummary, error) {
	active, err := d.thresholds.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{StartedAt: d.now()}
	for _, t := range active {
		outcome := DiseaseOutcome{Disease: t.DiseaseName, Threshold: t.CasesPerWeek}

		outbreak, err := d.CheckOutbreak(ctx, t.DiseaseName, nil, nil)
		if err != nil {
			outcome.Error = err.Error()
		}
		trend, trendErr := d.CheckTrend(ctx, t.DiseaseName, nil, nil)
		if trendErr != nil && outcome.Error == "" {
			outcome.Error = trendErr.Error()
		}

		if outbreak != nil || trend != nil {
			outcome.AlertRaised = true
			summary.AlertsRaised++
		}
		summary.DiseasesChecked++
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	log.Info().Int("diseases", summary.DiseasesChecked).Int("alerts", summary.AlertsRaised).
		Msg("surveillance sweep finished")
	return summary, nil
}

// outbreakSeverity tiers the alert by how far past the threshold the count is.
func outbreakSeverity(count, thresholdCases int) string {
	switch {
	case count >= 3*thresholdCases:
		return alert.SeverityCritical
	case count >= 2*thresholdCases:
		return alert.SeverityHigh
	default:
		return alert.SeverityMedium
	}
}
