package probe

import (
	"context"
	"fmt"

	"studio/internal/domain"
	"studio/internal/gateway"
	"studio/internal/models"

	"github.com/rs/zerolog"
)

// Report is the outcome of one probe run.
type Report struct {
	BackendURL    string             `json:"backend_url"`
	BackendOK     bool               `json:"backend_ok"`
	BackendStatus string             `json:"backend_status"`
	Database      *models.Diagnostic `json:"database,omitempty"`
	DatabaseError string             `json:"database_error,omitempty"`
}

// Probe checks the backend root and then its database diagnostic endpoint.
type Probe struct {
	gw      domain.Getter
	baseURL string
	logger  *zerolog.Logger
}

func New(gw domain.Getter, baseURL string, logger *zerolog.Logger) *Probe {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Probe{gw: gw, baseURL: baseURL, logger: logger}
}

// Run performs both stages. The database stage is skipped when the backend
// itself cannot be reached. Run has no side effects.
func (p *Probe) Run(ctx context.Context) Report {
	report := Report{BackendURL: p.baseURL}

	var greeting models.Greeting
	if err := p.gw.Get(ctx, "/", &greeting); err != nil {
		report.BackendStatus = describe(err, func(code int, text string) string {
			return fmt.Sprintf(models.ProbeFailed, code, text)
		}, models.ProbeError)
		report.DatabaseError = models.ProbeNotAccessible
		p.logger.Warn().Err(err).Msg("backend probe failed")
		return report
	}
	message := greeting.Message
	if message == "" {
		message = "OK"
	}
	report.BackendOK = true
	report.BackendStatus = fmt.Sprintf(models.ProbeConnected, message)

	var diag models.Diagnostic
	if err := p.gw.Get(ctx, "/test", &diag); err != nil {
		report.DatabaseError = describe(err, func(code int, _ string) string {
			return fmt.Sprintf(models.ProbeDatabaseFailed, code)
		}, models.ProbeDatabaseErrored)
		p.logger.Warn().Err(err).Msg("database probe failed")
		return report
	}
	report.Database = &diag
	return report
}

func describe(err error, failed func(code int, text string) string, errFormat string) string {
	if code, text, ok := gateway.StatusOf(err); ok {
		return failed(code, text)
	}
	return fmt.Sprintf(errFormat, err.Error())
}
