package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"studio/internal/domain"
	"studio/internal/gateway"
	"studio/internal/models"

	"github.com/rs/zerolog"
)

const (
	appointmentsPath = "/admin/appointments"
	servicesPath     = "/admin/services"
	portfolioPath    = "/admin/portfolio"
	backupPath       = "/backup/export"
)

// Console is the password-gated admin view. The credential lives only in
// memory and is sent as a query parameter on every admin call.
//
// Each operation owns its state record; a failure in one never touches the
// others and local data changes only after a success response.
type Console struct {
	gw     domain.Gateway
	logger *zerolog.Logger

	credMu     sync.RWMutex
	credential string

	list         *opState
	appointments []models.Appointment

	service     *opState
	serviceForm ServiceForm

	portfolio     *opState
	portfolioForm PortfolioForm

	backup *opState
	sheet  *opState
}

func NewConsole(gw domain.Gateway, pub domain.EventPublisher, logger *zerolog.Logger) *Console {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Console{
		gw:        gw,
		logger:    logger,
		list:      newOpState(models.FlowAdminList, pub),
		service:   newOpState(models.FlowAdminService, pub),
		portfolio: newOpState(models.FlowAdminPortfolio, pub),
		backup:    newOpState(models.FlowAdminBackup, pub),
		sheet:     newOpState(models.FlowAdminSpreadsheet, pub),
	}
}

// SetCredential is the only writer of the shared secret.
func (c *Console) SetCredential(password string) {
	c.credMu.Lock()
	defer c.credMu.Unlock()
	c.credential = password
}

// Close wipes the credential when the console goes away.
func (c *Console) Close() {
	c.SetCredential("")
}

func (c *Console) adminPath(path string) string {
	c.credMu.RLock()
	defer c.credMu.RUnlock()
	return gateway.AdminPath(path, c.credential)
}

// Appointments returns a copy of the last successfully loaded list.
func (c *Console) Appointments() []models.Appointment {
	c.list.mu.Lock()
	defer c.list.mu.Unlock()
	out := make([]models.Appointment, len(c.appointments))
	copy(out, c.appointments)
	return out
}

func (c *Console) ListStatus() models.Status      { return c.list.get() }
func (c *Console) ServiceStatus() models.Status   { return c.service.get() }
func (c *Console) PortfolioStatus() models.Status { return c.portfolio.get() }
func (c *Console) BackupStatus() models.Status    { return c.backup.get() }
func (c *Console) SheetStatus() models.Status     { return c.sheet.get() }

// LoadAppointments replaces the held list on success. Any failure, including a
// wrong password, is reported as an authorization failure and keeps the list.
func (c *Console) LoadAppointments(ctx context.Context) (models.Status, error) {
	if !c.list.begin() {
		return c.list.get(), models.ErrInFlight
	}

	var data []models.Appointment
	if err := c.gw.Get(ctx, c.adminPath(appointmentsPath), &data); err != nil {
		c.logger.Warn().Err(err).Msg("load appointments failed")
		return c.list.finish(models.Failed(models.MsgAuthFailed)), err
	}
	if data == nil {
		data = []models.Appointment{}
	}

	c.list.mu.Lock()
	c.appointments = data
	c.list.mu.Unlock()

	c.logger.Info().Int("count", len(data)).Msg("appointments loaded")
	return c.list.finish(models.Succeeded(models.MsgAppointmentsLoaded)), nil
}

func (c *Console) ServiceForm() ServiceForm {
	c.service.mu.Lock()
	defer c.service.mu.Unlock()
	return c.serviceForm
}

func (c *Console) SetServiceForm(form ServiceForm) {
	c.service.mu.Lock()
	defer c.service.mu.Unlock()
	c.serviceForm = form
}

// AddService submits the coerced service form. The form is cleared only
// after the server accepted it.
func (c *Console) AddService(ctx context.Context) (models.Status, error) {
	payload, err := BuildService(c.ServiceForm())
	if err != nil {
		if st, ok := c.service.reject(err.Error()); !ok {
			return st, models.ErrInFlight
		}
		return c.service.get(), err
	}
	if !c.service.begin() {
		return c.service.get(), models.ErrInFlight
	}

	var created models.Service
	if err := c.gw.Post(ctx, c.adminPath(servicesPath), payload, &created); err != nil {
		c.logger.Warn().Err(err).Msg("create service failed")
		return c.service.finish(models.Failed(models.MsgServiceFailed)), err
	}

	c.SetServiceForm(ServiceForm{})
	c.logger.Info().Str("service_id", string(created.ID)).Msg("service created")
	return c.service.finish(models.Succeeded(models.MsgServiceAdded)), nil
}

func (c *Console) PortfolioForm() PortfolioForm {
	c.portfolio.mu.Lock()
	defer c.portfolio.mu.Unlock()
	return c.portfolioForm
}

func (c *Console) SetPortfolioForm(form PortfolioForm) {
	c.portfolio.mu.Lock()
	defer c.portfolio.mu.Unlock()
	c.portfolioForm = form
}

// AddPortfolioItem submits the portfolio form; title and image are checked
// before anything is sent.
func (c *Console) AddPortfolioItem(ctx context.Context) (models.Status, error) {
	payload, err := BuildPortfolioItem(c.PortfolioForm())
	if err != nil {
		if st, ok := c.portfolio.reject(err.Error()); !ok {
			return st, models.ErrInFlight
		}
		return c.portfolio.get(), err
	}
	if !c.portfolio.begin() {
		return c.portfolio.get(), models.ErrInFlight
	}

	var created models.PortfolioItem
	if err := c.gw.Post(ctx, c.adminPath(portfolioPath), payload, &created); err != nil {
		c.logger.Warn().Err(err).Msg("create portfolio item failed")
		return c.portfolio.finish(models.Failed(models.MsgWorkFailed)), err
	}

	c.SetPortfolioForm(PortfolioForm{})
	c.logger.Info().Str("portfolio_id", string(created.ID)).Msg("portfolio item created")
	return c.portfolio.finish(models.Succeeded(models.MsgWorkAdded)), nil
}

// ExportBackup downloads the backup document and hands it, indented, to sink
// under the fixed backup filename. No other console state is touched.
func (c *Console) ExportBackup(ctx context.Context, sink domain.BackupSink) (models.Status, error) {
	if !c.backup.begin() {
		return c.backup.get(), models.ErrInFlight
	}

	raw, err := c.gw.GetRaw(ctx, c.adminPath(backupPath))
	if err != nil {
		c.logger.Warn().Err(err).Msg("backup export failed")
		return c.backup.finish(models.Failed(models.MsgBackupFailed)), err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		c.logger.Warn().Err(err).Msg("backup document is not valid json")
		return c.backup.finish(models.Failed(models.MsgBackupFailed)), err
	}

	location, err := sink.Save(models.BackupFilename, buf.Bytes())
	if err != nil {
		c.logger.Warn().Err(err).Msg("backup save failed")
		return c.backup.finish(models.Failed(models.MsgBackupFailed)), err
	}

	c.logger.Info().Str("location", location).Int("bytes", buf.Len()).Msg("backup saved")
	return c.backup.finish(models.Succeeded(fmt.Sprintf(models.MsgBackupSaved, location))), nil
}

// ExportAppointments writes the held list without any network call.
func (c *Console) ExportAppointments(w domain.AppointmentsWriter) (models.Status, error) {
	if !c.sheet.begin() {
		return c.sheet.get(), models.ErrInFlight
	}
	location, err := w.WriteAppointments(c.Appointments())
	if err != nil {
		c.logger.Warn().Err(err).Msg("appointments spreadsheet failed")
		return c.sheet.finish(models.Failed(models.MsgSpreadsheetFailed)), err
	}
	return c.sheet.finish(models.Succeeded(fmt.Sprintf(models.MsgSpreadsheetSaved, location))), nil
}
