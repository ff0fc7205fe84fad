package models

// SourceSite tags appointment requests created through this client.
const SourceSite = "site"

// BackupFilename is the fixed name of the downloaded backup document.
const BackupFilename = "tattoo-backup.json"

const (
	FlowBooking          = "booking"
	FlowAdminList        = "admin_appointments"
	FlowAdminService     = "admin_service"
	FlowAdminPortfolio   = "admin_portfolio"
	FlowAdminBackup      = "admin_backup"
	FlowAdminSpreadsheet = "admin_spreadsheet"
)

const (
	CollectionServices  = "services"
	CollectionPortfolio = "portfolio"
)

// Сообщения для пользователя
const (
	MsgBookingSent       = "Заявка отправлена. Номер: %s"
	MsgBookingFailed     = "Ошибка отправки. Попробуйте позже."
	MsgBookingIncomplete = "Укажите имя и телефон или Telegram."
	MsgBookingBadDate    = "Дата должна быть в формате ГГГГ-ММ-ДД."
	MsgBookingBadTime    = "Время должно быть в формате ЧЧ:ММ."

	MsgDraftKept = "Черновик заявки сохранён, повторите отправку: studio book -retry"
	MsgDraftLost = "Черновик не сохранён: каталог черновиков недоступен."
	MsgNoDraft   = "Нет сохранённого черновика заявки для этой сессии."

	MsgAppointmentsLoaded = "Заявки загружены"
	MsgAuthFailed         = "Ошибка авторизации"

	MsgServiceAdded     = "Услуга добавлена"
	MsgServiceFailed    = "Ошибка добавления услуги"
	MsgServiceNoTitle   = "Укажите название услуги."
	MsgServiceBadPrice  = "Цена должна быть неотрицательным числом."
	MsgServiceBadLength = "Длительность должна быть целым числом минут."

	MsgWorkAdded    = "Работа добавлена"
	MsgWorkFailed   = "Ошибка добавления работы"
	MsgWorkNoFields = "Укажите заголовок и ссылку на изображение."
	MsgWorkBadImage = "Некорректная ссылка на изображение."

	MsgBackupSaved  = "Бэкап сохранён: %s"
	MsgBackupFailed = "Ошибка бэкапа"

	MsgSpreadsheetSaved  = "Таблица заявок сохранена: %s"
	MsgSpreadsheetFailed = "Ошибка выгрузки таблицы"

	MsgInFlight = "Операция уже выполняется"
)

// Сообщения проверки соединения
const (
	ProbeConnected       = "Connected - %s"
	ProbeFailed          = "Failed - %d %s"
	ProbeError           = "Error - %s"
	ProbeNotAccessible   = "Backend not accessible"
	ProbeDatabaseFailed  = "Failed to check database - %d"
	ProbeDatabaseErrored = "Database check failed - %s"
)
