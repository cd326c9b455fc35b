package config

const (
	LedgerGSheet = "gsheet"
	LedgerSQL    = "sql"
)

type LedgerConfig struct {
	BackendName string `yaml:"backend"`
}

func (s *LedgerConfig) Backend() string {
	return s.BackendName
}

type GSheetConfig struct {
	CredentialsFile string `yaml:"service-account-file"`
	SpreadsheetID   string `yaml:"file-id"`
	Transactions    string `yaml:"transactions-worksheet"`
	Summary         string `yaml:"summary-worksheet"`
	DebtorCell      string `yaml:"cell-user-in-debt"`
	AmountCell      string `yaml:"cell-amount-to-repay"`
}

func (s *GSheetConfig) ServiceAccountFile() string {
	return s.CredentialsFile
}

func (s *GSheetConfig) FileID() string {
	return s.SpreadsheetID
}

func (s *GSheetConfig) TransactionsWorksheet() string {
	return s.Transactions
}

func (s *GSheetConfig) SummaryWorksheet() string {
	return s.Summary
}

func (s *GSheetConfig) CellUserInDebt() string {
	return s.DebtorCell
}

func (s *GSheetConfig) CellAmountToRepay() string {
	return s.AmountCell
}

type SQLConfig struct {
	DriverName string `yaml:"driver"`
	Hostname   string `yaml:"host"`
	Db         string `yaml:"db"`
	User       string `yaml:"username"`
	Pswd       string `yaml:"password"`
	File       string `yaml:"path"`
}

func (s *SQLConfig) Driver() string {
	return s.DriverName
}

func (s *SQLConfig) Host() string {
	return s.Hostname
}

func (s *SQLConfig) Database() string {
	return s.Db
}

func (s *SQLConfig) Username() string {
	return s.User
}

func (s *SQLConfig) Password() string {
	return s.Pswd
}

// Path is the database file for sqlite.
func (s *SQLConfig) Path() string {
	return s.File
}
