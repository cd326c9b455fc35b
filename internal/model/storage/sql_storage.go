package storage

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/customerr"

	// postgres driver
	_ "github.com/lib/pq"
	// sqlite driver
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	dsnTemplate   = "user=%s password=%s host=%s dbname=%s sslmode=disable"
	migrationsDir = "migrations"
	nobody        = "nobody"
)

//go:embed migrations/*/*.sql
var migrations embed.FS

var gooseDialects = map[string]string{
	DriverPostgres: "postgres",
	DriverSQLite:   "sqlite3",
}

type config interface {
	Driver() string
	Host() string
	Username() string
	Password() string
	Database() string
	Path() string
}

// SQLStorage is a ledger kept in a SQL database. Debts are stored in cents
// per (debtor, creditor) pair and the debtor report is derived from them.
type SQLStorage struct {
	db      *sql.DB
	driver  string
	psql    sq.StatementBuilderType
	catalog *expense.Catalog
}

func NewSQLStorage(config config, catalog *expense.Catalog) (*SQLStorage, error) {
	var dsn string
	switch config.Driver() {
	case DriverPostgres:
		dsn = fmt.Sprintf(dsnTemplate,
			config.Username(),
			config.Password(),
			config.Host(),
			config.Database())
	case DriverSQLite:
		dsn = config.Path()
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", config.Driver())
	}

	db, err := sql.Open(config.Driver(), dsn)
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return OpenSQLStorage(db, config.Driver(), catalog), nil
}

// OpenSQLStorage wraps an already opened database.
func OpenSQLStorage(db *sql.DB, driver string, catalog *expense.Catalog) *SQLStorage {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		placeholder = sq.Dollar
	}
	if driver == DriverSQLite {
		// one connection, so an in-memory database is shared by all queries
		db.SetMaxOpenConns(1)
	}
	return &SQLStorage{
		db:      db,
		driver:  driver,
		psql:    sq.StatementBuilder.PlaceholderFormat(placeholder),
		catalog: catalog,
	}
}

func (s *SQLStorage) Migrate(ctx context.Context) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(gooseDialects[s.driver]); err != nil {
		return errors.Wrap(err, "migrate")
	}
	if err := goose.UpContext(ctx, s.db, migrationsDir+"/"+s.driver); err != nil {
		return errors.Wrap(err, "migrate")
	}
	return nil
}

func (s *SQLStorage) Close() error {
	return s.db.Close()
}

func (s *SQLStorage) Submit(ctx context.Context, tx expense.Transaction) (expense.DebtReport, error) {
	if err := s.saveTransaction(ctx, tx); err != nil {
		return expense.DebtReport{}, customerr.NewLedgerError("cannot save the transaction", err)
	}
	report, err := s.Debtor(ctx)
	if err != nil {
		return expense.DebtReport{}, customerr.NewSummaryError("cannot compute the debt", err)
	}
	return report, nil
}

func (s *SQLStorage) saveTransaction(ctx context.Context, t expense.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "save transaction")
	}
	defer func() {
		txErr := dbTx.Rollback()
		if txErr != nil && !errors.Is(txErr, sql.ErrTxDone) {
			logger.Error("error when transaction rollback", zap.Error(txErr))
		}
	}()

	query := s.psql.Insert("transactions").
		Columns("created_at", "title", "category", "total_cents", "paid_by", "split_method").
		Values(t.Date, t.Title, t.Category.Name, toCents(t.Total), t.PaidBy.ID, t.SplitMethod.Name).
		Suffix("RETURNING id")

	var id int64
	if err = query.RunWith(dbTx).QueryRowContext(ctx).Scan(&id); err != nil {
		return errors.Wrap(err, "save transaction")
	}

	for _, u := range s.catalog.Users {
		debt := toCents(t.Debt(u.ID))
		if debt == 0 {
			continue
		}
		_, err = s.psql.Insert("transaction_debts").
			Columns("transaction_id", "debtor", "creditor", "amount_cents").
			Values(id, u.ID, t.PaidBy.ID, debt).
			RunWith(dbTx).
			ExecContext(ctx)
		if err != nil {
			return errors.Wrap(err, "save debt")
		}
	}

	return errors.Wrap(dbTx.Commit(), "save transaction")
}

func (s *SQLStorage) Debtor(ctx context.Context) (expense.DebtReport, error) {
	balances, err := s.balances(ctx)
	if err != nil {
		return expense.DebtReport{}, customerr.NewLedgerError("cannot compute the debt", err)
	}

	debtor, worst := nobody, int64(0)
	for _, u := range s.catalog.Users {
		if b := balances[u.ID]; b < worst {
			debtor, worst = u.Name, b
		}
	}
	return expense.DebtReport{
		Debtor: debtor,
		Amount: decimal.New(-worst, -2).StringFixed(2),
	}, nil
}

// balances returns the net balance of every user in cents,
// negative for users who owe money.
func (s *SQLStorage) balances(ctx context.Context) (map[string]int64, error) {
	query := s.psql.Select("debtor", "creditor", "SUM(amount_cents)").
		From("transaction_debts").
		GroupBy("debtor", "creditor")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get debts")
	}
	defer func() {
		rowErr := rows.Close()
		if rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	res := make(map[string]int64)
	for rows.Next() {
		var debtor, creditor string
		var amount int64
		if err = rows.Scan(&debtor, &creditor, &amount); err != nil {
			return nil, errors.Wrap(err, "get debts")
		}
		res[debtor] -= amount
		res[creditor] += amount
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get debts")
	}
	return res, nil
}

func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}
