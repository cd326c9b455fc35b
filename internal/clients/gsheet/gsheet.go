package gsheet

import (
	"context"
	"fmt"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
	"max.ks1230/split-expenses-bot/internal/logger"
	"max.ks1230/split-expenses-bot/internal/model/customerr"
)

const (
	valueInputOption = "USER_ENTERED"
	// rows are inserted right below the header
	firstDataRow = 2
)

type config interface {
	ServiceAccountFile() string
	FileID() string
	TransactionsWorksheet() string
	SummaryWorksheet() string
	CellUserInDebt() string
	CellAmountToRepay() string
}

// Client is a ledger kept in a Google spreadsheet. New rows go on top of the
// transactions worksheet; the debtor is computed by the sheet itself and read
// back from two summary cells.
type Client struct {
	svc            *sheets.Service
	config         config
	catalog        *expense.Catalog
	transactionsID int64
}

func New(ctx context.Context, config config, catalog *expense.Catalog) (*Client, error) {
	return newClient(ctx, config, catalog,
		option.WithCredentialsFile(config.ServiceAccountFile()),
		option.WithScopes(sheets.SpreadsheetsScope))
}

func newClient(ctx context.Context, config config, catalog *expense.Catalog, opts ...option.ClientOption) (*Client, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create sheets service")
	}

	c := &Client{
		svc:     svc,
		config:  config,
		catalog: catalog,
	}
	c.transactionsID, err = c.sheetID(ctx, config.TransactionsWorksheet())
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) sheetID(ctx context.Context, title string) (int64, error) {
	resp, err := c.svc.Spreadsheets.Get(c.config.FileID()).
		Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, errors.Wrap(err, "get spreadsheet")
	}
	for _, s := range resp.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return s.Properties.SheetId, nil
		}
	}
	return 0, errors.Errorf("worksheet %q not found", title)
}

func (c *Client) Submit(ctx context.Context, tx expense.Transaction) (expense.DebtReport, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "gsheetSubmit")
	defer span.Finish()

	logger.Info("inserting transaction", zap.Stringer("transaction", tx))

	if err := c.insertRow(ctx, Row(tx, c.catalog.Users)); err != nil {
		ext.Error.Set(span, true)
		return expense.DebtReport{}, customerr.NewLedgerError("cannot save the transaction", err)
	}
	report, err := c.Debtor(ctx)
	if err != nil {
		ext.Error.Set(span, true)
		return expense.DebtReport{}, customerr.NewSummaryError("cannot read the debt summary", err)
	}
	return report, nil
}

func (c *Client) insertRow(ctx context.Context, row []any) error {
	insert := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    c.transactionsID,
					Dimension:  "ROWS",
					StartIndex: firstDataRow - 1,
					EndIndex:   firstDataRow,
				},
				InheritFromBefore: false,
			},
		}},
	}
	_, err := c.svc.Spreadsheets.BatchUpdate(c.config.FileID(), insert).Context(ctx).Do()
	if err != nil {
		return errors.Wrap(err, "insert empty row")
	}

	rng := fmt.Sprintf("%s!A%d", c.config.TransactionsWorksheet(), firstDataRow)
	_, err = c.svc.Spreadsheets.Values.Update(c.config.FileID(), rng, &sheets.ValueRange{Values: [][]any{row}}).
		ValueInputOption(valueInputOption).Context(ctx).Do()
	return errors.Wrap(err, "write row")
}

func (c *Client) Debtor(ctx context.Context) (expense.DebtReport, error) {
	summary := c.config.SummaryWorksheet()
	resp, err := c.svc.Spreadsheets.Values.BatchGet(c.config.FileID()).
		Ranges(summary+"!"+c.config.CellUserInDebt(), summary+"!"+c.config.CellAmountToRepay()).
		Context(ctx).Do()
	if err != nil {
		return expense.DebtReport{}, customerr.NewLedgerError("cannot read the debt summary", err)
	}

	var cells [2]string
	for i, vr := range resp.ValueRanges {
		if i < len(cells) {
			cells[i] = firstCell(vr)
		}
	}
	return expense.DebtReport{Debtor: cells[0], Amount: cells[1]}, nil
}

func firstCell(vr *sheets.ValueRange) string {
	if vr == nil || len(vr.Values) == 0 || len(vr.Values[0]) == 0 {
		return ""
	}
	return fmt.Sprint(vr.Values[0][0])
}

// Row lays a transaction out as the sheet expects it: date parts, details,
// then percentages, shares and debts, each block in catalog user order.
func Row(tx expense.Transaction, users []expense.User) []any {
	row := []any{
		tx.Date.Year(),
		int(tx.Date.Month()),
		tx.Date.Day(),
		fmt.Sprintf("%d:%d", tx.Date.Hour(), tx.Date.Minute()),
		tx.Title,
		tx.Category.Name,
		tx.Total.InexactFloat64(),
		tx.PaidBy.Name,
		tx.SplitMethod.Name,
	}
	for _, u := range users {
		row = append(row, tx.SplitMethod.Split[u.ID]/100)
	}
	for _, u := range users {
		row = append(row, tx.Share(u.ID).InexactFloat64())
	}
	for _, u := range users {
		row = append(row, tx.Debt(u.ID).InexactFloat64())
	}
	return row
}
