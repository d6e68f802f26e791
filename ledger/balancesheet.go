package ledger

import (
	"database/sql"

	"github.com/novamfg/ledger/models"
)

// BalanceSheetBuilder aggregates account balances into a statement and
// self-checks the accounting equation.
type BalanceSheetBuilder struct {
	db     *sql.DB
	engine *QueryEngine
}

// NewBalanceSheetBuilder creates a builder on the given database handle.
func NewBalanceSheetBuilder(db *sql.DB) *BalanceSheetBuilder {
	return &BalanceSheetBuilder{db: db, engine: NewQueryEngine(db)}
}

type sheetAccount struct {
	id      int
	code    *string
	name    string
	accType models.AccountType
	group   models.AccountTypeGroup
}

// Build computes the balance sheet as of a date, optionally with a second
// comparison date. Active accounts with a nonzero balance at either date are
// classified into Assets (current/fixed), Liabilities (current/long-term),
// and Equity; net income up to the date is added to equity as Retained
// Earnings. Liability and equity balances are negated from the raw
// debit-minus-credit sum so credit-normal accounts present as positive
// magnitudes in conventional statement form.
func (b *BalanceSheetBuilder) Build(asOf string, compareDate *string) (models.BalanceSheet, error) {
	if err := validateDate(asOf); err != nil {
		return models.BalanceSheet{}, err
	}
	if compareDate != nil {
		if err := validateDate(*compareDate); err != nil {
			return models.BalanceSheet{}, err
		}
	}

	rows, err := b.db.Query(`SELECT id, code, name, account_type, account_type_group
		FROM accounts WHERE status = 'active' ORDER BY code, name`)
	if err != nil {
		return models.BalanceSheet{}, StorageError{Op: "list accounts", Err: err}
	}
	defer rows.Close()

	var accounts []sheetAccount
	for rows.Next() {
		var a sheetAccount
		if err := rows.Scan(&a.id, &a.code, &a.name, &a.accType, &a.group); err != nil {
			return models.BalanceSheet{}, StorageError{Op: "scan account", Err: err}
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return models.BalanceSheet{}, StorageError{Op: "list accounts", Err: err}
	}

	bs := models.BalanceSheet{AsOfDate: asOf, CompareDate: compareDate}
	sections := map[*models.BalanceSheetSection]int64{}
	var totalAssets, totalLiabilities, totalEquity int64

	for _, a := range accounts {
		var section *models.BalanceSheetSection
		var total *int64
		switch a.group {
		case models.GroupAsset:
			if a.accType == models.TypeFixedAsset {
				section = &bs.FixedAssets
			} else {
				section = &bs.CurrentAssets
			}
			total = &totalAssets
		case models.GroupLiability:
			if a.accType == models.TypeLoan {
				section = &bs.LongTermLiabilities
			} else {
				section = &bs.CurrentLiabilities
			}
			total = &totalLiabilities
		case models.GroupEquity:
			section = &bs.Equity
			total = &totalEquity
		default:
			// Revenue, COGS and expense accounts roll into net income.
			continue
		}

		raw, err := b.engine.rawBalance(a.id, asOf, true)
		if err != nil {
			return models.BalanceSheet{}, err
		}
		display := raw
		if a.group != models.GroupAsset {
			// Statement-side flip: credit-normal balances present positive.
			display = -raw
		}

		line := models.BalanceSheetLine{
			AccountID:   a.id,
			AccountCode: a.code,
			AccountName: a.name,
			Balance:     models.FromMinorUnits(display),
		}

		include := display != 0
		if compareDate != nil {
			rawCmp, err := b.engine.rawBalance(a.id, *compareDate, true)
			if err != nil {
				return models.BalanceSheet{}, err
			}
			displayCmp := rawCmp
			if a.group != models.GroupAsset {
				displayCmp = -rawCmp
			}
			cmp := models.FromMinorUnits(displayCmp)
			line.CompareBalance = &cmp
			include = include || displayCmp != 0
		}
		if !include {
			continue
		}

		section.Lines = append(section.Lines, line)
		sections[section] += display
		*total += display
	}

	netIncome, err := b.netIncome(asOf)
	if err != nil {
		return models.BalanceSheet{}, err
	}
	retained := models.BalanceSheetLine{
		AccountName: "Retained Earnings",
		Balance:     models.FromMinorUnits(netIncome),
	}
	if compareDate != nil {
		cmpIncome, err := b.netIncome(*compareDate)
		if err != nil {
			return models.BalanceSheet{}, err
		}
		cmp := models.FromMinorUnits(cmpIncome)
		retained.CompareBalance = &cmp
	}
	bs.Equity.Lines = append(bs.Equity.Lines, retained)
	sections[&bs.Equity] += netIncome
	totalEquity += netIncome

	for section, total := range sections {
		section.Total = models.FromMinorUnits(total)
	}
	if bs.CurrentAssets.Lines == nil {
		bs.CurrentAssets.Lines = []models.BalanceSheetLine{}
	}
	if bs.FixedAssets.Lines == nil {
		bs.FixedAssets.Lines = []models.BalanceSheetLine{}
	}
	if bs.CurrentLiabilities.Lines == nil {
		bs.CurrentLiabilities.Lines = []models.BalanceSheetLine{}
	}
	if bs.LongTermLiabilities.Lines == nil {
		bs.LongTermLiabilities.Lines = []models.BalanceSheetLine{}
	}

	bs.NetIncome = models.FromMinorUnits(netIncome)
	bs.TotalAssets = models.FromMinorUnits(totalAssets)
	bs.TotalLiabilities = models.FromMinorUnits(totalLiabilities)
	bs.TotalEquity = models.FromMinorUnits(totalEquity)

	discrepancy := totalAssets - (totalLiabilities + totalEquity)
	bs.Discrepancy = models.FromMinorUnits(discrepancy)
	bs.Balanced = discrepancy > -balanceTolerance && discrepancy < balanceTolerance

	return bs, nil
}

// netIncome computes net revenue turnover minus net expense and cost of
// goods turnover over all entries up to asOf, in minor units.
func (b *BalanceSheetBuilder) netIncome(asOf string) (int64, error) {
	rows, err := b.db.Query(`SELECT a.account_type_group, COALESCE(SUM(l.debit_amount), 0), COALESCE(SUM(l.credit_amount), 0)
		FROM transaction_lines l
		JOIN journal_entries e ON l.journal_entry_id = e.id
		JOIN accounts a ON l.account_id = a.id
		WHERE e.transaction_date <= ?
		  AND a.account_type_group IN ('revenue', 'cost_of_goods_sold', 'expense')
		GROUP BY a.account_type_group`, asOf)
	if err != nil {
		return 0, StorageError{Op: "sum turnovers", Err: err}
	}
	defer rows.Close()

	var net int64
	for rows.Next() {
		var group models.AccountTypeGroup
		var debit, credit int64
		if err := rows.Scan(&group, &debit, &credit); err != nil {
			return 0, StorageError{Op: "scan turnover", Err: err}
		}
		switch group {
		case models.GroupRevenue:
			net += credit - debit
		case models.GroupCostOfGoodsSold, models.GroupExpense:
			net -= debit - credit
		}
	}
	if err := rows.Err(); err != nil {
		return 0, StorageError{Op: "sum turnovers", Err: err}
	}
	return net, nil
}
