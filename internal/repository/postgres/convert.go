package postgres

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func decimalToPgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return n, fmt.Errorf("invalid numeric %q: %w", d.String(), err)
	}
	return n, nil
}

func pgNumericToDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	val, err := n.Value()
	if err != nil {
		return decimal.Zero, err
	}
	s, ok := val.(string)
	if !ok {
		return decimal.Zero, fmt.Errorf("unexpected numeric driver value %T", val)
	}
	return decimal.NewFromString(s)
}
