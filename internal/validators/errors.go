package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported column type")

	ErrInvalidInteger      = errors.New("invalid integer value")
	ErrInvalidReal         = errors.New("invalid real value")
	ErrInvalidChar         = errors.New("char must be exactly one character")
	ErrInvalidString       = errors.New("invalid string value")
	ErrInvalidDate         = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidDateInterval = errors.New("invalid dateInvl, expected {start,end}, [start,end] or 'start..end'")
	ErrIntervalOrder       = errors.New("dateInvl start must be <= end")

	ErrUnexpectedColumns = errors.New("unexpected columns in row")
	ErrMissingColumn     = errors.New("missing value for column")
	ErrDuplicateColumn   = errors.New("duplicate column name in schema")
)
