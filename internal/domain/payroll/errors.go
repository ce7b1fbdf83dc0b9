package payroll

import "errors"

var (
	ErrEmployeeSalaryMissing = errors.New("employee has no salary on record")
)
