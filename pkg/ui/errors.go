package ui

import (
	"fmt"
)

// WarningF prints a formatted warning message
func (p *Printer) WarningF(format string, args ...any) {
	p.Warning(fmt.Sprintf(format, args...))
}

// ErrorF prints a formatted error message
func (p *Printer) ErrorF(format string, args ...any) {
	p.Error(fmt.Sprintf(format, args...))
}

// InfoF prints a formatted info message
func (p *Printer) InfoF(format string, args ...any) {
	p.Info(fmt.Sprintf(format, args...))
}

// SuccessF prints a formatted success message
func (p *Printer) SuccessF(format string, args ...any) {
	p.Success(fmt.Sprintf(format, args...))
}
