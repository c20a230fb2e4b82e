package payment

import (
	"database/sql/driver"
	"errors"
)

type Method string

const (
	MethodCash       Method = "CASH"
	MethodDebitCard  Method = "DEBIT_CARD"
	MethodCreditCard Method = "CREDIT_CARD"
)

var ErrInvalidMethod = errors.New("invalid payment method")

func (m Method) String() string {
	return string(m)
}

func (m Method) Value() (driver.Value, error) {
	return m.String(), nil
}

func ParseMethod(s string) (Method, error) {
	switch s {
	case MethodCash.String():
		return MethodCash, nil
	case MethodDebitCard.String():
		return MethodDebitCard, nil
	case MethodCreditCard.String():
		return MethodCreditCard, nil
	default:
		return "", ErrInvalidMethod
	}
}
