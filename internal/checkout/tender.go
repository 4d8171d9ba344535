package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MikeMC777/qsr-pos/internal/money"
)

var ErrInvalidKey = errors.New("invalid keypad key")

// maxInput keeps keypad amounts far away from int64 overflow.
const maxInput = 9

type PaymentType string

const (
	PaymentCash   PaymentType = "cash"
	PaymentCredit PaymentType = "credit"
)

func ParsePaymentType(s string) (PaymentType, error) {
	switch p := PaymentType(strings.ToLower(s)); p {
	case PaymentCash, PaymentCredit:
		return p, nil
	}
	return "", fmt.Errorf("unknown payment type %q", s)
}

// Tender is the register keypad: an input buffer plus the running tendered and tip
// amounts. Not safe for concurrent use.
type Tender struct {
	input    string
	tendered int64
	tips     int64
	payment  PaymentType
}

func NewTender() *Tender { return &Tender{payment: PaymentCash} }

func (t *Tender) Input() string            { return t.input }
func (t *Tender) Tendered() int64          { return t.tendered }
func (t *Tender) Tips() int64              { return t.tips }
func (t *Tender) PaymentType() PaymentType { return t.payment }

func (t *Tender) SetPaymentType(p PaymentType) { t.payment = p }

// Press appends one keypad key: a digit or a single decimal point.
func (t *Tender) Press(key string) error {
	if len(key) != 1 {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	c := key[0]
	switch {
	case c >= '0' && c <= '9':
	case c == '.':
		if strings.Contains(t.input, ".") {
			return fmt.Errorf("%w: second decimal point", ErrInvalidKey)
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if len(t.input) >= maxInput {
		return fmt.Errorf("%w: input too long", ErrInvalidKey)
	}
	t.input += key
	return nil
}

// PressAll feeds every character of s through Press and stops at the first bad key.
func (t *Tender) PressAll(s string) error {
	for i := 0; i < len(s); i++ {
		if err := t.Press(s[i : i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tender) DeleteLastDigit() {
	if t.input != "" {
		t.input = t.input[:len(t.input)-1]
	}
}

// CommitTender adds the buffered amount to the tendered total and clears the buffer.
// An empty buffer commits nothing.
func (t *Tender) CommitTender() error {
	cents, ok, err := t.take()
	if err != nil || !ok {
		return err
	}
	t.tendered += cents
	return nil
}

// CommitTips replaces the tip amount with the buffered amount.
func (t *Tender) CommitTips() error {
	cents, ok, err := t.take()
	if err != nil || !ok {
		return err
	}
	t.tips = cents
	return nil
}

func (t *Tender) ClearTips() { t.tips = 0 }

// QuickTender adds a preset bill amount ($5, $10, $20 buttons).
func (t *Tender) QuickTender(cents int64) { t.tendered += cents }

func (t *Tender) Reset() {
	*t = Tender{payment: PaymentCash}
}

func (t *Tender) take() (int64, bool, error) {
	if t.input == "" {
		return 0, false, nil
	}
	cents, err := money.ParseAmount(t.input)
	if err != nil {
		return 0, false, err
	}
	t.input = ""
	return cents, true, nil
}
