// Package importer turns bank and card statement CSVs into transactions.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kakeibo-dev/kakeibo/internal/day"
	"github.com/kakeibo-dev/kakeibo/internal/model"
)

// Line is one row of a statement. A negative amount is money spent, a
// positive one money received.
type Line struct {
	Date        day.Date        `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Parser converts a statement CSV into Lines.
type Parser interface {
	Parse(r io.Reader) ([]Line, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file in the import inbox.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&BankParser{})
	r.Register(&CardParser{})
	return r
}

// Transactions turns statement lines into transactions on acct. Spending
// becomes an expense and receipts become income; zero lines are skipped.
// Income would raise a liability, so receipts on a liability account, such
// as card refunds, are returned as skipped for the user to record by hand.
// Category is left empty for the user to sort later.
func Transactions(lines []Line, acct model.Account) (txs []model.Transaction, skipped []Line, err error) {
	for i, l := range lines {
		if l.Amount.IsZero() {
			continue
		}
		if !l.Amount.IsInteger() {
			return nil, nil, fmt.Errorf("line %d: %w", i+1, &model.ValidationError{Field: "amount", Reason: "must be a whole number"})
		}
		kind := model.KindIncome
		if l.Amount.IsNegative() {
			kind = model.KindExpense
		}
		if kind == model.KindIncome && acct.IsLiability() {
			skipped = append(skipped, l)
			continue
		}
		txs = append(txs, model.Transaction{
			Date:      l.Date,
			Kind:      kind,
			Amount:    l.Amount.Abs().IntPart(),
			AccountID: acct.ID,
			Tags:      []string{},
			Memo:      l.Description,
		})
	}
	return txs, skipped, nil
}

// InboxDir is the subdirectory scanned for statements, relative to the book.
const InboxDir = "import"

// processedDir is where imported statements are moved.
const processedDir = "import/processed"

// Scan returns CSV files in <root>/import/.
func Scan(root string) ([]FileInfo, error) {
	dir := filepath.Join(root, InboxDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, InboxDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
