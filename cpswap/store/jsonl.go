package store

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"github.com/krazyTry/liquidity-pool-go/cpswap/model"
)

// JsonlJournal appends receipts to a JSONL file.
type JsonlJournal struct {
	path string
	mu   sync.Mutex
}

func NewJsonlJournal(path string) *JsonlJournal {
	return &JsonlJournal{path: path}
}

func (j *JsonlJournal) PutReceipts(ctx context.Context, receipts []model.Receipt) error {
	if len(receipts) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(j.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "create journal dir")
		}
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	file, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrap(err, "open journal")
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, r := range receipts {
		line, err := json.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "marshal receipt")
		}
		if _, err := writer.Write(line); err != nil {
			return errors.Wrap(err, "write receipt")
		}
		if err := writer.WriteByte('\n'); err != nil {
			return errors.Wrap(err, "write newline")
		}
	}

	if err := writer.Flush(); err != nil {
		return errors.Wrap(err, "flush journal")
	}
	return nil
}

// ReadJournal loads every receipt from a JSONL journal.
func ReadJournal(path string) ([]model.Receipt, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open journal")
	}
	defer file.Close()

	var out []model.Receipt
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var r model.Receipt
		if err := json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, errors.Wrapf(err, "decode receipt %d", len(out))
		}
		out = append(out, r)
	}
	return out, errors.Wrap(scanner.Err(), "scan journal")
}
