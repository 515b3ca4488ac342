package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	money "github.com/rezonia/gst-engine/internal/decimal"
	"github.com/rezonia/gst-engine/internal/model"
)

// invoiceInput is the JSON document accepted by the breakdown and invoice
// commands. A bare array of line items is accepted as well.
type invoiceInput struct {
	model.InvoiceMetadata
	LineItems []model.LineItem `json:"line_items"`
}

// readInput reads path, or stdin when path is "" or "-"
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		printVerbose("Reading line items from stdin\n")
		return io.ReadAll(stdin)
	}
	printVerbose("Reading line items from %s\n", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

func decodeInput(data []byte) (*invoiceInput, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	var in invoiceInput
	if data[0] == '[' {
		if err := json.Unmarshal(data, &in.LineItems); err != nil {
			return nil, fmt.Errorf("invalid line items: %w", err)
		}
		return &in, nil
	}

	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return &in, nil
}

// parseItem parses CODE:AMOUNT[:QTY[:DESCRIPTION]]
func parseItem(s string) (model.LineItem, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) < 2 || parts[0] == "" {
		return model.LineItem{}, fmt.Errorf("invalid item %q: want CODE:AMOUNT[:QTY[:DESCRIPTION]]", s)
	}

	amount, err := money.FromString(parts[1])
	if err != nil {
		return model.LineItem{}, model.NewInvalidAmountError("amount", parts[1], "not a decimal number", err)
	}

	item := model.LineItem{CategoryCode: parts[0], Amount: amount}
	if len(parts) > 2 && parts[2] != "" {
		item.Quantity, err = strconv.Atoi(parts[2])
		if err != nil {
			return model.LineItem{}, model.NewInvalidAmountError("quantity", parts[2], "not an integer", err)
		}
	}
	if len(parts) > 3 {
		item.Description = parts[3]
	}
	return item, nil
}

// collectItems merges --item flags with line items read from an input file
func collectItems(flags []string, args []string, stdin io.Reader) (*invoiceInput, error) {
	in := &invoiceInput{}

	if len(args) > 0 || len(flags) == 0 {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		data, err := readInput(path, stdin)
		if err != nil {
			return nil, err
		}
		if in, err = decodeInput(data); err != nil {
			return nil, err
		}
	}

	for _, f := range flags {
		item, err := parseItem(f)
		if err != nil {
			return nil, err
		}
		in.LineItems = append(in.LineItems, item)
	}

	return in, nil
}
