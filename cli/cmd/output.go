package cmd

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	rates "github.com/malusev998/privatbank-rates"
)

type OutputFormat string

const (
	JSONOutput OutputFormat = "json"
	TextOutput OutputFormat = "text"
)

var ErrUnknownOutput = errors.New("unknown output format")

type (
	Writer interface {
		Write(w io.Writer, days []rates.DayRates) error
	}

	jsonWriter struct{}
	textWriter struct{}
)

func NewWriter(format OutputFormat) (Writer, error) {
	switch OutputFormat(strings.ToLower(string(format))) {
	case JSONOutput:
		return jsonWriter{}, nil
	case TextOutput:
		return textWriter{}, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownOutput, format)
}

// Write prints one JSON object per line, in the order of days.
func (jsonWriter) Write(w io.Writer, days []rates.DayRates) error {
	buf := bufio.NewWriter(w)

	for _, day := range days {
		line, err := json.Marshal(day)
		if err != nil {
			return err
		}

		_, _ = buf.Write(line)
		_ = buf.WriteByte('\n')
	}

	return buf.Flush()
}

func (textWriter) Write(w io.Writer, days []rates.DayRates) error {
	buf := bufio.NewWriter(w)

	for _, day := range days {
		_, _ = buf.WriteString(day.Date.String())

		if day.Err != nil {
			_, _ = fmt.Fprintf(buf, "  error: %v\n", day.Err)
			continue
		}

		for _, c := range day.Currencies {
			rate := day.Rates[c]
			if rate == nil {
				_, _ = fmt.Fprintf(buf, "  %s -", c)
				continue
			}

			_, _ = fmt.Fprintf(buf, "  %s sale=%s purchase=%s", c, rate.Sale, rate.Purchase)
		}

		_ = buf.WriteByte('\n')
	}

	return buf.Flush()
}
