package service

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/isupersid/stalker-test-client/internal/domain/models"
	"github.com/isupersid/stalker-test-client/pkg/errors"
	"github.com/isupersid/stalker-test-client/pkg/utils"
)

// ReadMACList parses a MAC list: one address per line, blank lines and
// #-comments skipped, every address canonicalized. Lines that do not look
// like a MAC at all fail the whole load so a typo never silently shrinks a
// scan.
func ReadMACList(r io.Reader) ([]string, error) {
	var macs []string

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if !utils.IsMACLike(text) {
			return nil, errors.Newf(errors.KindConfig, "line %d: %q is not a MAC address", line, text)
		}
		macs = append(macs, models.CanonicalizeMAC(text))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.New(errors.KindConfig, "reading MAC list").WithCause(err)
	}
	return macs, nil
}

// ReadMACListFile loads a MAC list from disk.
func ReadMACListFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Newf(errors.KindConfig, "opening MAC list %s", path).WithCause(err)
	}
	defer f.Close()
	return ReadMACList(f)
}

// WriteAuthorizedList writes the authorized MACs of a report, one per line,
// in input order.
func WriteAuthorizedList(w io.Writer, report *models.BatchReport) error {
	for _, mac := range report.AuthorizedMACs() {
		if _, err := fmt.Fprintln(w, mac); err != nil {
			return err
		}
	}
	return nil
}

// WriteAuthorizedListFile writes the authorized MACs of a report to disk.
func WriteAuthorizedListFile(path string, report *models.BatchReport) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Newf(errors.KindConfig, "creating output file %s", path).WithCause(err)
	}
	defer f.Close()
	return WriteAuthorizedList(f, report)
}
